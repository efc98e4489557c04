// Copyright © 2024-2026 Uri Neri
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"

	"github.com/iafan/cwalk"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"

	"github.com/UriNeri/pyraseq/pyraseq/seqio"
)

// Options contains the global flags, with defaults merged in from an
// optional ~/.pyraseq.toml (flags win).
type Options struct {
	NumCPUs int
	Verbose bool

	LogFile  string
	Log2File bool

	LineWidth int
}

func getOptions(cmd *cobra.Command) *Options {
	config := loadConfig()

	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = config.Threads
	}
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	return &Options{
		NumCPUs: threads,
		Verbose: !getFlagBool(cmd, "quiet"),

		LogFile:  logfile,
		Log2File: logfile != "",

		LineWidth: config.LineWidth,
	}
}

// readInput loads the decompressed content of file ("-" for stdin).
func readInput(file string) ([]byte, seqio.Compression, error) {
	if isStdin(file) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, seqio.CompressionPlain, errors.Wrap(err, "reading stdin")
		}
		return seqio.Decode(data)
	}
	return seqio.ReadFile(file)
}

// getFileListFromArgs returns the positional arguments as input files,
// defaulting to stdin.
func getFileListFromArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// getFileListFromDir walks a directory concurrently and collects files
// whose base name matches pattern, sorted for reproducible order.
func getFileListFromDir(path string, pattern *regexp.Regexp, threads int) ([]string, error) {
	existed, err := pathutil.DirExists(path)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if !existed {
		return nil, errors.Errorf("directory not found: %s", path)
	}

	files := make([]string, 0, 512)
	ch := make(chan string, threads)
	done := make(chan int)
	go func() {
		for file := range ch {
			files = append(files, file)
		}
		done <- 1
	}()

	cwalk.NumWorkers = threads
	err = cwalk.WalkWithSymlinks(path, func(_path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && pattern.MatchString(info.Name()) {
			ch <- filepath.Join(path, _path)
		}
		return nil
	})
	close(ch)
	<-done
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
