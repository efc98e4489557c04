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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/UriNeri/pyraseq/pyraseq/engine"
	"github.com/UriNeri/pyraseq/pyraseq/idset"
	"github.com/UriNeri/pyraseq/pyraseq/seqio"
)

// ErrHeaderCollectionNotFound occurs when the identifier file given
// with -F/--header-file does not exist.
var ErrHeaderCollectionNotFound = errors.New("header collection file not found")

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "filter records by identifier",
	Long: `filter records by identifier

Records whose identifier (the header token before the first whitespace)
is in the given collection are written to the output, in input order
regardless of the number of threads. -v/--invert-match keeps the
records NOT in the collection instead.

Attentions:
  1. Input should be (gzip/bgzip-compressed) FASTA or FASTQ, from files or stdin.
  2. -H accepts comma-separated identifiers, or a path to a file with
     one identifier per line; an existing path wins over the literal
     interpretation. Use -F to force reading from a file.
  3. On any error the output file must be discarded: already flushed
     bytes may remain on disk.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		// ---------------------------------------------------------------

		headers := getFlagString(cmd, "headers")
		headerFile := getFlagString(cmd, "header-file")
		invert := getFlagBool(cmd, "invert-match")
		outFile := getFlagString(cmd, "out-file")
		lineWidth := getFlagNonNegativeInt(cmd, "line-width")
		if lineWidth == 0 {
			lineWidth = opt.LineWidth
		}

		if headers == "" && headerFile == "" {
			checkError(fmt.Errorf("one of -H/--headers and -F/--header-file needed"))
		}

		lines, err := resolveHeaders(headers, headerFile)
		checkError(err)

		ids := idset.New(lines)
		if ids.Len() == 0 {
			checkError(fmt.Errorf("no identifiers resolved from -H/-F"))
		}
		if outputLog {
			log.Infof("%d identifiers loaded", ids.Len())
		}

		files := getFileListFromArgs(args)
		outFileClean := filepath.Clean(outFile)
		for _, file := range files {
			if !isStdin(file) && filepath.Clean(file) == outFileClean {
				checkError(fmt.Errorf("out file should not be one of the input files"))
			}
		}

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer func() {
			checkError(outfh.Close())
		}()

		eopt := &engine.Options{
			Threads:   opt.NumCPUs,
			Invert:    invert,
			LineWidth: lineWidth,
		}

		// chunk-level process bar, one per input
		var pbs *mpb.Progress
		showBar := opt.Verbose && !opt.Log2File
		if showBar {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		}

		var records, written, bases uint64
		for _, file := range files {
			data, compression, err := readInput(file)
			checkError(err)
			if outputLog {
				log.Infof("filtering %s (%s)", file, compression)
			}

			eopt.OnChunkDone = nil
			var bar *mpb.Bar
			if showBar {
				format := seqio.DetectFormat(data)
				if format != seqio.FormatUnknown {
					nChunks := len(engine.PartitionChunks(data, opt.NumCPUs, format, 0))
					bar = pbs.AddBar(int64(nChunks),
						mpb.BarRemoveOnComplete(),
						mpb.PrependDecorators(
							decor.Name(file+": ", decor.WC{C: decor.DindentRight}),
							decor.CountersNoUnit("chunk %d/%d", decor.WCSyncWidth),
						),
						mpb.AppendDecorators(
							decor.Percentage(decor.WC{W: 5}),
						),
					)
					eopt.OnChunkDone = func() { bar.IncrBy(1) }
				}
			}

			summary, err := engine.Filter(data, outfh, ids, eopt)
			if err != nil && bar != nil {
				bar.Abort(true)
			}
			checkError(err)

			records += summary.Records
			written += summary.Written
			bases += summary.Bases
		}
		if showBar {
			pbs.Wait()
		}

		if outputLog {
			log.Infof("%s records processed (%s bases), %s written",
				humanize.Comma(int64(records)), humanize.Comma(int64(bases)),
				humanize.Comma(int64(written)))
		}
	},
}

// resolveHeaders turns the flexible header argument into the canonical
// list of identifier lines, before the engine is involved: headerFile
// (one identifier per line, gzip ok) wins; otherwise headers is a path
// to an existing file, or a comma-separated list.
func resolveHeaders(headers string, headerFile string) ([]string, error) {
	if headerFile != "" {
		if _, err := os.Stat(headerFile); os.IsNotExist(err) {
			return nil, errors.Wrap(ErrHeaderCollectionNotFound, headerFile)
		}
		return readHeaderFile(headerFile)
	}

	if _, err := os.Stat(headers); err == nil {
		return readHeaderFile(headers)
	}

	return strings.Split(headers, ","), nil
}

func readHeaderFile(file string) ([]string, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	lines := make([]string, 0, 1024)
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Wrap(err, file)
	}
	return lines, fh.Close()
}

func init() {
	RootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringP("headers", "H", "",
		formatFlagUsage(`Identifiers to select: a comma-separated list, or a path to a file with one identifier per line.`))

	filterCmd.Flags().StringP("header-file", "F", "",
		formatFlagUsage(`File with one identifier per line (".gz" supported).`))

	filterCmd.Flags().BoolP("invert-match", "v", false,
		formatFlagUsage(`Keep records NOT in the identifier collection.`))

	filterCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))

	filterCmd.Flags().IntP("line-width", "w", 0,
		formatFlagUsage(`Line width of FASTA sequences on output (0 for no wrap).`))

	filterCmd.SetUsageTemplate(usageTemplate("-H seq1,seq2 [-v] [-o out.fasta.gz] <in.fasta/q[.gz]> ..."))
}
