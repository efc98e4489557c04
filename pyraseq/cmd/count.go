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
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/UriNeri/pyraseq/pyraseq/engine"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "count records and bases",
	Long: `count records and bases

Writes one tab-separated line per input: file, records, bases.
--stats appends min, max, mean, stdev and N50 of the sequence lengths.
A "total" line is added for more than one input.

Attentions:
  1. Input should be (gzip/bgzip-compressed) FASTA or FASTQ, from files or stdin.
  2. Totals are independent of the number of threads.

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

		outFile := getFlagString(cmd, "out-file")
		withStats := getFlagBool(cmd, "stats")
		baseName := getFlagBool(cmd, "basename")
		inDir := getFlagString(cmd, "in-dir")
		reFileStr := getFlagString(cmd, "file-regexp")

		var files []string
		if inDir != "" {
			reFile, err := regexp.Compile(reFileStr)
			if err != nil {
				checkError(fmt.Errorf("invalid value of flag -r/--file-regexp: %s", err))
			}
			files, err = getFileListFromDir(inDir, reFile, opt.NumCPUs)
			checkError(err)
			if len(files) == 0 {
				checkError(fmt.Errorf("no files matching %s in %s", reFileStr, inDir))
			}
			if outputLog {
				log.Infof("%d input file(s) found in %s", len(files), inDir)
			}
		} else {
			files = getFileListFromArgs(args)
		}

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer func() {
			checkError(outfh.Close())
		}()

		// process bar
		var pbs *mpb.Progress
		var bar *mpb.Bar
		showBar := opt.Verbose && !opt.Log2File && len(files) > 1
		if showBar {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(files)),
				mpb.PrependDecorators(
					decor.Name("counting: ", decor.WC{C: decor.DindentRight}),
					decor.CountersNoUnit("%d/%d files", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.EwmaETA(decor.ET_STYLE_GO, 10, decor.WC{W: 8}),
					decor.OnComplete(decor.Name(""), " done"),
				),
			)
		}

		eopt := &engine.Options{
			Threads:        opt.NumCPUs,
			CollectLengths: withStats,
		}

		var totalRecords, totalBases uint64
		for _, file := range files {
			timeStartFile := time.Now()

			data, compression, err := readInput(file)
			checkError(err)
			if outputLog {
				log.Infof("counting %s (%s)", file, compression)
			}

			summary, err := engine.Count(data, eopt)
			checkError(err)

			totalRecords += summary.Records
			totalBases += summary.Bases

			fmt.Fprintf(outfh, "%s\t%d\t%d", displayName(file, baseName), summary.Records, summary.Bases)
			if withStats {
				stats := engine.SummarizeLengths(summary.Lengths)
				fmt.Fprintf(outfh, "\t%d\t%d\t%.1f\t%.1f\t%d",
					stats.Min, stats.Max, stats.Mean, stats.Stdev, stats.N50)
			}
			fmt.Fprintln(outfh)

			if showBar {
				bar.EwmaIncrBy(1, time.Since(timeStartFile))
			}
		}
		if showBar {
			pbs.Wait()
		}

		if len(files) > 1 {
			fmt.Fprintf(outfh, "total\t%d\t%d\n", totalRecords, totalBases)
		}

		if outputLog {
			log.Infof("%s records, %s bases in %d file(s)",
				humanize.Comma(int64(totalRecords)), humanize.Comma(int64(totalBases)), len(files))
		}
	},
}

// displayName is the file label in the report: the path as given, or
// only the base name with --basename. Stdin stays "-".
func displayName(file string, baseName bool) string {
	if !baseName || isStdin(file) {
		return file
	}
	return filepath.Base(file)
}

func init() {
	RootCmd.AddCommand(countCmd)

	countCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file ("-" for stdout).`))

	countCmd.Flags().BoolP("stats", "s", false,
		formatFlagUsage(`Also report min, max, mean, stdev and N50 of sequence lengths.`))

	countCmd.Flags().BoolP("basename", "b", false,
		formatFlagUsage(`Only output basenames of files.`))

	countCmd.Flags().StringP("in-dir", "X", "",
		formatFlagUsage(`Directory containing input files. Directory symlinks are followed.`))

	countCmd.Flags().StringP("file-regexp", "r", `\.(fa|fasta|fna|fq|fastq)(\.gz)?$`,
		formatFlagUsage(`Regular expression for matching sequence files in -X/--in-dir.`))

	countCmd.SetUsageTemplate(usageTemplate("[-s] [-b] [<in.fasta/q[.gz]> ...] | [-X dir -r regexp]"))
}
