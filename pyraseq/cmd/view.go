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
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/UriNeri/pyraseq/pyraseq/engine"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "read records sequentially and write them back out",
	Long: `read records sequentially and write them back out

A single-pass, single-threaded round trip: useful for normalizing
line wrapping, decompressing, and validating files. The record
sequence is preserved exactly.

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
		lineWidth := getFlagNonNegativeInt(cmd, "line-width")
		if lineWidth == 0 {
			lineWidth = opt.LineWidth
		}
		validateSeq := getFlagBool(cmd, "validate-seq")

		files := getFileListFromArgs(args)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer func() {
			checkError(outfh.Close())
		}()

		alphabet := seq.DNAredundant

		var n uint64
		for _, file := range files {
			data, compression, err := readInput(file)
			checkError(err)
			if outputLog {
				log.Infof("reading %s (%s)", file, compression)
			}

			records, err := engine.Parse(data)
			checkError(err)

			for _, record := range records {
				if validateSeq {
					if err = alphabet.IsValid(record.Seq); err != nil {
						checkError(fmt.Errorf("invalid sequence of record %q: %s", record.ID, err))
					}
				}
				checkError(record.Output(outfh, lineWidth))
			}
			n += uint64(len(records))
		}

		if outputLog {
			log.Infof("%s records written", humanize.Comma(int64(n)))
		}
	},
}

func init() {
	RootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))

	viewCmd.Flags().IntP("line-width", "w", 0,
		formatFlagUsage(`Line width of FASTA sequences on output (0 for no wrap).`))

	viewCmd.Flags().BoolP("validate-seq", "V", false,
		formatFlagUsage(`Validate bases against the DNA-redundant alphabet.`))

	viewCmd.SetUsageTemplate(usageTemplate("[-w 60] [-o out.fasta] <in.fasta/q[.gz]> ..."))
}
