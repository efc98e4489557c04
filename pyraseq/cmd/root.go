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

	"github.com/spf13/cobra"
)

// VERSION of pyraseq
const VERSION = "0.3.0"

// RootCmd is the base command of pyraseq.
var RootCmd = &cobra.Command{
	Use:   "pyraseq",
	Short: "parallel FASTA/FASTQ filtering and counting",
	Long: fmt.Sprintf(`pyraseq v%s: parallel FASTA/FASTQ filtering and counting

pyraseq reads (gzip/bgzip-compressed) FASTA or FASTQ files, selects
records by identifier or counts reads and bases, using all available
CPU cores while keeping the output order and counts deterministic.

`, VERSION),
}

// Execute runs the root command, exiting non-zero on any error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "j", 0,
		formatFlagUsage(`Number of CPU cores to use. By default, it uses all available cores.`))

	RootCmd.PersistentFlags().BoolP("quiet", "", false,
		formatFlagUsage(`Do not print any verbose information.`))

	RootCmd.PersistentFlags().StringP("log", "", "",
		formatFlagUsage(`Log file.`))

	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.SetUsageTemplate(usageTemplate(""))
}
