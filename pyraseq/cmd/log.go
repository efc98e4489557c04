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
	"os"

	"github.com/mattn/go-colorable"
	"github.com/shenwei356/go-logging"
)

var log = logging.MustGetLogger("pyraseq")

func init() {
	format := logging.MustStringFormatter(`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`)
	backend := logging.NewBackendFormatter(
		logging.NewLogBackend(colorable.NewColorableStderr(), "", 0), format)
	logging.SetBackend(backend)
}

// addLog tees log messages into a file, keeping the stderr backend
// when verbose. The caller closes the returned file.
func addLog(file string, verbose bool) *os.File {
	fh, err := os.Create(file)
	checkError(err)

	fileFormat := logging.MustStringFormatter(`%{time:15:04:05.000} [%{level:.4s}] %{message}`)
	fileBackend := logging.NewBackendFormatter(
		logging.NewLogBackend(fh, "", 0), fileFormat)

	if verbose {
		stderrFormat := logging.MustStringFormatter(`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`)
		stderrBackend := logging.NewBackendFormatter(
			logging.NewLogBackend(colorable.NewColorableStderr(), "", 0), stderrFormat)
		logging.SetBackend(stderrBackend, fileBackend)
	} else {
		logging.SetBackend(fileBackend)
	}

	return fh
}
