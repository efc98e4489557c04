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
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

const configFile = ".pyraseq.toml"

// Config holds user defaults read from ~/.pyraseq.toml.
// All fields are optional; flags always override them.
type Config struct {
	Threads   int `toml:"threads"`
	LineWidth int `toml:"line-width"`
}

// loadConfig reads the config file if present. A missing file yields
// zero defaults; an unreadable or invalid file is reported once and
// otherwise ignored.
func loadConfig() *Config {
	config := &Config{}

	home, err := homedir.Dir()
	if err != nil {
		return config
	}

	data, err := os.ReadFile(filepath.Join(home, configFile))
	if err != nil {
		return config
	}

	if err = toml.Unmarshal(data, config); err != nil {
		log.Warningf("invalid config file %s: %s", configFile, err)
		return &Config{}
	}
	return config
}
