// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// mpdbar displays an mpd widget on an i3bar.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	mpdbar "mpdbar.run"
	"mpdbar.run/colors"
	"mpdbar.run/modules/mpd"
)

var configPath = flag.String("config", "", "path to the widget config file")

func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "mpdbar", "config.yaml")
}

func main() {
	flag.Parse()
	path := *configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := mpd.LoadConfig(path)
	if err != nil {
		if *configPath != "" {
			log.Fatalf("loading config %s: %v", path, err)
		}
		// No config file at the default location: use defaults.
		cfg = mpd.DefaultConfig()
	}
	colors.LoadFromMap(cfg.ColorOverrides)
	widget, err := mpd.New(cfg)
	if err != nil {
		log.Fatalf("starting mpd widget: %v", err)
	}
	panic(mpdbar.Run(widget))
}
