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

package mpd

import (
	"time"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// DefaultFormat is the display template used when none is configured.
const DefaultFormat = "{artist} - {title} [{playback_info}]{repeat}{random}{single}{consume}"

// Duration wraps time.Duration to accept either a bare number of
// seconds or a duration string ("500ms") in yaml.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var secs float64
	if err := unmarshal(&secs); err == nil {
		*d = Duration(time.Duration(secs * float64(time.Second)))
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Config controls the widget's refresh rate, display template, and the
// address of the player to connect to.
type Config struct {
	Interval       Duration          `yaml:"interval"`
	Format         string            `yaml:"format"`
	IP             string            `yaml:"ip"`
	ColorOverrides map[string]string `yaml:"color_overrides"`
}

// DefaultConfig returns a config with all fields set to their defaults.
func DefaultConfig() Config {
	return Config{
		Interval: Duration(time.Second),
		Format:   DefaultFormat,
		IP:       "127.0.0.1:6600",
	}
}

var fs = afero.NewOsFs()

// LoadConfig reads a yaml config file. Fields absent from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Interval <= 0 {
		cfg.Interval = Duration(time.Second)
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.IP == "" {
		cfg.IP = "127.0.0.1:6600"
	}
	return cfg, nil
}
