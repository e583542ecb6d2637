// Copyright 2017 Google Inc.
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

package colors

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func assertSchemeEquals(t *testing.T, expected map[string]ColorfulColor, desc string) {
	for name, expectedValue := range expected {
		require.Equal(t, expectedValue, scheme[name], "%s: %s", desc, name)
	}
	for name, value := range scheme {
		require.Equal(t, expected[name], value, "%s: %s", desc, name)
	}
}

func TestHex(t *testing.T) {
	require.Nil(t, Hex("not a color"))
	red := Hex("#ff0000")
	require.NotNil(t, red)
	r, g, b, _ := red.RGBA()
	require.Equal(t, uint32(0xffff), r)
	require.Equal(t, uint32(0), g)
	require.Equal(t, uint32(0), b)
}

func TestScheme(t *testing.T) {
	scheme = map[string]ColorfulColor{}
	require.Nil(t, Scheme("undefined"), "unset scheme color is nil")

	Set("good", Hex("#00ff00"))
	require.Equal(t, Hex("#00ff00"), Scheme("good"))

	Set("good", nil)
	require.Nil(t, Scheme("good"), "Set(nil) removes the color")
}

func TestLoadFromArgs(t *testing.T) {
	scheme = map[string]ColorfulColor{}
	LoadFromArgs([]string{
		"good=#00ff00",
		"bad=#ff0000",
		"not-a-color=#ghitai",
		"not an arg at all",
	})
	assertSchemeEquals(t, map[string]ColorfulColor{
		"good": Hex("#00ff00"),
		"bad":  Hex("#ff0000"),
	}, "from args")
}

func TestLoadFromMap(t *testing.T) {
	scheme = map[string]ColorfulColor{}
	LoadFromMap(map[string]string{
		"mpd":      "#8000c0",
		"degraded": "#ffff00",
		"bogus":    "not a color",
	})
	assertSchemeEquals(t, map[string]ColorfulColor{
		"mpd":      Hex("#8000c0"),
		"degraded": Hex("#ffff00"),
	}, "from map")
}

func TestLoadFromConfig(t *testing.T) {
	scheme = map[string]ColorfulColor{}
	fs = afero.NewMemMapFs()
	afero.WriteFile(fs, "/i3status.conf", []byte(`
general {
	colors = true
	color_good = "#007700"
	color_bad = '#ff0000'
	color_invalid = '#fhgwgads'
	interval = 5
}
`), 0644)
	require.NoError(t, LoadFromConfig("/i3status.conf"))
	assertSchemeEquals(t, map[string]ColorfulColor{
		"good": Hex("#007700"),
		"bad":  Hex("#ff0000"),
	}, "from config")

	require.Error(t, LoadFromConfig("/nonexistent.conf"))
}
