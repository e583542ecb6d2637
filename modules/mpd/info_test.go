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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatSeconds(t *testing.T) {
	for _, tc := range []struct {
		duration time.Duration
		expected string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{60 * time.Second, "1:00"},
		{125 * time.Second, "2:05"},
		{600 * time.Second, "10:00"},
		// Minutes are not wrapped at an hour.
		{3600 * time.Second, "60:00"},
		{3725 * time.Second, "62:05"},
		// Sub-second amounts are truncated, not rounded.
		{1900 * time.Millisecond, "0:01"},
	} {
		require.Equal(t, tc.expected, formatSeconds(tc.duration),
			"formatSeconds(%v)", tc.duration)
	}
}

func TestTitleFallbacks(t *testing.T) {
	require.Equal(t, "Song Title", titleOf(&Song{Title: "Song Title", File: "x.mp3"}))
	require.Equal(t, "music/x.mp3", titleOf(&Song{File: "music/x.mp3"}))
	require.Equal(t, "", titleOf(&Song{}))
	require.Equal(t, "", titleOf(nil))
}

func TestArtistFallbacks(t *testing.T) {
	require.Equal(t, "Some Artist", artistOf(&Song{Artist: "Some Artist"}))
	require.Equal(t, "unknown artist", artistOf(&Song{Title: "Song"}))
	require.Equal(t, "", artistOf(nil))
}

func TestPlaybackInfo(t *testing.T) {
	song := &Song{Duration: 185 * time.Second, HasDuration: true}
	playing := Status{State: Playing, Elapsed: 65 * time.Second, HasElapsed: true}
	require.Equal(t, "1:05/3:05", playbackInfo(playing, song))
	require.Equal(t, "paused", playbackInfo(Status{State: Paused}, song))
	require.Equal(t, "stopped", playbackInfo(Status{State: Stopped}, nil))
	// Missing durations leave their side of the separator empty.
	require.Equal(t, "1:05/", playbackInfo(playing, &Song{}))
	require.Equal(t, "/3:05", playbackInfo(Status{State: Playing}, song))
}

func TestTemplateValues(t *testing.T) {
	st := Status{
		State:      Playing,
		Repeat:     true,
		Single:     true,
		Elapsed:    5 * time.Second,
		HasElapsed: true,
		Volume:     70,
	}
	song := &Song{
		Title:       "Song",
		Artist:      "Artist",
		File:        "a/b.flac",
		Duration:    65 * time.Second,
		HasDuration: true,
	}
	require.Equal(t, map[string]string{
		"artist":        "Artist",
		"title":         "Song",
		"elapsed":       "0:05",
		"length":        "1:05",
		"playback_info": "0:05/1:05",
		"volume":        "70",
		"repeat":        "R",
		"random":        "",
		"single":        "S",
		"consume":       "",
	}, templateValues(st, song))

	stopped := templateValues(Status{State: Stopped}, nil)
	require.Equal(t, "", stopped["artist"])
	require.Equal(t, "", stopped["title"])
	require.Equal(t, "stopped", stopped["playback_info"])
}
