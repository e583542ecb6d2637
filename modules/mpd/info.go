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
	"fmt"
	"time"
)

// PlaybackState represents the player's current playback state.
type PlaybackState string

const (
	// Playing when the player is actively playing a song.
	Playing = PlaybackState("play")
	// Paused when playback is paused mid-song.
	Paused = PlaybackState("pause")
	// Stopped when the player has no active song.
	Stopped = PlaybackState("stop")
)

// Status is a snapshot of the player's state, fetched fresh on every
// refresh cycle. It is never cached across cycles.
type Status struct {
	State   PlaybackState
	Repeat  bool
	Random  bool
	Single  bool
	Consume bool
	// Elapsed is the position within the current song. HasElapsed is
	// false when the player did not report a position (e.g. stopped).
	Elapsed    time.Duration
	HasElapsed bool
	Volume     int
}

// Song holds the subset of song metadata used for display.
type Song struct {
	Title  string
	Artist string
	File   string
	// Duration is the total length of the song. HasDuration is false
	// when the player did not report one (e.g. streams).
	Duration    time.Duration
	HasDuration bool
}

// formatSeconds renders a duration as m:ss, with minutes unpadded and
// carrying any overflow past an hour (61:05, not 1:01:05).
func formatSeconds(d time.Duration) string {
	s := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func titleOf(song *Song) string {
	if song == nil {
		return ""
	}
	if song.Title != "" {
		return song.Title
	}
	return song.File
}

func artistOf(song *Song) string {
	if song == nil {
		return ""
	}
	if song.Artist != "" {
		return song.Artist
	}
	return "unknown artist"
}

func elapsedOf(st Status) string {
	if !st.HasElapsed {
		return ""
	}
	return formatSeconds(st.Elapsed)
}

func lengthOf(song *Song) string {
	if song == nil || !song.HasDuration {
		return ""
	}
	return formatSeconds(song.Duration)
}

// playbackInfo summarises the playback state as a single value:
// "elapsed/length" while playing, otherwise a fixed word.
func playbackInfo(st Status, song *Song) string {
	switch st.State {
	case Playing:
		return elapsedOf(st) + "/" + lengthOf(song)
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

func flag(set bool, letter string) string {
	if set {
		return letter
	}
	return ""
}

// templateValues builds the placeholder values for a single refresh
// cycle from a status snapshot and the current song (possibly nil).
func templateValues(st Status, song *Song) map[string]string {
	return map[string]string{
		"artist":        artistOf(song),
		"title":         titleOf(song),
		"elapsed":       elapsedOf(st),
		"length":        lengthOf(song),
		"playback_info": playbackInfo(st, song),
		"volume":        fmt.Sprintf("%d", st.Volume),
		"repeat":        flag(st.Repeat, "R"),
		"random":        flag(st.Random, "Z"),
		"single":        flag(st.Single, "S"),
		"consume":       flag(st.Consume, "C"),
	}
}
