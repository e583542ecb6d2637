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
	"strconv"
	"time"

	mpdc "github.com/fhs/gompd/mpd"
)

// Client is the connection surface this module needs from the music
// player. A Client is used by a single goroutine and is discarded,
// never repaired, when any call on it fails.
type Client interface {
	Status() (Status, error)
	CurrentSong() (*Song, error)
	Previous() error
	Next() error
	TogglePause() error
	SetVolume(int) error
	Close() error
}

// dial opens a client for the given address. Swapped out in tests.
var dial = dialMPD

func dialMPD(addr string) (Client, error) {
	conn, err := mpdc.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &client{conn}, nil
}

// client adapts a gompd connection to the Client interface.
type client struct {
	conn *mpdc.Client
}

func (c *client) Status() (Status, error) {
	attrs, err := c.conn.Status()
	if err != nil {
		return Status{}, err
	}
	return statusFromAttrs(attrs), nil
}

func (c *client) CurrentSong() (*Song, error) {
	attrs, err := c.conn.CurrentSong()
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		// Nothing queued.
		return nil, nil
	}
	return songFromAttrs(attrs), nil
}

func (c *client) Previous() error { return c.conn.Previous() }
func (c *client) Next() error     { return c.conn.Next() }

// TogglePause pauses a playing player and resumes a paused one. The
// protocol has no toggle verb, so this reads the state first. When
// stopped, the pause command is a no-op either way.
func (c *client) TogglePause() error {
	attrs, err := c.conn.Status()
	if err != nil {
		return err
	}
	return c.conn.Pause(attrs["state"] == "play")
}

func (c *client) SetVolume(vol int) error { return c.conn.SetVolume(vol) }
func (c *client) Close() error            { return c.conn.Close() }

func statusFromAttrs(attrs mpdc.Attrs) Status {
	st := Status{
		State:   PlaybackState(attrs["state"]),
		Repeat:  attrs["repeat"] == "1",
		Random:  attrs["random"] == "1",
		Single:  attrs["single"] == "1",
		Consume: attrs["consume"] == "1",
	}
	if e, err := strconv.ParseFloat(attrs["elapsed"], 64); err == nil {
		st.Elapsed = time.Duration(e * float64(time.Second))
		st.HasElapsed = true
	}
	if v, err := strconv.Atoi(attrs["volume"]); err == nil {
		st.Volume = v
	}
	return st
}

func songFromAttrs(attrs mpdc.Attrs) *Song {
	song := &Song{
		Title:  attrs["Title"],
		Artist: attrs["Artist"],
		File:   attrs["file"],
	}
	if d, err := strconv.ParseFloat(attrs["duration"], 64); err == nil {
		song.Duration = time.Duration(d * float64(time.Second))
		song.HasDuration = true
	} else if t, err := strconv.Atoi(attrs["Time"]); err == nil {
		song.Duration = time.Duration(t) * time.Second
		song.HasDuration = true
	}
	return song
}
