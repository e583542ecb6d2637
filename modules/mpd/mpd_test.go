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
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"mpdbar.run/bar"
	"mpdbar.run/outputs"
	testBar "mpdbar.run/testing/bar"
)

// player simulates an mpd server. All clients dialed from it share its
// state, so a reconnected client sees the same player.
type player struct {
	mu       sync.Mutex
	status   Status
	song     *Song
	broken   bool
	dialErr  error
	dials    int
	commands []string
}

func newPlayer() *player {
	return &player{
		status: Status{
			State:      Playing,
			Elapsed:    65 * time.Second,
			HasElapsed: true,
			Volume:     50,
		},
		song: &Song{
			Title:       "Song",
			Artist:      "Artist",
			File:        "music/song.mp3",
			Duration:    185 * time.Second,
			HasDuration: true,
		},
	}
}

func (p *player) dial(addr string) (Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dialErr != nil {
		return nil, p.dialErr
	}
	p.dials++
	return &playerClient{p: p}, nil
}

func (p *player) set(fn func(*player)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

func (p *player) dialCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dials
}

func (p *player) popCommands() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	cmds := p.commands
	p.commands = nil
	return cmds
}

// playerClient is a Client backed by a fake player.
type playerClient struct {
	p      *player
	closed bool
}

var errBroken = errors.New("connection reset")

func (c *playerClient) Status() (Status, error) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	if c.p.broken || c.closed {
		return Status{}, errBroken
	}
	return c.p.status, nil
}

func (c *playerClient) CurrentSong() (*Song, error) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	if c.p.broken || c.closed {
		return nil, errBroken
	}
	return c.p.song, nil
}

func (c *playerClient) command(cmd string) error {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	if c.p.broken || c.closed {
		return errBroken
	}
	c.p.commands = append(c.p.commands, cmd)
	return nil
}

func (c *playerClient) Previous() error    { return c.command("previous") }
func (c *playerClient) Next() error        { return c.command("next") }
func (c *playerClient) TogglePause() error { return c.command("pause") }

func (c *playerClient) SetVolume(vol int) error {
	if err := c.command(fmt.Sprintf("setvol %d", vol)); err != nil {
		return err
	}
	c.p.mu.Lock()
	c.p.status.Volume = vol
	c.p.mu.Unlock()
	return nil
}

func (c *playerClient) Close() error {
	c.closed = true
	return nil
}

func setupPlayer(t *testing.T) *player {
	testBar.New(t)
	p := newPlayer()
	dial = p.dial
	scrollLimiter = rate.NewLimiter(rate.Inf, 0)
	return p
}

func TestSimple(t *testing.T) {
	p := setupPlayer(t)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [1:05/3:05]"}, "on start")

	p.set(func(p *player) { p.status.Elapsed = 66 * time.Second })
	testBar.Tick()
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [1:06/3:05]"}, "on tick")
}

func TestRenderIsIdempotent(t *testing.T) {
	setupPlayer(t)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [1:05/3:05]"}, "on start")
	testBar.Tick()
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [1:05/3:05]"},
		"unchanged state renders identically")
}

func TestFlags(t *testing.T) {
	p := setupPlayer(t)
	p.set(func(p *player) {
		p.status.Repeat = true
		p.status.Single = true
	})
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [1:05/3:05]RS"}, "set flags render in order")

	p.set(func(p *player) {
		p.status.Random = true
		p.status.Consume = true
	})
	testBar.Tick()
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [1:05/3:05]RZSC"})
}

func TestStates(t *testing.T) {
	p := setupPlayer(t)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().Expect("on start")

	p.set(func(p *player) { p.status.State = Paused })
	testBar.Tick()
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [paused]"})

	p.set(func(p *player) {
		p.status = Status{State: Stopped, Volume: 50}
		p.song = nil
	})
	testBar.Tick()
	testBar.NextOutput().AssertText(
		[]string{" -  [stopped]"}, "no song leaves artist and title empty")
}

func TestTitleAndArtistFallbacks(t *testing.T) {
	p := setupPlayer(t)
	p.set(func(p *player) {
		p.song = &Song{File: "music/song.mp3", Duration: 185 * time.Second, HasDuration: true}
	})
	cfg := DefaultConfig()
	cfg.Format = "{artist} - {title}"
	m, err := New(cfg)
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().AssertText(
		[]string{"unknown artist - music/song.mp3"})
}

func TestCustomFormat(t *testing.T) {
	setupPlayer(t)
	cfg := DefaultConfig()
	cfg.Format = "vol {volume}% {elapsed}/{length} #{unknown}"
	m, err := New(cfg)
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().AssertText(
		[]string{"vol 50% 1:05/3:05 #{unknown}"},
		"unknown placeholders pass through verbatim")
}

func TestBadFormat(t *testing.T) {
	setupPlayer(t)
	cfg := DefaultConfig()
	cfg.Format = "{artist"
	_, err := New(cfg)
	require.Error(t, err, "unterminated placeholder")
}

func TestInitialConnectFailure(t *testing.T) {
	p := setupPlayer(t)
	p.set(func(p *player) { p.dialErr = errors.New("connection refused") })
	_, err := New(DefaultConfig())
	require.Error(t, err, "construction fails if the player is unreachable")
}

func TestClicks(t *testing.T) {
	p := setupPlayer(t)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().Expect("on start")

	testBar.SendEvent(0, bar.Event{Button: bar.ButtonLeft})
	testBar.NextOutput().Expect("after click")
	testBar.SendEvent(0, bar.Event{Button: bar.ButtonMiddle})
	testBar.NextOutput().Expect("after click")
	testBar.SendEvent(0, bar.Event{Button: bar.ButtonRight})
	testBar.NextOutput().Expect("after click")
	require.Equal(t, []string{"previous", "pause", "next"}, p.popCommands())

	// Events for some other widget's segment are ignored.
	m.Click(bar.Event{Button: bar.ButtonRight, SegmentID: "other-widget"})
	testBar.NextOutput().Expect("after ignored click")
	require.Empty(t, p.popCommands())
}

func TestVolumeScroll(t *testing.T) {
	p := setupPlayer(t)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().Expect("on start")

	testBar.SendEvent(0, bar.Event{Button: bar.ScrollUp})
	testBar.NextOutput().Expect("after scroll")
	testBar.SendEvent(0, bar.Event{Button: bar.ScrollDown})
	testBar.NextOutput().Expect("after scroll")
	require.Equal(t, []string{"setvol 55", "setvol 50"}, p.popCommands())
}

func TestVolumeClamping(t *testing.T) {
	p := setupPlayer(t)
	p.set(func(p *player) { p.status.Volume = 98 })
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().Expect("on start")

	testBar.SendEvent(0, bar.Event{Button: bar.ScrollUp})
	testBar.NextOutput().Expect("after scroll")
	testBar.SendEvent(0, bar.Event{Button: bar.ScrollUp})
	testBar.NextOutput().Expect("after scroll")
	require.Equal(t, []string{"setvol 100", "setvol 100"}, p.popCommands(),
		"volume never exceeds 100")

	p.set(func(p *player) { p.status.Volume = 3 })
	testBar.SendEvent(0, bar.Event{Button: bar.ScrollDown})
	testBar.NextOutput().Expect("after scroll")
	require.Equal(t, []string{"setvol 0"}, p.popCommands(),
		"volume never goes below 0")
}

func TestScrollThrottling(t *testing.T) {
	p := setupPlayer(t)
	scrollLimiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().Expect("on start")

	for i := 0; i < 5; i++ {
		testBar.SendEvent(0, bar.Event{Button: bar.ScrollUp})
		testBar.NextOutput().Expect("after scroll")
	}
	require.Equal(t, []string{"setvol 55"}, p.popCommands(),
		"rapid scrolls are throttled")
}

func TestReconnect(t *testing.T) {
	p := setupPlayer(t)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().Expect("on start")

	p.set(func(p *player) { p.broken = true })
	testBar.Tick()
	testBar.NextOutput().AssertText(
		[]string{"reconnecting..."}, "on broken connection")

	// Clicks are no-ops while the connection is down.
	testBar.SendEvent(0, bar.Event{Button: bar.ButtonRight})
	testBar.NextOutput().AssertText(
		[]string{"reconnecting..."}, "still down after click")
	require.Empty(t, p.popCommands())

	p.set(func(p *player) { p.broken = false })
	testBar.Tick()
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [1:05/3:05]"}, "on reconnect")
	require.Equal(t, 2, p.dialCount(), "one dial at start, one on reconnect")
}

func TestReconnectKeepsFailing(t *testing.T) {
	p := setupPlayer(t)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	testBar.Run(m)
	testBar.NextOutput().Expect("on start")

	p.set(func(p *player) {
		p.broken = true
		p.dialErr = errors.New("connection refused")
	})
	testBar.Tick()
	testBar.NextOutput().AssertText([]string{"reconnecting..."})
	for i := 0; i < 3; i++ {
		testBar.Tick()
		testBar.NextOutput().AssertText(
			[]string{"reconnecting..."}, "while the player is unreachable")
	}
	require.Equal(t, 1, p.dialCount(), "failed dials are not counted")

	p.set(func(p *player) {
		p.broken = false
		p.dialErr = nil
	})
	testBar.Tick()
	testBar.NextOutput().AssertText(
		[]string{"Artist - Song [1:05/3:05]"}, "once the player is back")
}

func TestCustomOutput(t *testing.T) {
	setupPlayer(t)
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	m.Output(func(text string) bar.Output {
		return outputs.Text("mpd: " + text)
	})
	testBar.Run(m)
	testBar.NextOutput().AssertText(
		[]string{"mpd: Artist - Song [1:05/3:05]"})
}
