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

// Package mpd provides a bar widget that displays the current song and
// playback state of a Music Player Daemon instance, and maps clicks to
// playback commands.
//
// The widget polls the player on a fixed interval. A broken connection
// is never repaired in place: the handle is discarded, a placeholder is
// shown, and a fresh connection is dialed on the next cycle.
package mpd // import "mpdbar.run/modules/mpd"

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"mpdbar.run/bar"
	"mpdbar.run/base/value"
	"mpdbar.run/colors"
	"mpdbar.run/format"
	l "mpdbar.run/logging"
	"mpdbar.run/outputs"
	"mpdbar.run/timing"
)

const reconnectingText = "reconnecting..."

// volumeStep is the volume change for one notch of the scroll wheel.
const volumeStep = 5

// Module represents an mpd bar widget. It supports setting the output
// format via a template with placeholders for song metadata and player
// state, e.g. "{artist} - {title} [{playback_info}]".
type Module struct {
	id         string
	address    string
	interval   time.Duration
	template   *format.Template
	conn       Client
	events     chan bar.Event
	outputFunc value.Value // of func(string) bar.Output
}

// New constructs an mpd widget from the given config. It parses the
// display template and dials the player immediately, and fails if
// either of those does not succeed.
func New(cfg Config) (*Module, error) {
	template, err := format.New(cfg.Format)
	if err != nil {
		return nil, err
	}
	conn, err := dial(cfg.IP)
	if err != nil {
		return nil, err
	}
	m := &Module{
		id:       uuid.New().String(),
		address:  cfg.IP,
		interval: time.Duration(cfg.Interval),
		template: template,
		conn:     conn,
		events:   make(chan bar.Event),
	}
	l.Label(m, cfg.IP)
	l.Register(m, "outputFunc")
	m.Output(defaultOutput)
	return m, nil
}

func defaultOutput(text string) bar.Output {
	return outputs.Text(text).
		ShortText("Mpd").
		Color(colors.Scheme("mpd"))
}

// Output configures a module to display the output of a user-defined
// function given the rendered widget text.
func (m *Module) Output(outputFunc func(string) bar.Output) *Module {
	m.outputFunc.Set(outputFunc)
	return m
}

// Stream starts the module.
func (m *Module) Stream(s bar.Sink) {
	sch := timing.NewScheduler()
	l.Attach(m, sch, "scheduler")
	sch.Every(m.interval)

	outputFunc := m.outputFunc.Get().(func(string) bar.Output)
	s.Output(m.render(outputFunc))
	for {
		select {
		case <-m.outputFunc.Next():
			outputFunc = m.outputFunc.Get().(func(string) bar.Output)
		case e := <-m.events:
			m.handleEvent(e)
		case <-sch.Tick():
			m.redial()
		}
		s.Output(m.render(outputFunc))
	}
}

// Click implements bar.Clickable. The event is handed off to the
// streaming goroutine, which is the sole owner of the connection, so
// command handling never races with a refresh.
func (m *Module) Click(e bar.Event) {
	m.events <- e
}

// redial replaces a dropped connection with a freshly dialed one.
// It only runs on scheduled ticks, so a broken connection stays down
// for at least one full interval before the retry.
func (m *Module) redial() {
	if m.conn != nil {
		return
	}
	conn, err := dial(m.address)
	if err != nil {
		l.Fine("%s: redial failed: %v", l.ID(m), err)
		return
	}
	m.conn = conn
}

// render queries the player and produces the widget output for one
// cycle. Any failure drops the connection and shows a placeholder
// until a later cycle dials a fresh one.
func (m *Module) render(outputFunc func(string) bar.Output) bar.Output {
	if m.conn == nil {
		return m.out(outputFunc(reconnectingText))
	}
	status, err := m.conn.Status()
	if err != nil {
		m.dropConn()
		return m.out(outputFunc(reconnectingText))
	}
	song, err := m.conn.CurrentSong()
	if err != nil {
		m.dropConn()
		return m.out(outputFunc(reconnectingText))
	}
	return m.out(outputFunc(m.template.Render(templateValues(status, song))))
}

func (m *Module) dropConn() {
	m.conn.Close()
	m.conn = nil
}

// out tags each segment with the module's identifier so that click
// events can be routed back to this widget.
func (m *Module) out(o bar.Output) bar.Output {
	segments := bar.Segments(o.Segments())
	for _, s := range segments {
		if _, ok := s.GetID(); !ok {
			s.Identifier(m.id)
		}
	}
	return segments
}

// scrollLimiter rate-limits volume adjustments from the scroll wheel,
// which can fire far faster than the player needs to react.
var scrollLimiter = rate.NewLimiter(rate.Every(50*time.Millisecond), 1)

// handleEvent maps a click to a player command. Events for other
// widgets' segments are ignored, as are all events while disconnected.
// Command failures are logged but do not drop the connection; the next
// status probe decides whether it is still usable.
func (m *Module) handleEvent(e bar.Event) {
	if e.SegmentID != m.id || m.conn == nil {
		return
	}
	var err error
	switch e.Button {
	case bar.ButtonLeft:
		err = m.conn.Previous()
	case bar.ButtonMiddle:
		err = m.conn.TogglePause()
	case bar.ButtonRight:
		err = m.conn.Next()
	case bar.ScrollUp:
		err = m.adjustVolume(volumeStep)
	case bar.ScrollDown:
		err = m.adjustVolume(-volumeStep)
	}
	if err != nil {
		l.Log("%s: command failed: %v", l.ID(m), err)
	}
}

// adjustVolume re-queries the current volume and applies a clamped
// delta, so that repeated scrolls near the ends of the range settle at
// exactly 0 or 100.
func (m *Module) adjustVolume(delta int) error {
	if !scrollLimiter.Allow() {
		return nil
	}
	status, err := m.conn.Status()
	if err != nil {
		return err
	}
	vol := status.Volume + delta
	if vol > 100 {
		vol = 100
	}
	if vol < 0 {
		vol = 0
	}
	return m.conn.SetVolume(vol)
}
