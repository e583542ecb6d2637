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

// Package module provides a test module that can be used in tests.
package module

import (
	"sync"
	"time"

	"github.com/stretchr/testify/require"

	"mpdbar.run/bar"
	"mpdbar.run/outputs"
)

// TestModule represents a bar.Module used for testing.
type TestModule struct {
	require *require.Assertions
	mu      sync.Mutex
	started chan struct{}
	outputs chan bar.Output
	stop    chan struct{}
	events  chan bar.Event
}

// New creates a new module with the given testingT that can be used
// to assert the behaviour of the bar (or related modules).
func New(t require.TestingT) *TestModule {
	return &TestModule{
		require: require.New(t),
		started: make(chan struct{}, 10),
		events:  make(chan bar.Event, 100),
	}
}

// Stream conforms to bar.Module. It runs until Close is called, sending
// along any outputs queued using Output or OutputText.
func (t *TestModule) Stream(s bar.Sink) {
	t.mu.Lock()
	outs := make(chan bar.Output, 100)
	stop := make(chan struct{})
	t.outputs = outs
	t.stop = stop
	t.mu.Unlock()
	t.started <- struct{}{}
	for {
		select {
		case o := <-outs:
			s.Output(o)
		case <-stop:
			return
		}
	}
}

// Click conforms to bar.Clickable.
func (t *TestModule) Click(e bar.Event) {
	t.events <- e
}

// Output queues output to be sent on the next stream iteration.
func (t *TestModule) Output(out bar.Output) {
	t.mu.Lock()
	outs := t.outputs
	t.mu.Unlock()
	outs <- out
}

// OutputText queues simple text output.
func (t *TestModule) OutputText(text string) {
	t.Output(outputs.Text(text))
}

// Close stops the module's stream. The next click restarts it.
func (t *TestModule) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	close(t.stop)
}

// AssertStarted waits for the module to start streaming.
func (t *TestModule) AssertStarted(args ...interface{}) {
	select {
	case <-t.started:
	case <-time.After(time.Second):
		t.require.Fail("expected module to start", args...)
	}
}

// AssertClicked asserts that the module received a click event,
// and returns it. Calling this multiple times asserts multiple events.
func (t *TestModule) AssertClicked(args ...interface{}) bar.Event {
	select {
	case e := <-t.events:
		return e
	case <-time.After(time.Second):
		t.require.Fail("expected a click event", args...)
		return bar.Event{}
	}
}

// AssertNotClicked asserts that the module received no events.
func (t *TestModule) AssertNotClicked(args ...interface{}) {
	select {
	case <-t.events:
		t.require.Fail("expected no click event", args...)
	case <-time.After(10 * time.Millisecond):
	}
}
