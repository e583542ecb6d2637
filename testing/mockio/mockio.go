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

// Package mockio provides infinite streams that stand in for stdin and
// stdout when testing the bar runner.
package mockio

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// Writable collects everything written to it and provides methods to
// consume the output incrementally, like a testable stdout.
type Writable struct {
	mu      sync.Mutex
	buffer  bytes.Buffer
	written chan struct{}
	nextErr error
}

// Stdout returns an empty Writable.
func Stdout() *Writable {
	return &Writable{written: make(chan struct{}, 1)}
}

// Write satisfies the io.Writer interface.
func (w *Writable) Write(out []byte) (int, error) {
	w.mu.Lock()
	if err := w.nextErr; err != nil {
		w.nextErr = nil
		w.mu.Unlock()
		return 0, err
	}
	n, err := w.buffer.Write(out)
	w.mu.Unlock()
	select {
	case w.written <- struct{}{}:
	default:
	}
	return n, err
}

// ReadNow clears the buffer and returns its previous contents.
func (w *Writable) ReadNow() string {
	w.mu.Lock()
	val := w.buffer.String()
	w.buffer.Reset()
	w.mu.Unlock()
	drain(w.written)
	return val
}

// ReadUntil reads up to the first occurrence of the given character,
// or until the timeout expires, whichever comes first.
func (w *Writable) ReadUntil(delim byte, timeout time.Duration) (string, error) {
	w.mu.Lock()
	val, err := w.buffer.ReadString(delim)
	w.mu.Unlock()
	if err == nil {
		drain(w.written)
		return val, nil
	}
	deadline := time.After(timeout)
	// EOF just means the delimiter hasn't been written yet.
	for err == io.EOF {
		select {
		case <-deadline:
			return val, err
		case <-w.written:
			var more string
			w.mu.Lock()
			more, err = w.buffer.ReadString(delim)
			w.mu.Unlock()
			val += more
		}
	}
	return val, err
}

// WaitForWrite waits until the timeout for a write to this stream.
func (w *Writable) WaitForWrite(timeout time.Duration) bool {
	w.mu.Lock()
	pending := w.buffer.Len() != 0
	w.mu.Unlock()
	if pending {
		drain(w.written)
		return true
	}
	select {
	case <-time.After(timeout):
		return false
	case <-w.written:
		return true
	}
}

// ShouldError sets the stream to return an error on the next write.
func (w *Writable) ShouldError(err error) {
	w.mu.Lock()
	w.nextErr = err
	w.mu.Unlock()
}

var _ io.Writer = (*Writable)(nil)

// Readable blocks reads until something is written to it, mimicking an
// interactive stdin.
type Readable struct {
	mu        sync.Mutex
	buffer    bytes.Buffer
	available chan struct{}
	consumed  chan struct{}
	nextErr   error
}

// Stdin returns an empty Readable.
func Stdin() *Readable {
	return &Readable{
		available: make(chan struct{}),
		consumed:  make(chan struct{}),
	}
}

// Read satisfies the io.Reader interface.
func (r *Readable) Read(out []byte) (int, error) {
	r.mu.Lock()
	if err := r.nextErr; err != nil {
		r.nextErr = nil
		r.mu.Unlock()
		return 0, err
	}
	waited := r.buffer.Len() == 0
	if waited {
		r.mu.Unlock()
		<-r.available
		r.mu.Lock()
		if err := r.nextErr; err != nil {
			r.nextErr = nil
			r.mu.Unlock()
			r.consumed <- struct{}{}
			return 0, err
		}
	}
	n, err := r.buffer.Read(out)
	r.mu.Unlock()
	if waited {
		// A waited read was woken by signalWrite, which is now
		// blocked on consumed.
		r.consumed <- struct{}{}
	}
	if err == io.EOF {
		err = nil
	}
	return n, err
}

// WriteString appends to the stream, unblocking any pending read.
func (r *Readable) WriteString(s string) (int, error) {
	r.mu.Lock()
	n, err := r.buffer.WriteString(s)
	r.mu.Unlock()
	r.signalWrite()
	return n, err
}

// ShouldError sets the stream to return an error on the next read.
func (r *Readable) ShouldError(err error) {
	r.mu.Lock()
	r.nextErr = err
	r.mu.Unlock()
	r.signalWrite()
}

// signalWrite wakes a blocked read, and waits for it to consume.
func (r *Readable) signalWrite() {
	select {
	case r.available <- struct{}{}:
		<-r.consumed
	default:
	}
}

var _ io.Reader = (*Readable)(nil)

func drain(ch <-chan struct{}) {
	select {
	case <-ch:
	default:
	}
}
