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

package sink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mpdbar.run/bar"
	"mpdbar.run/outputs"
)

func TestSink(t *testing.T) {
	ch, sink := New()
	go sink(outputs.Text("foo"))
	select {
	case out := <-ch:
		require.Equal(t, "foo", out[0].Text())
	case <-time.After(time.Second):
		require.Fail(t, "expected an output")
	}

	go sink(nil)
	select {
	case out := <-ch:
		require.Nil(t, out, "nil output passes through as nil segments")
	case <-time.After(time.Second):
		require.Fail(t, "expected an output")
	}
}

func TestBuffered(t *testing.T) {
	ch, sink := Buffered(5)
	for i := 0; i < 5; i++ {
		sink(outputs.Textf("%d", i))
	}
	require.Equal(t, 5, len(ch), "buffered sink does not block")
	require.Equal(t, "0", (<-ch)[0].Text())
}

func TestNullSink(t *testing.T) {
	sink := Null()
	for i := 0; i < 10; i++ {
		sink(outputs.Text("discarded"))
	}
}

func TestValueSink(t *testing.T) {
	val, sink := Value()
	require.Equal(t, bar.Segments(nil), val.Get(), "initially empty")
	sub, done := val.Subscribe()
	defer done()
	sink(outputs.Text("foo"))
	select {
	case <-sub:
	case <-time.After(time.Second):
		require.Fail(t, "expected value update")
	}
	out := val.Get().(bar.Segments)
	require.Equal(t, "foo", out[0].Text())
}
