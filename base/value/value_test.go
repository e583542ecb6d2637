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

package value

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func assertClosed(t *testing.T, ch <-chan struct{}, args ...interface{}) {
	select {
	case <-ch:
	case <-time.After(time.Second):
		require.Fail(t, "expected update", args...)
	}
}

func assertOpen(t *testing.T, ch <-chan struct{}, args ...interface{}) {
	select {
	case <-ch:
		require.Fail(t, "unexpected update", args...)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestValue(t *testing.T) {
	var v Value
	require.Nil(t, v.Get(), "empty value returns nil")

	v.Set("foo")
	require.Equal(t, "foo", v.Get())
	v.Set("baz")
	require.Equal(t, "baz", v.Get())
}

func TestValueUpdate(t *testing.T) {
	var v Value
	ch := v.Next()
	assertOpen(t, ch, "no update yet")
	v.Set(1)
	assertClosed(t, ch, "closed on update")
	assertOpen(t, v.Next(), "next channel is fresh")
}

func TestValueSubscription(t *testing.T) {
	var v Value
	sub, done := v.Subscribe()
	defer done()
	v.Set("a")
	assertClosed(t, sub)
	v.Set("b")
	assertClosed(t, sub, "notified on each set")
}

func TestErrorValue(t *testing.T) {
	var e ErrorValue
	val, err := e.Get()
	require.Nil(t, val, "empty value returns nil")
	require.NoError(t, err, "empty value returns no error")

	e.Set("string value")
	val, err = e.Get()
	require.Equal(t, "string value", val)
	require.NoError(t, err)

	require.False(t, e.Error(nil), "Error(nil) does not clear value")
	val, err = e.Get()
	require.Equal(t, "string value", val)
	require.NoError(t, err)

	require.True(t, e.Error(errors.New("some error")))
	val, err = e.Get()
	require.Nil(t, val, "error clears value")
	require.Error(t, err)
}

func TestErrorValueSetOrError(t *testing.T) {
	var e ErrorValue
	require.False(t, e.SetOrError("value", nil))
	val, err := e.Get()
	require.Equal(t, "value", val)
	require.NoError(t, err)

	require.True(t, e.SetOrError("ignored", errors.New("failure")))
	val, err = e.Get()
	require.Nil(t, val)
	require.Error(t, err)
}

func TestErrorValueUpdate(t *testing.T) {
	var e ErrorValue
	ch := e.Next()
	e.Set("value")
	assertClosed(t, ch, "closed on set")

	ch = e.Next()
	e.Error(errors.New("failure"))
	assertClosed(t, ch, "closed on error")
}
