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

package mpdbar

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"mpdbar.run/bar"
	"mpdbar.run/outputs"
	"mpdbar.run/testing/mockio"
	testModule "mpdbar.run/testing/module"
)

func TestHeader(t *testing.T) {
	mockStdin := mockio.Stdin()
	mockStdout := mockio.Stdout()
	TestMode(mockStdin, mockStdout)
	require.Empty(t, mockStdout.ReadNow(), "nothing written before Run")
	go Run()

	out, err := mockStdout.ReadUntil('}', time.Second)
	require.NoError(t, err, "header was written")

	header := make(map[string]interface{})
	require.NoError(t, json.Unmarshal([]byte(out), &header),
		"header is valid json")
	// JSON deserialises all numbers as float64.
	require.Equal(t, 1, int(header["version"].(float64)))
	require.True(t, header["click_events"].(bool))
	require.Equal(t, int(unix.SIGUSR1), int(header["stop_signal"].(float64)))
	require.Equal(t, int(unix.SIGUSR2), int(header["cont_signal"].(float64)))
}

func readOutput(t *testing.T, stdout *mockio.Writable) []map[string]interface{} {
	var jsonOutputs []map[string]interface{}
	out, err := stdout.ReadUntil(']', time.Second)
	require.NoError(t, err, "no error while reading output")
	require.NoError(t, json.Unmarshal([]byte(out), &jsonOutputs),
		"output is valid json")
	_, err = stdout.ReadUntil(',', time.Second)
	require.NoError(t, err, "outputs a comma after full bar")
	_, err = stdout.ReadUntil('\n', time.Second)
	require.NoError(t, err, "outputs a newline after full bar")
	return jsonOutputs
}

func readOutputTexts(t *testing.T, stdout *mockio.Writable) []string {
	jsonOutputs := readOutput(t, stdout)
	texts := make([]string, len(jsonOutputs))
	for idx, jsonOutput := range jsonOutputs {
		texts[idx] = jsonOutput["full_text"].(string)
	}
	return texts
}

func TestSingleModule(t *testing.T) {
	mockStdin := mockio.Stdin()
	mockStdout := mockio.Stdout()
	TestMode(mockStdin, mockStdout)

	module := testModule.New(t)
	Add(module)
	go Run()

	_, err := mockStdout.ReadUntil('[', time.Second)
	require.NoError(t, err, "output array started")

	_, err = mockStdout.ReadUntil(']', 10*time.Millisecond)
	require.Error(t, err, "no output until module updates")

	module.AssertStarted()
	module.OutputText("test")
	require.Equal(t, []string{"test"}, readOutputTexts(t, mockStdout),
		"output contains an element for the module")

	module.OutputText("other")
	require.Equal(t, []string{"other"}, readOutputTexts(t, mockStdout),
		"output updates when the module sends an update")

	require.Panics(t, func() { Add(testModule.New(t)) },
		"adding a module to a running bar")
}

func TestClickRouting(t *testing.T) {
	mockStdin := mockio.Stdin()
	mockStdout := mockio.Stdout()
	TestMode(mockStdin, mockStdout)

	module := testModule.New(t)
	go Run(module)

	_, err := mockStdout.ReadUntil('[', time.Second)
	require.NoError(t, err)
	module.AssertStarted()
	module.Output(outputs.Text("widget").Identifier("segment-id"))
	out := readOutput(t, mockStdout)
	require.Equal(t, "m/0", out[0]["name"])
	require.Equal(t, "segment-id", out[0]["instance"])

	mockStdin.WriteString("[")
	mockStdin.WriteString(
		`{"name":"m/0","instance":"segment-id","button":3},`)
	e := module.AssertClicked("click routed to module")
	require.Equal(t, bar.ButtonRight, e.Button)
	require.Equal(t, "segment-id", e.SegmentID,
		"segment identifier passed through")

	mockStdin.WriteString(`{"name":"m/4","button":1},`)
	module.AssertNotClicked("click for unknown module")
	mockStdin.WriteString(`{"name":"mystery","button":1},`)
	module.AssertNotClicked("click with malformed name")
}

func TestErrorSegments(t *testing.T) {
	mockStdin := mockio.Stdin()
	mockStdout := mockio.Stdout()
	TestMode(mockStdin, mockStdout)

	errCh := make(chan bar.ErrorEvent, 1)
	SetErrorHandler(func(e bar.ErrorEvent) { errCh <- e })

	module := testModule.New(t)
	go Run(module)

	_, err := mockStdout.ReadUntil('[', time.Second)
	require.NoError(t, err)
	module.AssertStarted()
	module.Output(outputs.Group(
		outputs.Text("ok"),
		outputs.Error(errors.New("mixer failure")),
	))
	out := readOutput(t, mockStdout)
	require.Equal(t, 2, len(out))
	require.Equal(t, "m/0", out[0]["name"])
	require.Equal(t, "e/0/0", out[1]["name"], "error segments get error ids")
	require.Equal(t, "mixer failure", out[1]["error"],
		"error text included in test mode")

	mockStdin.WriteString("[")
	mockStdin.WriteString(fmt.Sprintf(
		`{"name":"%s","button":3},`, out[1]["name"]))
	select {
	case e := <-errCh:
		require.Equal(t, "mixer failure", e.Error.Error())
	case <-time.After(time.Second):
		require.Fail(t, "right-click on error segment shows the error")
	}
	module.AssertNotClicked("right-click on error segment intercepted")
}

func TestStdinClosed(t *testing.T) {
	mockStdin := mockio.Stdin()
	mockStdout := mockio.Stdout()
	TestMode(mockStdin, mockStdout)

	module := testModule.New(t)
	runErr := make(chan error, 1)
	go func() { runErr <- Run(module) }()

	_, err := mockStdout.ReadUntil('[', time.Second)
	require.NoError(t, err)
	module.AssertStarted()

	mockStdin.ShouldError(errors.New("stdin broke"))
	select {
	case err := <-runErr:
		require.Error(t, err, "Run returns when stdin fails")
	case <-time.After(time.Second):
		require.Fail(t, "expected Run to return")
	}
}
