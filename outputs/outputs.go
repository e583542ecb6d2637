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

// Package outputs provides helper functions to construct bar.Outputs.
package outputs // import "mpdbar.run/outputs"

import (
	"fmt"

	"mpdbar.run/bar"
)

// Empty constructs an empty output, which will hide a module from the bar.
func Empty() bar.Output {
	return bar.Segments{}
}

// Errorf constructs a bar output that indicates an error,
// using the given format and arguments.
func Errorf(format string, args ...interface{}) bar.Output {
	return Error(fmt.Errorf(format, args...))
}

// Error constructs a bar output that indicates an error.
func Error(e error) bar.Output {
	return bar.ErrorSegment(e)
}

// Textf constructs simple text output from a format string and arguments.
func Textf(format string, args ...interface{}) *bar.Segment {
	return Text(fmt.Sprintf(format, args...))
}

// Text constructs a simple text output from the given string.
func Text(text string) *bar.Segment {
	return bar.TextSegment(text)
}
