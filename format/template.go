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

/*
Package format provides a small format template mini-language for
user-configurable module output.

A template is a string with named placeholders in braces, e.g.

    "{artist} - {title} [{playback_info}]"

Templates are parsed once, and rendered from a name -> value map.
Placeholders without a value in the map are emitted verbatim, so that a
typo in a format string shows up on the bar instead of silently
vanishing.
*/
package format // import "mpdbar.run/format"

import (
	"fmt"
	"strings"
)

// chunk is a parsed piece of a template: either a literal run of text,
// or the name of a placeholder.
type chunk struct {
	text        string
	placeholder bool
}

// Template is a parsed format template. Rendering a parsed template
// cannot fail; all errors are structural and caught by New.
type Template struct {
	chunks []chunk
}

// New parses a format template. It returns an error if a placeholder is
// left unterminated, or if a placeholder name contains characters other
// than letters, digits, and underscores.
func New(s string) (*Template, error) {
	t := &Template{}
	literal := strings.Builder{}
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			literal.WriteByte(s[i])
			continue
		}
		end := strings.IndexByte(s[i:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated placeholder at index %d", i)
		}
		name := s[i+1 : i+end]
		if !validName(name) {
			return nil, fmt.Errorf("invalid placeholder name %q", name)
		}
		if literal.Len() > 0 {
			t.chunks = append(t.chunks, chunk{text: literal.String()})
			literal.Reset()
		}
		t.chunks = append(t.chunks, chunk{text: name, placeholder: true})
		i += end
	}
	if literal.Len() > 0 {
		t.chunks = append(t.chunks, chunk{text: literal.String()})
	}
	return t, nil
}

// Render substitutes the given values into the template. Placeholders
// not present in the values map pass through unchanged, e.g. rendering
// "{title} #{nonexistent}" with {"title": "Foo"} yields
// "Foo #{nonexistent}".
func (t *Template) Render(values map[string]string) string {
	out := strings.Builder{}
	for _, c := range t.chunks {
		if !c.placeholder {
			out.WriteString(c.text)
			continue
		}
		if val, ok := values[c.text]; ok {
			out.WriteString(val)
		} else {
			out.WriteString("{" + c.text + "}")
		}
	}
	return out.String()
}

// Placeholders returns the names of all placeholders in the template,
// in order of appearance.
func (t *Template) Placeholders() []string {
	var names []string
	for _, c := range t.chunks {
		if c.placeholder {
			names = append(names, c.text)
		}
	}
	return names
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		switch {
		case b >= 'a' && b <= 'z':
		case b >= 'A' && b <= 'Z':
		case b >= '0' && b <= '9':
		case b == '_':
		default:
			return false
		}
	}
	return true
}
