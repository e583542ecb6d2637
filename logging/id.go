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

//go:build mpdbardebuglog
// +build mpdbardebuglog

package logging

import (
	"fmt"
	"reflect"
	"sync"
)

// ident stores a type+address combination that uniquely identifies an
// object. In go, the address of the first element of a struct is the same
// as that of the struct itself, so the address alone is not sufficient, it
// must be accompanied with type information.
type ident struct {
	typeName string
	address  uintptr
}

// zero returns true if either the type or the address is unknown,
// which means this ident cannot meaningfully identify anything.
func (i ident) zero() bool {
	return i.address == 0 || i.typeName == ""
}

var (
	mu sync.Mutex
	// instance index per type, so each instance gets type#0, type#1, ...
	counters = map[string]int{}
	// resolved names (type#index, possibly with labels/attachments).
	names = map[ident]string{}
	// extra labels, stored separately so later Label calls update the name.
	labels = map[ident]string{}
)

// identify builds an ident for the given thing, using reflection to
// support pointers, channels, and maps.
func identify(thing interface{}) ident {
	if thing == nil {
		return ident{}
	}
	val := reflect.ValueOf(thing)
	typ := val.Type()
	switch typ.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Map, reflect.UnsafePointer, reflect.Func:
		return ident{shorten(typ.String()), val.Pointer()}
	}
	return ident{}
}

func nameLocked(id ident) string {
	if id.zero() {
		return "?"
	}
	if name, ok := names[id]; ok {
		return name
	}
	idx := counters[id.typeName]
	counters[id.typeName] = idx + 1
	name := fmt.Sprintf("%s#%d", id.typeName, idx)
	names[id] = name
	return name
}

// ID returns a unique name for the given value of the form 'type'#'index'
// for addressable types. This provides log statements with additional
// context and separates logs from multiple instances of the same type.
func ID(thing interface{}) string {
	mu.Lock()
	defer mu.Unlock()
	id := identify(thing)
	name := nameLocked(id)
	if label, ok := labels[id]; ok {
		return fmt.Sprintf("%s<%s>", name, label)
	}
	return name
}

// Label adds an additional label to thing, incorporated as part of its
// identifier, to provide more useful information than just #0, #1, ...
func Label(thing interface{}, label string) {
	mu.Lock()
	defer mu.Unlock()
	id := identify(thing)
	if id.zero() {
		return
	}
	labels[id] = label
}

// Labelf is Label with built-in formatting.
func Labelf(thing interface{}, format string, args ...interface{}) {
	Label(thing, fmt.Sprintf(format, args...))
}

// Attach attaches an object as a named member of a different object,
// making the child object log as parent.name instead of its own ID.
func Attach(parent, child interface{}, name string) {
	mu.Lock()
	defer mu.Unlock()
	parentID := identify(parent)
	childID := identify(child)
	if parentID.zero() || childID.zero() {
		return
	}
	names[childID] = nameLocked(parentID) + name
}

// Attachf is Attach with built-in formatting.
func Attachf(parent, child interface{}, format string, args ...interface{}) {
	Attach(parent, child, fmt.Sprintf(format, args...))
}

// Register attaches the given fields of a given *struct as '.' + name.
// This is just a shortcut for Attach(&thing, &thing.field, ".field")...
// for a set of fields.
func Register(thing interface{}, fields ...string) {
	val := reflect.ValueOf(thing)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return
	}
	elem := val.Elem()
	for _, field := range fields {
		f := elem.FieldByName(field)
		if !f.IsValid() || !f.CanAddr() {
			continue
		}
		Attach(thing, f.Addr().Interface(), "."+field)
	}
}
