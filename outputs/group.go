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

package outputs

import (
	"image/color"

	"mpdbar.run/bar"
)

// SegmentGroup represents a group of Segments to be displayed together
// on the bar.
type SegmentGroup struct {
	outputs []bar.Output
	// To support addition of segments after construction, store
	// attributes on the group, and apply them in Segments().
	attrSet      int
	clickHandler func(bar.Event)
	color        color.Color
	background   color.Color
	border       color.Color
	urgent       bool
}

const (
	sgaUrgent int = 1 << iota
)

// Group concatenates several outputs into a single SegmentGroup,
// to facilitate easier manipulation of output properties.
func Group(outputs ...bar.Output) *SegmentGroup {
	grp := &SegmentGroup{}
	for _, o := range outputs {
		grp.Append(o)
	}
	return grp
}

// OnClick sets the default click handler for the group. Any segments
// that don't already have a click handler will delegate to this one.
func (g *SegmentGroup) OnClick(f func(bar.Event)) *SegmentGroup {
	g.clickHandler = f
	return g
}

// Color sets the color for all segments in the group.
func (g *SegmentGroup) Color(color color.Color) *SegmentGroup {
	g.color = color
	return g
}

// Background sets the background color for all segments in the group.
func (g *SegmentGroup) Background(background color.Color) *SegmentGroup {
	g.background = background
	return g
}

// Border sets the border color for all segments in the group.
func (g *SegmentGroup) Border(border color.Color) *SegmentGroup {
	g.border = border
	return g
}

// Urgent sets the urgency flag for all segments in the group.
func (g *SegmentGroup) Urgent(urgent bool) *SegmentGroup {
	g.attrSet |= sgaUrgent
	g.urgent = urgent
	return g
}

// Append adds an additional output to this group.
func (g *SegmentGroup) Append(output bar.Output) *SegmentGroup {
	if output == nil {
		return g
	}
	g.outputs = append(g.outputs, output)
	return g
}

// isSet returns true if an attribute was set, discarding its value.
func isSet(_ interface{}, isSet bool) bool {
	return isSet
}

// Segments implements bar.Output for SegmentGroup.
// This method is responsible for computing all attributes so that
// all segments, even those added after attributes were set on the group,
// correctly reflect those attributes in the final output.
func (g *SegmentGroup) Segments() []*bar.Segment {
	var segments []*bar.Segment
	for _, o := range g.outputs {
		for _, s := range o.Segments() {
			segments = append(segments, s.Clone())
		}
	}
	for _, s := range segments {
		if !isSet(s.GetColor()) && g.color != nil {
			s.Color(g.color)
		}
		if !isSet(s.GetBackground()) && g.background != nil {
			s.Background(g.background)
		}
		if !isSet(s.GetBorder()) && g.border != nil {
			s.Border(g.border)
		}
		if !isSet(s.IsUrgent()) && g.attrSet&sgaUrgent != 0 {
			s.Urgent(g.urgent)
		}
		if !s.HasClick() && g.clickHandler != nil {
			s.OnClick(g.clickHandler)
		}
	}
	return segments
}
