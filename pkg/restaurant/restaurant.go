// Package restaurant describes the lunch restaurants lounas knows how to read.
// A Descriptor is static configuration: where the menu page lives, which page
// shape it has, and what to show next to the menu.
package restaurant

import (
	"strings"
)

// Kind is the declared structural shape of a restaurant's menu page.
type Kind string

const (
	KindTable            Kind = "table"
	KindGroupedList      Kind = "grouped-list"
	KindSiblingWalk      Kind = "sibling-walk"
	KindParagraphCapture Kind = "paragraph-capture"
	KindUnknown          Kind = "unknown"
)

// kindAliases maps every accepted spelling onto a canonical Kind.
// The short names are the ones older restaurant files use.
var kindAliases = map[string]Kind{
	"table":             KindTable,
	"list":              KindGroupedList,
	"grouped-list":      KindGroupedList,
	"grouped_list":      KindGroupedList,
	"div_snippet":       KindSiblingWalk,
	"sibling-walk":      KindSiblingWalk,
	"sibling_walk":      KindSiblingWalk,
	"simple_p":          KindParagraphCapture,
	"paragraph-capture": KindParagraphCapture,
	"paragraph_capture": KindParagraphCapture,
}

// ParseKind resolves a declared kind. Unrecognised values yield KindUnknown
// and ok=false so callers can report the raw value.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return KindUnknown, false
	}
	return k, true
}

// Known reports whether k names one of the four extraction strategies.
func (k Kind) Known() bool {
	switch k {
	case KindTable, KindGroupedList, KindSiblingWalk, KindParagraphCapture:
		return true
	}
	return false
}

// Render is a hint to the fetch layer about how the page must be loaded.
type Render string

const (
	RenderStatic  Render = "static"
	RenderDynamic Render = "dynamic"
)

// Price is one labelled price line. Prices are kept as an ordered list
// because the display order is part of the configuration.
type Price struct {
	Label string `json:"label" yaml:"label" validate:"required"`
	Price string `json:"price" yaml:"price"`
}

// Selectors override the CSS selectors a strategy uses to find its nodes.
// Empty fields fall back to the strategy defaults.
type Selectors struct {
	Table   string `json:"table,omitempty" yaml:"table,omitempty"`     // table strategy: the menu table
	Row     string `json:"row,omitempty" yaml:"row,omitempty"`         // table strategy: rows within it
	Group   string `json:"group,omitempty" yaml:"group,omitempty"`     // grouped-list: one node per day
	Heading string `json:"heading,omitempty" yaml:"heading,omitempty"` // grouped-list: heading inside a group
	Item    string `json:"item,omitempty" yaml:"item,omitempty"`       // content nodes
	Anchor  string `json:"anchor,omitempty" yaml:"anchor,omitempty"`   // sibling-walk: day heading candidates
}

// Descriptor is the static configuration of one restaurant.
type Descriptor struct {
	Name        string    `json:"name" yaml:"name" validate:"required"`
	URL         string    `json:"url" yaml:"url" validate:"required,url"`
	Type        string    `json:"type" yaml:"type" validate:"required"`
	Hours       string    `json:"hours,omitempty" yaml:"hours,omitempty"`
	Prices      []Price   `json:"prices,omitempty" yaml:"prices,omitempty" validate:"dive"`
	Render      Render    `json:"render,omitempty" yaml:"render,omitempty" validate:"omitempty,oneof=static dynamic"`
	StopMarkers []string  `json:"stop_markers,omitempty" yaml:"stop_markers,omitempty" validate:"dive,required"`
	Scope       string    `json:"scope,omitempty" yaml:"scope,omitempty"`
	Selectors   Selectors `json:"selectors,omitempty" yaml:"selectors,omitempty"`

	// Fetch hints. WaitFor is the selector a browser waits for before
	// reading a dynamic page; Headers are sent with every request.
	WaitFor string            `json:"wait_for,omitempty" yaml:"wait_for,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Kind returns the canonical structural kind declared by the descriptor.
func (d Descriptor) Kind() Kind {
	k, _ := ParseKind(d.Type)
	return k
}

// Matches reports whether id occurs, case-insensitively, in the descriptor's
// URL or name. Site overrides are keyed this way.
func (d Descriptor) Matches(id string) bool {
	id = strings.ToLower(id)
	if id == "" {
		return false
	}
	return strings.Contains(strings.ToLower(d.URL), id) ||
		strings.Contains(strings.ToLower(d.Name), id)
}
