// Package page holds the named content regions filled while rendering one page.
package page

import (
	"slices"
	"strings"
)

const (
	// Toolbar receives the composed toolbar body.
	Toolbar = "toolbar"

	// JavaScript receives script statements run once the page is loaded.
	JavaScript = "javascript"
)

// Regions is the registry of named content regions of a single page render.
// It is not safe for concurrent use; each request gets its own.
type Regions struct {
	content map[string][]string
	order   []string
}

// NewRegions returns an empty registry.
func NewRegions() *Regions {
	return &Regions{content: map[string][]string{}}
}

// Append adds content to the named region. Registrations are additive:
// repeated calls for the same region are kept and joined in call order.
func (r *Regions) Append(name, content string) {
	if _, ok := r.content[name]; !ok {
		r.order = append(r.order, name)
	}
	r.content[name] = append(r.content[name], content)
}

// Content returns everything registered for the named region, newline separated.
func (r *Regions) Content(name string) string {
	return strings.Join(r.content[name], "\n")
}

// Has reports whether anything was registered for the named region.
func (r *Regions) Has(name string) bool {
	return len(r.content[name]) > 0
}

// Names returns the registered region names in first-registration order.
func (r *Regions) Names() []string {
	return slices.Clone(r.order)
}
