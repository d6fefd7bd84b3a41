// Package filter implements the single-active-filter state machine behind
// the search screen's filter sheet: three dimensions (category, area,
// ingredient), each with a text input and a suggestion list, of which at
// most one is ever open and at most one holds a selection.
//
// The Core is owned by the UI model and mutated only from the render loop,
// so it carries no locking.
package filter

import (
	"context"
	"strings"

	"github.com/benjaelizalde/recetario/internal/catalog"
)

// maxSuggestions caps each suggestion list; typing narrows it further.
const maxSuggestions = 20

// Vocabulary holds the selectable values per dimension.
type Vocabulary struct {
	Categories  []string
	Areas       []string
	Ingredients []string
}

// Ops is what applying or clearing a filter does to the outside world.
// ClearQuery resets the free-text search box; the filter ops and Unfiltered
// replace the visible recipe list.
type Ops interface {
	FilterByCategory(ctx context.Context, value string) error
	FilterByArea(ctx context.Context, value string) error
	FilterByIngredient(ctx context.Context, value string) error
	ClearQuery()
	Unfiltered(ctx context.Context) error
}

// Core is the filter sheet's state.
type Core struct {
	vocab Vocabulary

	text      map[catalog.Dimension]string
	selection map[catalog.Dimension]string
	openInput catalog.Dimension // "" when no list is open
}

// NewCore creates a core with empty inputs and no selection.
func NewCore() *Core {
	return &Core{
		text:      make(map[catalog.Dimension]string),
		selection: make(map[catalog.Dimension]string),
	}
}

// SetVocabulary replaces the suggestion sources.
func (c *Core) SetVocabulary(v Vocabulary) { c.vocab = v }

// Vocabulary returns the current suggestion sources.
func (c *Core) Vocabulary() Vocabulary { return c.vocab }

// SetOpenInput opens the suggestion list for one dimension, closing any
// other. An empty dimension closes all lists.
func (c *Core) SetOpenInput(dim catalog.Dimension) { c.openInput = dim }

// OpenInput returns the dimension whose list is open, or "".
func (c *Core) OpenInput() catalog.Dimension { return c.openInput }

// SetText records the typed text for a dimension and opens its list. Typing
// clears the other two dimensions entirely, and the typed text itself
// becomes this dimension's pending selection, so a fully typed value is
// applicable without picking it from the list.
func (c *Core) SetText(dim catalog.Dimension, text string) {
	for d := range c.selection {
		delete(c.selection, d)
	}
	for d := range c.text {
		if d != dim {
			delete(c.text, d)
		}
	}
	c.text[dim] = text
	if v := strings.TrimSpace(text); v != "" {
		c.selection[dim] = v
	}
	c.openInput = dim
}

// Text returns the typed text for a dimension.
func (c *Core) Text(dim catalog.Dimension) string { return c.text[dim] }

// SetSelection picks a value for one dimension: the other two dimensions
// lose both selection and text, the picked value fills the input, and the
// open list closes.
func (c *Core) SetSelection(dim catalog.Dimension, value string) {
	for d := range c.selection {
		delete(c.selection, d)
	}
	for d := range c.text {
		if d != dim {
			delete(c.text, d)
		}
	}
	c.selection[dim] = value
	c.text[dim] = value
	c.openInput = ""
}

// Selection returns the selected value for a dimension, or "".
func (c *Core) Selection(dim catalog.Dimension) string { return c.selection[dim] }

// ActiveSelection returns the dimension and value that would be applied,
// checking category first, then area, then ingredient. ok is false when
// nothing is selected.
func (c *Core) ActiveSelection() (dim catalog.Dimension, value string, ok bool) {
	for _, d := range []catalog.Dimension{catalog.DimCategory, catalog.DimArea, catalog.DimIngredient} {
		if v := c.selection[d]; v != "" {
			return d, v, true
		}
	}
	return "", "", false
}

// HasSelection reports whether any dimension holds a selection.
func (c *Core) HasSelection() bool {
	_, _, ok := c.ActiveSelection()
	return ok
}

// Suggestions returns the vocabulary values matching the dimension's typed
// text, case-insensitively, in source order, capped at maxSuggestions.
// Blank text matches everything.
func (c *Core) Suggestions(dim catalog.Dimension) []string {
	var source []string
	switch dim {
	case catalog.DimCategory:
		source = c.vocab.Categories
	case catalog.DimArea:
		source = c.vocab.Areas
	case catalog.DimIngredient:
		source = c.vocab.Ingredients
	}

	needle := strings.ToLower(strings.TrimSpace(c.text[dim]))
	var out []string
	for _, v := range source {
		if needle != "" && !strings.Contains(strings.ToLower(v), needle) {
			continue
		}
		out = append(out, v)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// Apply closes the lists, resets the free-text query and runs the one
// active filter against ops. With nothing selected it only closes the
// lists and touches nothing else.
func (c *Core) Apply(ctx context.Context, ops Ops) error {
	c.openInput = ""
	dim, value, ok := c.ActiveSelection()
	if !ok {
		return nil
	}
	ops.ClearQuery()
	switch dim {
	case catalog.DimCategory:
		return ops.FilterByCategory(ctx, value)
	case catalog.DimArea:
		return ops.FilterByArea(ctx, value)
	default:
		return ops.FilterByIngredient(ctx, value)
	}
}

// Clear resets every input and selection, closes the lists and restores
// the unfiltered listing.
func (c *Core) Clear(ctx context.Context, ops Ops) error {
	c.reset()
	return ops.Unfiltered(ctx)
}

// QueryChanged reconciles the sheet with the free-text search box: typing a
// non-empty query drops any selection, so the query and a filter are never
// active together.
func (c *Core) QueryChanged(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c.reset()
}

func (c *Core) reset() {
	for d := range c.selection {
		delete(c.selection, d)
	}
	for d := range c.text {
		delete(c.text, d)
	}
	c.openInput = ""
}
