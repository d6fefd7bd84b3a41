// Package query holds the recipe list the search screen renders, together
// with the in-flight bookkeeping that keeps it consistent under overlapping
// requests.
//
// Every fetch takes a ticket from a monotonic sequence before it starts;
// a response only lands if its ticket is still the newest one issued. Older
// responses arriving late are dropped, so the list always reflects the most
// recent request regardless of network ordering.
package query

import (
	"context"
	"strings"
	"sync"

	"github.com/benjaelizalde/recetario/internal/catalog"
	"github.com/benjaelizalde/recetario/internal/logging"
)

// Catalog is the slice of the catalog client the state fetches through.
type Catalog interface {
	Search(ctx context.Context, text string) ([]catalog.Recipe, error)
	Lookup(ctx context.Context, id string) (*catalog.Recipe, error)
	Filter(ctx context.Context, dim catalog.Dimension, value string) ([]catalog.Recipe, error)
	ListVocabulary(ctx context.Context, dim catalog.Dimension) ([]string, error)
}

// VocabularyCache is an optional read-through cache for the catalog's
// dimension value lists. A nil cache disables caching entirely.
type VocabularyCache interface {
	Vocabulary(dim catalog.Dimension) ([]string, bool, error)
	SaveVocabulary(dim catalog.Dimension, values []string) error
}

// State is the query-side model: the current recipe list, the current
// detail, and a loading flag that is true while any fetch is in flight.
type State struct {
	mu      sync.RWMutex
	catalog Catalog
	cache   VocabularyCache

	recipes []catalog.Recipe
	detail  *catalog.Recipe

	seq      uint64 // last ticket issued
	inflight int
}

// NewState creates an empty query state. cache may be nil.
func NewState(cat Catalog, cache VocabularyCache) *State {
	return &State{catalog: cat, cache: cache}
}

// Recipes returns the current result list.
func (s *State) Recipes() []catalog.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out
}

// Detail returns the most recently loaded recipe detail, or nil.
func (s *State) Detail() *catalog.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detail
}

// Loading reports whether any fetch is currently in flight.
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// begin issues a ticket and marks a fetch in flight.
func (s *State) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inflight++
	return s.seq
}

// end closes out a fetch. It always decrements the in-flight count; the
// results are committed only when the ticket is still the newest.
func (s *State) end(ticket uint64, recipes []catalog.Recipe, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if ticket != s.seq {
		logging.Debug("stale response dropped", "ticket", ticket, "current", s.seq)
		return false
	}
	if err != nil {
		s.recipes = nil
		return true
	}
	s.recipes = recipes
	return true
}

// Search fetches recipes by name and replaces the list. Blank input is a
// no-op that leaves the current list intact. On error the list is emptied.
func (s *State) Search(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	ticket := s.begin()
	recipes, err := s.catalog.Search(ctx, text)
	s.end(ticket, recipes, err)
	return err
}

// SearchAll fetches the unfiltered listing (the catalog's blank search).
func (s *State) SearchAll(ctx context.Context) error {
	ticket := s.begin()
	recipes, err := s.catalog.Search(ctx, "")
	s.end(ticket, recipes, err)
	return err
}

// FilterBy fetches recipes matching a single dimension value and replaces
// the list.
func (s *State) FilterBy(ctx context.Context, dim catalog.Dimension, value string) error {
	ticket := s.begin()
	recipes, err := s.catalog.Filter(ctx, dim, value)
	s.end(ticket, recipes, err)
	return err
}

// FetchDetail loads a single recipe by ID. Detail fetches do not take a
// list ticket: a detail landing late never clobbers the list.
func (s *State) FetchDetail(ctx context.Context, id string) error {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	recipe, err := s.catalog.Lookup(ctx, id)

	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.detail = nil
	} else {
		s.detail = recipe
	}
	s.mu.Unlock()
	return err
}

// ClearDetail drops the loaded detail.
func (s *State) ClearDetail() {
	s.mu.Lock()
	s.detail = nil
	s.mu.Unlock()
}

// Vocabulary returns the value list for a dimension, reading through the
// cache when one is configured. Cache failures fall back to the network.
func (s *State) Vocabulary(ctx context.Context, dim catalog.Dimension) ([]string, error) {
	if s.cache != nil {
		values, ok, err := s.cache.Vocabulary(dim)
		if err != nil {
			logging.Warn("vocabulary cache read failed", "dimension", dim, "err", err)
		} else if ok {
			return values, nil
		}
	}

	values, err := s.catalog.ListVocabulary(ctx, dim)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SaveVocabulary(dim, values); err != nil {
			logging.Warn("vocabulary cache write failed", "dimension", dim, "err", err)
		}
	}
	return values, nil
}
