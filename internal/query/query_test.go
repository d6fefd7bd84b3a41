package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/benjaelizalde/recetario/internal/catalog"
)

// fakeCatalog returns canned results and can block a request until released,
// which lets tests interleave overlapping fetches deterministically.
type fakeCatalog struct {
	mu      sync.Mutex
	results map[string][]catalog.Recipe
	err     error
	block   map[string]chan struct{}
	entered map[string]chan struct{}
	vocab   []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		results: make(map[string][]catalog.Recipe),
		block:   make(map[string]chan struct{}),
		entered: make(map[string]chan struct{}),
	}
}

// hold makes the next Search for text block until the returned release
// channel is closed; entered is closed once the request is inside.
func (f *fakeCatalog) hold(text string) (release, entered chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	release = make(chan struct{})
	entered = make(chan struct{})
	f.block[text] = release
	f.entered[text] = entered
	return release, entered
}

func (f *fakeCatalog) Search(ctx context.Context, text string) ([]catalog.Recipe, error) {
	f.mu.Lock()
	ch := f.block[text]
	in := f.entered[text]
	err := f.err
	recipes := f.results[text]
	f.mu.Unlock()
	if in != nil {
		close(in)
	}
	if ch != nil {
		<-ch
	}
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (f *fakeCatalog) Lookup(ctx context.Context, id string) (*catalog.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	recipes := f.results[id]
	if len(recipes) == 0 {
		return nil, nil
	}
	return &recipes[0], nil
}

func (f *fakeCatalog) Filter(ctx context.Context, dim catalog.Dimension, value string) ([]catalog.Recipe, error) {
	return f.Search(ctx, string(dim)+"="+value)
}

func (f *fakeCatalog) ListVocabulary(ctx context.Context, dim catalog.Dimension) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vocab, nil
}

func names(recipes []catalog.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}

func TestSearchReplacesList(t *testing.T) {
	cat := newFakeCatalog()
	cat.results["pasta"] = []catalog.Recipe{{ID: "1", Name: "Carbonara"}}
	state := NewState(cat, nil)

	if err := state.Search(context.Background(), "pasta"); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if got := names(state.Recipes()); len(got) != 1 || got[0] != "Carbonara" {
		t.Errorf("Recipes() = %v", got)
	}
	if state.Loading() {
		t.Error("loading must be false once the fetch resolves")
	}
}

func TestSearchBlankIsNoOp(t *testing.T) {
	cat := newFakeCatalog()
	cat.results["pasta"] = []catalog.Recipe{{ID: "1", Name: "Carbonara"}}
	state := NewState(cat, nil)
	ctx := context.Background()

	state.Search(ctx, "pasta")
	if err := state.Search(ctx, "   "); err != nil {
		t.Fatalf("blank search errored: %v", err)
	}
	if got := names(state.Recipes()); len(got) != 1 || got[0] != "Carbonara" {
		t.Errorf("blank search must preserve the list, got %v", got)
	}
}

func TestSearchErrorEmptiesList(t *testing.T) {
	cat := newFakeCatalog()
	cat.results["pasta"] = []catalog.Recipe{{ID: "1", Name: "Carbonara"}}
	state := NewState(cat, nil)
	ctx := context.Background()

	state.Search(ctx, "pasta")
	cat.err = errors.New("network down")
	if err := state.Search(ctx, "soup"); err == nil {
		t.Fatal("expected error")
	}
	if got := state.Recipes(); len(got) != 0 {
		t.Errorf("error must empty the list, got %v", names(got))
	}
	if state.Loading() {
		t.Error("loading must resolve even on error")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	cat := newFakeCatalog()
	cat.results["slow"] = []catalog.Recipe{{ID: "1", Name: "Old"}}
	cat.results["fast"] = []catalog.Recipe{{ID: "2", Name: "New"}}
	state := NewState(cat, nil)
	ctx := context.Background()

	release, entered := cat.hold("slow")
	done := make(chan struct{})
	go func() {
		state.Search(ctx, "slow")
		close(done)
	}()
	<-entered

	// Second request issued while the first is still in flight.
	if err := state.Search(ctx, "fast"); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	close(release)
	<-done

	if got := names(state.Recipes()); len(got) != 1 || got[0] != "New" {
		t.Errorf("late response must not clobber the newer one, got %v", got)
	}
	if state.Loading() {
		t.Error("both fetches resolved, loading must be false")
	}
}

func TestFetchDetail(t *testing.T) {
	cat := newFakeCatalog()
	cat.results["52772"] = []catalog.Recipe{{ID: "52772", Name: "Teriyaki Chicken"}}
	state := NewState(cat, nil)
	ctx := context.Background()

	if err := state.FetchDetail(ctx, "52772"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if d := state.Detail(); d == nil || d.Name != "Teriyaki Chicken" {
		t.Errorf("Detail() = %+v", d)
	}

	cat.err = errors.New("network down")
	if err := state.FetchDetail(ctx, "52772"); err == nil {
		t.Fatal("expected error")
	}
	if state.Detail() != nil {
		t.Error("failed fetch must clear the detail")
	}
}

func TestFilterBy(t *testing.T) {
	cat := newFakeCatalog()
	cat.results["category=Dessert"] = []catalog.Recipe{{ID: "1", Name: "Flan"}}
	state := NewState(cat, nil)

	if err := state.FilterBy(context.Background(), catalog.DimCategory, "Dessert"); err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if got := names(state.Recipes()); len(got) != 1 || got[0] != "Flan" {
		t.Errorf("Recipes() = %v", got)
	}
}

// memoryCache is a map-backed VocabularyCache for the read-through tests.
type memoryCache struct {
	values map[catalog.Dimension][]string
	saves  int
}

func (m *memoryCache) Vocabulary(dim catalog.Dimension) ([]string, bool, error) {
	v, ok := m.values[dim]
	return v, ok, nil
}

func (m *memoryCache) SaveVocabulary(dim catalog.Dimension, values []string) error {
	m.values[dim] = values
	m.saves++
	return nil
}

func TestVocabularyReadThrough(t *testing.T) {
	cat := newFakeCatalog()
	cat.vocab = []string{"Beef", "Chicken"}
	cache := &memoryCache{values: make(map[catalog.Dimension][]string)}
	state := NewState(cat, cache)
	ctx := context.Background()

	got, err := state.Vocabulary(ctx, catalog.DimCategory)
	if err != nil {
		t.Fatalf("vocabulary failed: %v", err)
	}
	if len(got) != 2 || cache.saves != 1 {
		t.Fatalf("expected miss to populate the cache, got %v saves=%d", got, cache.saves)
	}

	// Second call must be served from the cache even if the network dies.
	cat.err = errors.New("network down")
	got, err = state.Vocabulary(ctx, catalog.DimCategory)
	if err != nil {
		t.Fatalf("cached vocabulary failed: %v", err)
	}
	if len(got) != 2 || got[0] != "Beef" {
		t.Errorf("Vocabulary() = %v", got)
	}
}
