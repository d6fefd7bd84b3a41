package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL), server
}

func TestSearch(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.php" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("s"); got != "arroz" {
			t.Errorf("unexpected search term: %q", got)
		}
		fmt.Fprint(w, `{"meals":[
			{"idMeal":"52772","strMeal":"Teriyaki Chicken","strMealES":"Pollo Teriyaki",
			 "strCategory":"Chicken","strArea":"Japanese","strMealThumb":"https://example.com/t.jpg",
			 "strIngredient1":"soy sauce","strMeasure1":"3/4 cup",
			 "strIngredient2":"water","strMeasure2":"1/2 cup",
			 "strIngredient3":"","strMeasure3":null}
		]}`)
	})
	defer server.Close()

	recipes, err := c.Search(context.Background(), "arroz")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(recipes) != 1 {
		t.Fatalf("expected 1 recipe, got %d", len(recipes))
	}

	r := recipes[0]
	if r.ID != "52772" {
		t.Errorf("unexpected id: %s", r.ID)
	}
	if r.DisplayName() != "Pollo Teriyaki" {
		t.Errorf("expected localized name, got %q", r.DisplayName())
	}
	if len(r.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients (blank slots trimmed), got %d", len(r.Ingredients))
	}
	if r.Ingredients[0].Name != "soy sauce" || r.Ingredients[0].Quantity != "3/4 cup" {
		t.Errorf("unexpected first ingredient: %+v", r.Ingredients[0])
	}
}

func TestSearchNoMatches(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"meals":null}`)
	})
	defer server.Close()

	recipes, err := c.Search(context.Background(), "zzzzz")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if recipes == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(recipes) != 0 {
		t.Errorf("expected 0 recipes, got %d", len(recipes))
	}
}

func TestLookup(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lookup.php" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("i"); got != "52772" {
			t.Errorf("unexpected lookup id: %q", got)
		}
		fmt.Fprint(w, `{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken","strInstructions":"Mix and cook."}]}`)
	})
	defer server.Close()

	r, err := c.Lookup(context.Background(), "52772")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if r == nil {
		t.Fatal("expected a recipe")
	}
	if r.DisplayInstructions() != "Mix and cook." {
		t.Errorf("unexpected instructions: %q", r.Instructions)
	}
}

func TestLookupUnknownID(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"meals":null}`)
	})
	defer server.Close()

	r, err := c.Lookup(context.Background(), "0")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if r != nil {
		t.Errorf("expected nil for unknown id, got %+v", r)
	}
}

func TestFilterDimensionParams(t *testing.T) {
	cases := []struct {
		dim   Dimension
		param string
	}{
		{DimCategory, "c"},
		{DimArea, "a"},
		{DimIngredient, "i"},
	}

	for _, tc := range cases {
		var gotParam string
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/filter.php" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.URL.Query().Get(tc.param) != "" {
				gotParam = tc.param
			}
			fmt.Fprint(w, `{"meals":[{"idMeal":"1","strMeal":"A","strMealThumb":"t"}]}`)
		})

		recipes, err := c.Filter(context.Background(), tc.dim, "value")
		server.Close()
		if err != nil {
			t.Fatalf("Filter(%s) failed: %v", tc.dim, err)
		}
		if gotParam != tc.param {
			t.Errorf("Filter(%s): expected query param %q to be set", tc.dim, tc.param)
		}
		if len(recipes) != 1 {
			t.Errorf("Filter(%s): expected 1 recipe, got %d", tc.dim, len(recipes))
		}
	}
}

func TestListVocabulary(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list.php" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("c"); got != "list" {
			t.Errorf("expected c=list, got %q", got)
		}
		fmt.Fprint(w, `{"meals":[{"strCategory":"Beef"},{"strCategory":"Dessert"},{"strCategory":""}]}`)
	})
	defer server.Close()

	values, err := c.ListVocabulary(context.Background(), DimCategory)
	if err != nil {
		t.Fatalf("ListVocabulary failed: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 values (blank dropped), got %d", len(values))
	}
	if values[0] != "Beef" || values[1] != "Dessert" {
		t.Errorf("unexpected vocabulary: %v", values)
	}
}

func TestServerError(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer server.Close()

	if _, err := c.Search(context.Background(), "x"); err == nil {
		t.Error("expected error on HTTP 500")
	}
}
