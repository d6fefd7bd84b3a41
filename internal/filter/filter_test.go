package filter

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/benjaelizalde/recetario/internal/catalog"
)

// recordingOps logs every call so tests can assert exactly what a filter
// action did to the outside world.
type recordingOps struct {
	calls []string
}

func (r *recordingOps) FilterByCategory(ctx context.Context, value string) error {
	r.calls = append(r.calls, "category:"+value)
	return nil
}

func (r *recordingOps) FilterByArea(ctx context.Context, value string) error {
	r.calls = append(r.calls, "area:"+value)
	return nil
}

func (r *recordingOps) FilterByIngredient(ctx context.Context, value string) error {
	r.calls = append(r.calls, "ingredient:"+value)
	return nil
}

func (r *recordingOps) ClearQuery() {
	r.calls = append(r.calls, "clearquery")
}

func (r *recordingOps) Unfiltered(ctx context.Context) error {
	r.calls = append(r.calls, "unfiltered")
	return nil
}

func TestSetSelectionClearsOthers(t *testing.T) {
	c := NewCore()
	c.SetSelection(catalog.DimCategory, "Dessert")
	c.SetSelection(catalog.DimArea, "Italian")

	if got := c.Selection(catalog.DimCategory); got != "" {
		t.Errorf("category selection = %q, want cleared", got)
	}
	if got := c.Text(catalog.DimCategory); got != "" {
		t.Errorf("category text = %q, want cleared", got)
	}
	if got := c.Selection(catalog.DimArea); got != "Italian" {
		t.Errorf("area selection = %q", got)
	}
	if got := c.Text(catalog.DimArea); got != "Italian" {
		t.Errorf("area text = %q, want filled with the pick", got)
	}

	dim, value, ok := c.ActiveSelection()
	if !ok || dim != catalog.DimArea || value != "Italian" {
		t.Errorf("ActiveSelection() = %v %q %v", dim, value, ok)
	}
}

func TestSetSelectionClosesList(t *testing.T) {
	c := NewCore()
	c.SetText(catalog.DimCategory, "des")
	if c.OpenInput() != catalog.DimCategory {
		t.Fatal("typing must open that dimension's list")
	}
	c.SetSelection(catalog.DimCategory, "Dessert")
	if c.OpenInput() != "" {
		t.Error("picking a value must close the list")
	}
}

func TestTypingClearsOtherSelections(t *testing.T) {
	c := NewCore()
	c.SetSelection(catalog.DimCategory, "Dessert")
	c.SetText(catalog.DimArea, "Ital")

	if got := c.Selection(catalog.DimCategory); got != "" {
		t.Errorf("category selection = %q, want cleared by typing in area", got)
	}
	if got := c.Text(catalog.DimCategory); got != "" {
		t.Errorf("category text = %q, want cleared by typing in area", got)
	}

	ops := &recordingOps{}
	if err := c.Apply(context.Background(), ops); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	want := []string{"clearquery", "area:Ital"}
	if !reflect.DeepEqual(ops.calls, want) {
		t.Errorf("calls = %v, want %v", ops.calls, want)
	}
}

func TestTypedTextIsApplicable(t *testing.T) {
	c := NewCore()
	c.SetText(catalog.DimIngredient, "Chicken")

	dim, value, ok := c.ActiveSelection()
	if !ok || dim != catalog.DimIngredient || value != "Chicken" {
		t.Errorf("ActiveSelection() = %v %q %v, want typed text as pending selection", dim, value, ok)
	}

	// Erasing the text drops the pending selection again.
	c.SetText(catalog.DimIngredient, "")
	if c.HasSelection() {
		t.Error("blank text must not stay selected")
	}
}

func TestSingleOpenList(t *testing.T) {
	c := NewCore()
	c.SetOpenInput(catalog.DimCategory)
	c.SetOpenInput(catalog.DimIngredient)
	if c.OpenInput() != catalog.DimIngredient {
		t.Errorf("OpenInput() = %q, want ingredient only", c.OpenInput())
	}
	c.SetOpenInput("")
	if c.OpenInput() != "" {
		t.Error("expected all lists closed")
	}
}

func TestSuggestionsSubstringMatch(t *testing.T) {
	c := NewCore()
	c.SetVocabulary(Vocabulary{Ingredients: []string{"Chicken", "Beef", "Chickpeas", "Pork"}})
	c.SetText(catalog.DimIngredient, "chick")

	got := c.Suggestions(catalog.DimIngredient)
	want := []string{"Chicken", "Chickpeas"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggestions() = %v, want %v", got, want)
	}
}

func TestSuggestionsBlankTextCapped(t *testing.T) {
	c := NewCore()
	var ingredients []string
	for i := 0; i < 30; i++ {
		ingredients = append(ingredients, fmt.Sprintf("Ingredient %02d", i))
	}
	c.SetVocabulary(Vocabulary{Ingredients: ingredients})

	got := c.Suggestions(catalog.DimIngredient)
	if len(got) != maxSuggestions {
		t.Fatalf("expected cap at %d, got %d", maxSuggestions, len(got))
	}
	if got[0] != "Ingredient 00" || got[19] != "Ingredient 19" {
		t.Errorf("expected source order, got first=%q last=%q", got[0], got[19])
	}
}

func TestApplyRunsActiveFilter(t *testing.T) {
	c := NewCore()
	c.SetText(catalog.DimArea, "ita")
	c.SetSelection(catalog.DimArea, "Italian")

	ops := &recordingOps{}
	if err := c.Apply(context.Background(), ops); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	want := []string{"clearquery", "area:Italian"}
	if !reflect.DeepEqual(ops.calls, want) {
		t.Errorf("calls = %v, want %v", ops.calls, want)
	}
	if c.OpenInput() != "" {
		t.Error("apply must close the lists")
	}
}

func TestApplyPrecedence(t *testing.T) {
	// Only one selection can exist through the public API, but apply order
	// is category then area then ingredient if state ever disagrees.
	c := NewCore()
	c.selection[catalog.DimIngredient] = "Garlic"
	c.selection[catalog.DimCategory] = "Seafood"

	ops := &recordingOps{}
	c.Apply(context.Background(), ops)
	want := []string{"clearquery", "category:Seafood"}
	if !reflect.DeepEqual(ops.calls, want) {
		t.Errorf("calls = %v, want %v", ops.calls, want)
	}
}

func TestApplyWithoutSelection(t *testing.T) {
	c := NewCore()
	c.SetOpenInput(catalog.DimCategory)

	ops := &recordingOps{}
	if err := c.Apply(context.Background(), ops); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(ops.calls) != 0 {
		t.Errorf("apply with no selection must touch nothing, got %v", ops.calls)
	}
	if c.OpenInput() != "" {
		t.Error("apply must still close the lists")
	}
}

func TestClearRoundTrip(t *testing.T) {
	c := NewCore()
	c.SetText(catalog.DimCategory, "des")
	c.SetSelection(catalog.DimCategory, "Dessert")

	ops := &recordingOps{}
	c.Apply(context.Background(), ops)
	if err := c.Clear(context.Background(), ops); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	want := []string{"clearquery", "category:Dessert", "unfiltered"}
	if !reflect.DeepEqual(ops.calls, want) {
		t.Errorf("calls = %v, want %v", ops.calls, want)
	}
	if c.HasSelection() {
		t.Error("clear must drop the selection")
	}
	if c.Text(catalog.DimCategory) != "" {
		t.Error("clear must empty the inputs")
	}
	if c.OpenInput() != "" {
		t.Error("clear must close the lists")
	}
}

func TestQueryChangedClearsSelection(t *testing.T) {
	c := NewCore()
	c.SetSelection(catalog.DimCategory, "Dessert")

	c.QueryChanged("pollo")
	if c.HasSelection() {
		t.Error("typing a query must drop the selection")
	}

	c.SetSelection(catalog.DimArea, "Mexican")
	c.QueryChanged("")
	if !c.HasSelection() {
		t.Error("an emptied query must leave the selection alone")
	}
}
