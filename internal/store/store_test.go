package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/benjaelizalde/recetario/internal/catalog"
)

func TestOpen(t *testing.T) {
	st, err := Open(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	// Verify the table exists by querying it
	var name string
	err = st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='vocabulary'").Scan(&name)
	if err != nil {
		t.Fatalf("vocabulary table not created: %v", err)
	}
	if name != "vocabulary" {
		t.Errorf("expected table name 'vocabulary', got %q", name)
	}
}

func TestVocabularyRoundTrip(t *testing.T) {
	st, err := Open(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	want := []string{"Beef", "Chicken", "Dessert"}
	if err := st.SaveVocabulary(catalog.DimCategory, want); err != nil {
		t.Fatalf("SaveVocabulary failed: %v", err)
	}

	got, ok, err := st.Vocabulary(catalog.DimCategory)
	if err != nil {
		t.Fatalf("Vocabulary failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Vocabulary() = %v, want %v", got, want)
	}
}

func TestVocabularyMissForOtherDimension(t *testing.T) {
	st, err := Open(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	st.SaveVocabulary(catalog.DimCategory, []string{"Beef"})

	_, ok, err := st.Vocabulary(catalog.DimArea)
	if err != nil {
		t.Fatalf("Vocabulary failed: %v", err)
	}
	if ok {
		t.Error("expected a miss for an uncached dimension")
	}
}

func TestVocabularyStaleEntriesMiss(t *testing.T) {
	// A zero max age makes everything instantly stale.
	st, err := Open(":memory:", 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	st.SaveVocabulary(catalog.DimCategory, []string{"Beef"})

	_, ok, err := st.Vocabulary(catalog.DimCategory)
	if err != nil {
		t.Fatalf("Vocabulary failed: %v", err)
	}
	if ok {
		t.Error("expected stale entries to read as a miss")
	}
}

func TestSaveVocabularyReplaces(t *testing.T) {
	st, err := Open(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	st.SaveVocabulary(catalog.DimArea, []string{"Italian", "Mexican", "Thai"})
	st.SaveVocabulary(catalog.DimArea, []string{"Japanese"})

	got, ok, err := st.Vocabulary(catalog.DimArea)
	if err != nil {
		t.Fatalf("Vocabulary failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if !reflect.DeepEqual(got, []string{"Japanese"}) {
		t.Errorf("expected the old list fully replaced, got %v", got)
	}
}
