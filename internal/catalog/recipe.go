package catalog

import (
	"strconv"
	"strings"
)

// maxIngredientSlots is the number of positional ingredient fields the
// catalog exposes per recipe (strIngredient1..strIngredient20).
const maxIngredientSlots = 20

// Ingredient is one (name, quantity) pair from a recipe.
// Quantity may be empty ("to taste", garnish rows, etc.).
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

// Recipe is a single recipe as returned by the catalog. Immutable once
// fetched; nothing in this codebase writes to its fields after conversion.
//
// The catalog serves Spanish variants for some text fields. The Display*
// methods apply the fallback rule: prefer the localized value when present,
// otherwise the base value.
type Recipe struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	NameES         string       `json:"name_es,omitempty"`
	Category       string       `json:"category,omitempty"`
	CategoryES     string       `json:"category_es,omitempty"`
	Area           string       `json:"area,omitempty"`
	AreaES         string       `json:"area_es,omitempty"`
	Thumb          string       `json:"thumb,omitempty"`
	Instructions   string       `json:"instructions,omitempty"`
	InstructionsES string       `json:"instructions_es,omitempty"`
	Ingredients    []Ingredient `json:"ingredients,omitempty"`
}

func (r Recipe) DisplayName() string {
	if r.NameES != "" {
		return r.NameES
	}
	return r.Name
}

func (r Recipe) DisplayCategory() string {
	if r.CategoryES != "" {
		return r.CategoryES
	}
	return r.Category
}

func (r Recipe) DisplayArea() string {
	if r.AreaES != "" {
		return r.AreaES
	}
	return r.Area
}

func (r Recipe) DisplayInstructions() string {
	if r.InstructionsES != "" {
		return r.InstructionsES
	}
	return r.Instructions
}

// convertMeal converts one raw catalog object into a Recipe.
// Filter responses carry only id, name and thumb; the remaining fields
// simply come back empty.
func convertMeal(raw map[string]string) Recipe {
	r := Recipe{
		ID:             strings.TrimSpace(raw["idMeal"]),
		Name:           strings.TrimSpace(raw["strMeal"]),
		NameES:         strings.TrimSpace(raw["strMealES"]),
		Category:       strings.TrimSpace(raw["strCategory"]),
		CategoryES:     strings.TrimSpace(raw["strCategoryES"]),
		Area:           strings.TrimSpace(raw["strArea"]),
		AreaES:         strings.TrimSpace(raw["strAreaES"]),
		Thumb:          strings.TrimSpace(raw["strMealThumb"]),
		Instructions:   strings.TrimSpace(raw["strInstructions"]),
		InstructionsES: strings.TrimSpace(raw["strInstructionsES"]),
	}
	r.Ingredients = projectIngredients(raw)
	return r
}

// projectIngredients walks the 20 positional slots and keeps the non-blank
// ones, in slot order.
func projectIngredients(raw map[string]string) []Ingredient {
	var out []Ingredient
	for i := 1; i <= maxIngredientSlots; i++ {
		name := strings.TrimSpace(raw[ingredientKey(i)])
		if name == "" {
			continue
		}
		out = append(out, Ingredient{
			Name:     name,
			Quantity: strings.TrimSpace(raw[measureKey(i)]),
		})
	}
	return out
}

func ingredientKey(i int) string { return "strIngredient" + strconv.Itoa(i) }
func measureKey(i int) string    { return "strMeasure" + strconv.Itoa(i) }
