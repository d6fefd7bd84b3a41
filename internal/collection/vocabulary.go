package collection

import "strings"

// Vocabulary projection over the favorites mirror: when the filter surface
// is bound to a local collection instead of the remote catalog, the
// suggestion lists are the distinct non-empty values found in the collection
// itself, in first-seen order.

// Categories returns the distinct categories across the favorites.
func (s *State) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.favOrder, func(id string) []string {
		return []string{s.favorites[id].Category}
	})
}

// Areas returns the distinct areas across the favorites.
func (s *State) Areas() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.favOrder, func(id string) []string {
		return []string{s.favorites[id].Area}
	})
}

// IngredientNames returns the distinct ingredient names across the
// favorites, scanning every ingredient slot of every recipe.
func (s *State) IngredientNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.favOrder, func(id string) []string {
		ings := s.favorites[id].Ingredients
		names := make([]string, len(ings))
		for i, ing := range ings {
			names[i] = ing.Name
		}
		return names
	})
}

func distinct(ids []string, project func(id string) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		for _, v := range project(id) {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
