package listview

import "sort"

// Selection tracks the ids picked for a bulk operation. Ids that drop out
// of the loaded set are pruned on every refresh so a batch call can never
// target a record the user no longer sees.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{ids: make(map[string]struct{})}
}

// ToggleOne adds the id when absent and removes it when present.
func (s *Selection) ToggleOne(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAll replaces the selection with the given ids. Callers pass every
// id matching the current filter, not just the visible page.
func (s *Selection) SelectAll(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Prune drops every selected id not present in loaded.
func (s *Selection) Prune(loaded []string) {
	if len(s.ids) == 0 {
		return
	}
	keep := make(map[string]struct{}, len(loaded))
	for _, id := range loaded {
		keep[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// Has reports whether the id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in a stable order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
