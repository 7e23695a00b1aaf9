package models

import "encoding/json"

// DimensionSet is an insertion-ordered set of graduate profile dimensions.
type DimensionSet struct {
	order []string
	index map[string]struct{}
}

// NewDimensionSet builds a set keeping the first occurrence of each value.
func NewDimensionSet(values ...string) DimensionSet {
	s := DimensionSet{}
	for _, v := range values {
		s.add(v)
	}
	return s
}

// Contains reports membership.
func (s DimensionSet) Contains(value string) bool {
	_, ok := s.index[value]
	return ok
}

// Len returns the number of selected dimensions.
func (s DimensionSet) Len() int {
	return len(s.order)
}

// Values returns the dimensions in selection order.
func (s DimensionSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Toggle adds the value when absent and removes it when present. It reports whether the
// value is selected afterwards.
func (s *DimensionSet) Toggle(value string) bool {
	if s.Contains(value) {
		s.remove(value)
		return false
	}
	s.add(value)
	return true
}

// Clone returns an independent copy.
func (s DimensionSet) Clone() DimensionSet {
	return NewDimensionSet(s.order...)
}

// MarshalJSON encodes the set as an array, never null.
func (s DimensionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON accepts an array (or null) and drops duplicates.
func (s *DimensionSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewDimensionSet(values...)
	return nil
}

func (s *DimensionSet) add(value string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[value]; ok {
		return
	}
	s.index[value] = struct{}{}
	s.order = append(s.order, value)
}

func (s *DimensionSet) remove(value string) {
	delete(s.index, value)
	for i, v := range s.order {
		if v == value {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			return
		}
	}
}
