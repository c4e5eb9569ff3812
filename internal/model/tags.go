package model

import (
	"encoding/json"
	"slices"
	"strings"
)

// TagSet is a set of feature tags.
// Tags are kept once each and always listed in byte order, which is the order
// the test-suite header expects.
type TagSet map[string]struct{}

// NewTagSet returns a set holding the given tags.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, tag := range tags {
		s.Add(tag)
	}
	return s
}

// Add inserts tag. Adding a tag twice has no effect.
func (s TagSet) Add(tag string) {
	s[tag] = struct{}{}
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Len returns the number of tags.
func (s TagSet) Len() int {
	return len(s)
}

// Sorted returns the tags in byte order.
func (s TagSet) Sorted() []string {
	tags := make([]string, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// String joins the sorted tags with ", ".
func (s TagSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}

// MarshalJSON encodes the set as a sorted array.
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of tags.
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}

// FeatureSet is the result of classifying a model.
//
// Components names the kinds of SBML constructs present (for example
// "Compartment" or "EventDelay"). Tests names the behaviours a simulator
// must support to reproduce the model (for example "NonUnityCompartment").
type FeatureSet struct {
	// Components holds the componentTags of the test-suite header.
	Components TagSet `json:"component_tags"`

	// Tests holds the testTags of the test-suite header.
	Tests TagSet `json:"test_tags"`
}

// NewFeatureSet returns an empty feature set ready for use.
func NewFeatureSet() *FeatureSet {
	return &FeatureSet{
		Components: NewTagSet(),
		Tests:      NewTagSet(),
	}
}
