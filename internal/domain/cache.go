package domain

import "strings"

// TitleIndex is the run-scoped snapshot of existing issue titles.
// Lookups are case-insensitive. A nil index contains nothing.
type TitleIndex struct {
	titles map[string]struct{}
}

// NewTitleIndex builds an index from the given titles.
func NewTitleIndex(titles []string) *TitleIndex {
	idx := &TitleIndex{titles: make(map[string]struct{}, len(titles))}
	for _, t := range titles {
		idx.titles[strings.ToLower(t)] = struct{}{}
	}
	return idx
}

// Contains reports whether a title exists, ignoring case.
func (t *TitleIndex) Contains(title string) bool {
	if t == nil {
		return false
	}
	_, ok := t.titles[strings.ToLower(title)]
	return ok
}

// Len returns the number of distinct titles.
func (t *TitleIndex) Len() int {
	if t == nil {
		return 0
	}
	return len(t.titles)
}

// LabelCache maps lower-cased label names to their canonical spelling.
// It is owned by a single synchronizer for the duration of a run and is updated in place
// as labels are created, so later records see labels created for earlier ones.
type LabelCache struct {
	byLower map[string]string
}

// NewLabelCache builds a cache from canonical label names.
func NewLabelCache(names []string) *LabelCache {
	c := &LabelCache{byLower: make(map[string]string, len(names))}
	for _, n := range names {
		c.Add(n)
	}
	return c
}

// Lookup returns the canonical name for a label, ignoring case.
func (c *LabelCache) Lookup(name string) (string, bool) {
	canonical, ok := c.byLower[strings.ToLower(name)]
	return canonical, ok
}

// Add records a canonical label name.
func (c *LabelCache) Add(name string) {
	c.byLower[strings.ToLower(name)] = name
}

// Len returns the number of cached labels.
func (c *LabelCache) Len() int {
	return len(c.byLower)
}
