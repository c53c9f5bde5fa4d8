package sample

import "fmt"

// Collection is an ordered sequence of Sample.
type Collection []Sample

// Clone deep-copies every Sample in the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, s := range c {
		out[i] = s.Clone()
	}
	return out
}

// Validate removes every invalid sample from the collection and
// returns the removed samples.
func (c *Collection) Validate() Collection {
	var invalid Collection
	var kept Collection
	for _, s := range *c {
		if s.Valid() {
			kept = append(kept, s)
		} else {
			invalid = append(invalid, s)
		}
	}
	*c = kept
	return invalid
}

// Split partitions the collection into groups of equal value at linkBy.
// An empty linkBy yields one singleton group per sample.
func (c Collection) Split(linkBy string) []Collection {
	if linkBy == "" {
		groups := make([]Collection, 0, len(c))
		for _, s := range c {
			groups = append(groups, Collection{s})
		}
		return groups
	}

	order := []string{}
	buckets := map[string]Collection{}
	for _, s := range c {
		key := linkKey(s, linkBy)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], s)
	}

	groups := make([]Collection, 0, len(order))
	for _, k := range order {
		groups = append(groups, buckets[k])
	}
	return groups
}

func linkKey(s Sample, linkBy string) string {
	if linkBy == "id" {
		return s.ID
	}
	if s.Extra == nil {
		return ""
	}
	if v, err := s.Extra.Get(linkBy); err == nil {
		return toKeyString(v)
	}
	return ""
}

func toKeyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// UniqueIDs returns the set of distinct sample IDs present, in first-seen
// order.
func (c Collection) UniqueIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, s := range c {
		if !seen[s.ID] {
			seen[s.ID] = true
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Complete returns the samples whose id-group is entirely done=true.
// Failed returns its complement.
func (c Collection) Complete() Collection {
	groups := groupByID(c)
	var out Collection
	for _, s := range c {
		if allDone(groups[s.ID]) {
			out = append(out, s)
		}
	}
	return out
}

func (c Collection) Failed() Collection {
	groups := groupByID(c)
	var out Collection
	for _, s := range c {
		if !allDone(groups[s.ID]) {
			out = append(out, s)
		}
	}
	return out
}

func groupByID(c Collection) map[string]Collection {
	groups := map[string]Collection{}
	for _, s := range c {
		groups[s.ID] = append(groups[s.ID], s)
	}
	return groups
}

func allDone(group Collection) bool {
	for _, s := range group {
		if !s.Done {
			return false
		}
	}
	return true
}
