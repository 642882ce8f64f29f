package pipeline

import "github.com/SweetsNSavories/timeline/internal/record"

// FacetFilter retains records matching the current facet selection.
//
// Selection is flatten-then-union: selected values are collected across all
// groups into one global set, not scoped by group name. Two groups sharing a
// value therefore select each other's records; callers relying on per-group
// scoping should use distinct value vocabularies. An empty selection is the
// identity — an untouched facet dropdown must not hide every record.
//
// A record is retained when the value of any group's field is in the selected
// set. Records with a malformed payload never match.
func FacetFilter(records []record.Record, groups []FacetGroup) []record.Record {
	selected := selectedValues(groups)
	if len(selected) == 0 {
		return records
	}

	fields := facetFields(groups)

	matched := make([]record.Record, 0, len(records))
	for _, r := range records {
		values, ok := r.Values()
		if !ok {
			continue
		}
		for _, field := range fields {
			if v, ok := values[field]; ok && selected[v] {
				matched = append(matched, r)
				break
			}
		}
	}
	return matched
}

// selectedValues flattens the selected option values of all groups into one set.
func selectedValues(groups []FacetGroup) map[string]bool {
	selected := make(map[string]bool)
	for _, g := range groups {
		for _, opt := range g.Options {
			if opt.Selected {
				selected[opt.Value] = true
			}
		}
	}
	return selected
}

// facetFields returns the distinct fields referenced by the groups, in order.
func facetFields(groups []FacetGroup) []string {
	seen := make(map[string]bool, len(groups))
	fields := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.Field == "" || seen[g.Field] {
			continue
		}
		seen[g.Field] = true
		fields = append(fields, g.Field)
	}
	return fields
}
