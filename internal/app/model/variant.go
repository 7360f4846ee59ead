package model

// DefaultSelections returns the defaulting policy for a fresh detail
// view: every option resolves to the value at index 0.
func DefaultSelections(p Product) map[string]string {
	selections := make(map[string]string, len(p.Options))
	for _, opt := range p.Options {
		if len(opt.Values) == 0 {
			continue
		}
		selections[opt.Name] = opt.Values[0]
	}
	return selections
}

// MergeSelection copies the current selection set, defaults any axis
// the shopper has not picked yet, and applies the clicked pair on top.
func MergeSelection(p Product, current map[string]string, name, value string) map[string]string {
	merged := DefaultSelections(p)
	for k, v := range current {
		merged[k] = v
	}
	merged[name] = value
	return merged
}

// ResolveVariant maps a full selection set to the index of the single
// matching variant. A match requires the variant's selected-option
// pairs to equal the selection set exactly: same option names, same
// chosen value per name. Matching is scoped to (name, value) pairs so
// a value string shared by two different options never cross-matches.
//
// Partial selections have no defined match; callers default unchosen
// axes first (see DefaultSelections). Because variant combinations are
// unique, at most one variant can match; when none does the caller
// must treat the combination as unavailable rather than fall back to
// variant 0.
func ResolveVariant(p Product, selections map[string]string) (int, bool) {
	if len(selections) == 0 {
		return -1, false
	}
	for i, v := range p.Variants {
		if variantMatches(v, selections) {
			return i, true
		}
	}
	return -1, false
}

func variantMatches(v Variant, selections map[string]string) bool {
	if len(v.SelectedOptions) != len(selections) {
		return false
	}
	for _, so := range v.SelectedOptions {
		chosen, ok := selections[so.Name]
		if !ok || chosen != so.Value {
			return false
		}
	}
	return true
}
