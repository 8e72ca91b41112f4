package settings

import "sort"

// Merge completes a possibly absent or partial settings document.
//
// The result is a new value. Each missing slot gets its default and a present slot is kept
// as-is, never merged field by field. The slots are the five numbering configs, the caption set,
// the price mode, the language and the currency. The column list is rebuilt from the six known
// columns. saved is never modified or aliased.
func Merge(saved *CompanySettings) *CompanySettings {
	out := saved.Clone()
	if out == nil {
		out = &CompanySettings{}
	}
	if out.Language == "" {
		out.Language = DefaultLanguage
	}
	loc := NewLocale(out.Language)

	for _, k := range Kinds() {
		if out.Numbering(k) == nil {
			cfg := DefaultNumbering(k)
			out.SetNumbering(k, &cfg)
		}
	}

	out.DocumentLabels = mergeLabels(out.DocumentLabels, DefaultLabels(loc))
	out.DocumentColumns = mergeColumns(out.DocumentColumns, DefaultColumns(loc))

	if out.PriceDisplayMode == "" {
		out.PriceDisplayMode = PriceHT
	}
	if out.Currency == "" {
		out.Currency = DefaultCurrency
	}
	return out
}

// mergeLabels returns def when no caption set was saved. A saved set is kept as-is, blank
// captions included, so a caption can be removed on purpose.
func mergeLabels(saved *DocumentLabels, def DocumentLabels) *DocumentLabels {
	if saved == nil {
		return &def
	}
	l := *saved
	return &l
}

// mergeColumns substitutes saved columns into the default list by id and sorts by order.
// Without a saved list the defaults are returned unsorted.
func mergeColumns(saved, def ColumnSet) ColumnSet {
	if len(saved) == 0 {
		return def
	}
	byID := make(map[string]DocumentColumn, len(saved))
	for _, c := range saved {
		byID[c.ID] = c
	}
	out := make(ColumnSet, 0, len(def))
	for _, d := range def {
		if c, ok := byID[d.ID]; ok {
			out = append(out, c)
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
