package classify

// Table is an operator-maintained map of domains to classification
// values. Entries are trusted as-is; no validation, no I/O.
type Table map[string]string

// BuiltinTypeTable returns the feed type table shipped with the tool.
func BuiltinTypeTable() Table {
	return Table{
		"questionablecontent.net": TypeComic,
		"penny-arcade.com":        TypeComic,
		"savestatecomic.com":      TypeComic,
		"wondermark.com":          TypeComic,
		"xkcd.com":                TypeComic,
		"widdershinscomic.com":    TypeComic,
		"gunnerkrigg.com":         TypeComic,
		"oglaf.com":               TypeComic,
		"evil-inc.com":            TypeComic,
		"irovedout.com":           TypeComic,
		"totempole666.com":        TypeComic,
		"buttsmithy.com":          TypeComic,

		"macitynet.it":   TypeNews,
		"feedburner.com": TypeNews,
	}
}

// Lookup finds a value for the domain, walking up parent domains so a
// subdomain inherits its parent's entry.
func (t Table) Lookup(domain string) (string, bool) {
	if len(t) == 0 || domain == "" {
		return "", false
	}
	for _, candidate := range parentDomains(domain) {
		if v, ok := t[candidate]; ok {
			return v, true
		}
	}
	return "", false
}
