package alias

import "strings"

// Entry maps a normalized alias key to a canonical name
type Entry struct {
	Alias     string `json:"alias"`
	Canonical string `json:"canonical"`
}

// Table is an ordered alias list. Substring resolution scans it in order,
// so earlier entries shadow later ones.
type Table []Entry

// NormalizeKey lowercases and trims an alias key
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultVendorAliases returns the seed table of known vendor misspellings
// and voice-to-text mishearings.
func DefaultVendorAliases() Table {
	const (
		jaciel = "Jaciel"
		bryan  = "Bryan"
		elmer  = "Elmer"
		selvin = "Selvin"
		adrian = "Zelle payment to Adrian Carpente"
	)
	return Table{
		// voice-to-text often hears "hacienda"
		{Alias: "hacienda", Canonical: jaciel},
		{Alias: "hacienda j", Canonical: jaciel},
		{Alias: "hacienda jaciel", Canonical: jaciel},
		{Alias: "acienda", Canonical: jaciel},
		{Alias: "assienda", Canonical: jaciel},
		{Alias: "hassienda", Canonical: jaciel},
		{Alias: "hasienda", Canonical: jaciel},
		{Alias: "hacienda joe", Canonical: jaciel},
		{Alias: "hacienda joel", Canonical: jaciel},
		{Alias: "jaciel", Canonical: jaciel},
		{Alias: "jasiel", Canonical: jaciel},
		{Alias: "haciel", Canonical: jaciel},

		{Alias: "brian", Canonical: bryan},
		{Alias: "bryant", Canonical: bryan},
		{Alias: "brayan", Canonical: bryan},

		{Alias: "elmar", Canonical: elmer},
		{Alias: "almer", Canonical: elmer},

		{Alias: "selbin", Canonical: selvin},
		{Alias: "salvin", Canonical: selvin},
		{Alias: "calvin", Canonical: selvin},
		{Alias: "seven", Canonical: selvin},

		{Alias: "adrian", Canonical: adrian},
		{Alias: "adrina", Canonical: adrian},
		{Alias: "adriano", Canonical: adrian},
		{Alias: "adrean", Canonical: adrian},
		{Alias: "adrian carpente", Canonical: adrian},
		{Alias: "adrian carpenter", Canonical: adrian},
	}
}
