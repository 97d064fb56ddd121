package payee

import "strings"

// Rule maps any of its keywords to a canonical brand. When several rules
// match, the highest Priority wins.
type Rule struct {
	Keywords  []string `json:"keywords"`
	Canonical string   `json:"canonical"`
	Priority  int      `json:"priority"`
}

// DefaultGenericKeywords mark a payee as a fuel purchase without naming a brand
func DefaultGenericKeywords() []string {
	return []string{"gas station", "fuel", "gasoline", "petroleum"}
}

// DefaultFuelRules returns the fuel brand consolidation table
func DefaultFuelRules() []Rule {
	return []Rule{
		{Keywords: []string{"kay mart valero"}, Canonical: "Kay Mart Valero", Priority: 90},
		{Keywords: []string{"speedy stop", "speedystop"}, Canonical: "Speedy Stop", Priority: 80},

		{Keywords: []string{"valero"}, Canonical: "Valero", Priority: 70},
		{Keywords: []string{"shell"}, Canonical: "Shell", Priority: 70},
		{Keywords: []string{"chevron"}, Canonical: "Chevron", Priority: 70},
		{Keywords: []string{"exxon"}, Canonical: "Exxon", Priority: 70},
		{Keywords: []string{"mobil"}, Canonical: "Mobil", Priority: 70},
		{Keywords: []string{"texaco"}, Canonical: "Texaco", Priority: 70},
		{Keywords: []string{"conoco"}, Canonical: "Conoco", Priority: 70},
		{Keywords: []string{"phillips 66", "phillips66"}, Canonical: "Phillips 66", Priority: 70},
		{Keywords: []string{"marathon"}, Canonical: "Marathon", Priority: 70},
		{Keywords: []string{"citgo"}, Canonical: "Citgo", Priority: 70},
		{Keywords: []string{"sunoco"}, Canonical: "Sunoco", Priority: 70},
		{Keywords: []string{"bp", "british petroleum"}, Canonical: "BP", Priority: 70},
		{Keywords: []string{"gulf"}, Canonical: "Gulf", Priority: 70},
		{Keywords: []string{"sinclair"}, Canonical: "Sinclair", Priority: 70},
		{Keywords: []string{"arco"}, Canonical: "Arco", Priority: 70},

		{Keywords: []string{"76", "seventy six"}, Canonical: "76", Priority: 60},
		{Keywords: []string{"circle k"}, Canonical: "Circle K", Priority: 60},
		{Keywords: []string{"7-eleven", "7 eleven", "seven eleven"}, Canonical: "7-Eleven", Priority: 60},
		{Keywords: []string{"wawa"}, Canonical: "Wawa", Priority: 60},
		{Keywords: []string{"sheetz"}, Canonical: "Sheetz", Priority: 60},
		{Keywords: []string{"quiktrip", "quik trip", "qt"}, Canonical: "QuikTrip", Priority: 60},
		{Keywords: []string{"racetrac", "race trac"}, Canonical: "RaceTrac", Priority: 60},
		{Keywords: []string{"loves", "love's"}, Canonical: "Love's", Priority: 60},
		{Keywords: []string{"pilot"}, Canonical: "Pilot", Priority: 60},
		{Keywords: []string{"flying j"}, Canonical: "Flying J", Priority: 60},
		{Keywords: []string{"ta travel", "ta truck"}, Canonical: "TA Travel Centers", Priority: 60},
		{Keywords: []string{"petro"}, Canonical: "Petro", Priority: 60},
		{Keywords: []string{"costco gas"}, Canonical: "Costco Gas", Priority: 60},
		{Keywords: []string{"sams club gas", "sam's club gas"}, Canonical: "Sam's Club Gas", Priority: 60},
		{Keywords: []string{"kroger fuel"}, Canonical: "Kroger Fuel", Priority: 60},
		{Keywords: []string{"heb gas"}, Canonical: "HEB Gas", Priority: 60},
	}
}

func (r Rule) matches(lower string) bool {
	for _, k := range r.Keywords {
		if k != "" && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
