package starter

import (
	"github.com/nibzard/starter/internal/template"
)

// Listing is one template offered in list mode.
type Listing struct {
	Template    *template.Template
	Description string
}

// Templates lists every template in the search sources, sorted by name.
// Directories that cannot be loaded are skipped.
func (s *Starter) Templates() []Listing {
	found := template.Scan(s.sources)
	listings := make([]Listing, 0, len(found))
	for _, t := range found {
		settings, err := t.Settings()
		if err != nil {
			continue
		}
		listings = append(listings, Listing{Template: t, Description: settings.Description})
	}
	return listings
}
