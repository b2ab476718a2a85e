// Package places serves the read side of the main catalog: listing, lookup,
// category filters and proximity search.
package places

import "slices"

// Place is one catalog entry. GPS is stored as "lat, lon".
type Place struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ImageName    string `json:"image_name"`
	Description  string `json:"description"`
	Contact      string `json:"contact"`
	Address      string `json:"address"`
	GPS          string `json:"gps"`
	Meals        bool   `json:"meals"`
	Accomodation bool   `json:"accomodation"`
	Sport        bool   `json:"sport"`
	Hiking       bool   `json:"hiking"`
	Fun          bool   `json:"fun"`
	Events       bool   `json:"events"`
}

// Categories lists the flag columns a place can be filtered by.
var Categories = []string{"meals", "accomodation", "sport", "hiking", "fun", "events"}

// IsCategory reports whether name is a known category.
func IsCategory(name string) bool {
	return slices.Contains(Categories, name)
}

// InCategory reports whether the place has the flag for category set.
func (p Place) InCategory(category string) bool {
	switch category {
	case "meals":
		return p.Meals
	case "accomodation":
		return p.Accomodation
	case "sport":
		return p.Sport
	case "hiking":
		return p.Hiking
	case "fun":
		return p.Fun
	case "events":
		return p.Events
	default:
		return false
	}
}
