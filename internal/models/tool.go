package models

import "time"

// Tool categories form a closed set used for catalog filtering.
const (
	CategoryUtility      = "Utility Tools"
	CategoryCalculators  = "Online Calculators"
	CategoryText         = "Text Tools"
	CategoryImage        = "Image Tools"
	CategoryDeveloper    = "Developer Tools"
	CategoryConverter    = "Converter Tools"
	CategoryAI           = "AI Tools"
)

// Categories lists every valid tool category.
var Categories = []string{
	CategoryUtility,
	CategoryCalculators,
	CategoryText,
	CategoryImage,
	CategoryDeveloper,
	CategoryConverter,
	CategoryAI,
}

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Tool represents a single catalog entry.
type Tool struct {
	// ID is the unique identifier for the tool record.
	ID string
	// Name is the display name of the tool.
	Name string
	// Description is a short human-readable summary of what the tool does.
	Description string
	// Category is one of the closed set of catalog categories.
	Category string
	// URL is the path of the tool's page.
	URL string
	// Icon names the icon shown next to the tool in listings.
	Icon string
	// Popularity is a monotonic usage counter, the default catalog sort key.
	Popularity int64
	// IsActive marks whether the tool is visible in the catalog.
	IsActive bool
	// CreatedAt is the timestamp indicating when the tool was seeded.
	CreatedAt time.Time
}
