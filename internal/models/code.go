package models

// Region is one row of the region code sheet.
type Region struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	SortOrder int    `json:"sortOrder"`
}

// Team is one row of the team code sheet. Teams belong to a region.
type Team struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Active bool   `json:"active"`
}
