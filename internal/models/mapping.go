// Package models contains the data models for the application.
package models

// Mapping is the stored association between a short key
// and the long URL it stands for.
type Mapping struct {
	ShortKey string `json:"short_key"`
	LongURL  string `json:"long_url"`
}

// NewMapping is a function that creates a new mapping record.
func NewMapping(shortKey, longURL string) *Mapping {
	return &Mapping{
		ShortKey: shortKey,
		LongURL:  longURL,
	}
}
