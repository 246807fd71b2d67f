package models

import "time"

// Service is one catalog offering shown on the public site. Price is a
// display string, not an amount. Icon is a symbolic name the frontend
// resolves to a glyph; unknown names fall back to DefaultIcon there.
type Service struct {
	ID          int64     `json:"id" yaml:"-"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Price       string    `json:"price" yaml:"price"`
	Icon        string    `json:"icon" yaml:"icon"`
	Popular     bool      `json:"popular" yaml:"popular"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
}
