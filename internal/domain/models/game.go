package models

import "time"

// Game is a catalog entry.
type Game struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ReleaseDate time.Time `json:"releaseDate"`
	Genre       string    `json:"genre"`
	Developer   string    `json:"developer"`
	Platform    string    `json:"platform"`
	Price       float64   `json:"price"`
}
