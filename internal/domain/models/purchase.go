package models

import "time"

// Purchase records that a user bought a game.
type Purchase struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"userId"`
	GameID       int64     `json:"gameId"`
	PurchaseDate time.Time `json:"purchaseDate"`
}
