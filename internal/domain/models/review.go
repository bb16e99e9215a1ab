package models

// Review is a user's rating of a game.
type Review struct {
	ID      int64  `json:"id"`
	UserID  string `json:"userId"`
	GameID  int64  `json:"gameId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
