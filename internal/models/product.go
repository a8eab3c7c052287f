package models

// Product is a catalog entry owned by a user. Active is stored and
// serialized as 0/1, matching the column and what the front-end expects.
type Product struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Stock  int     `json:"stock"`
	Price  float64 `json:"price"`
	Active int     `json:"active"`
	UserID int64   `json:"userId"`
}
