package domain

import "time"

// Product is a record-store item gated behind authentication.
type Product struct {
	ID           int64
	ProductName  string
	UnitPrice    float64
	UnitInStock  int
	CategoryID   int64
	CategoryName string
	CreatedDate  time.Time
	ModifiedDate *time.Time
}
