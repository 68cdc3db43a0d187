package domain

// Category groups products in the record store.
type Category struct {
	ID           int64
	CategoryName string
	Status       int
}
