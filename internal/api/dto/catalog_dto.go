package dto

import "time"

// CategoryRequest payload for category create/update.
type CategoryRequest struct {
	CategoryName string `json:"categoryName"`
	Status       int    `json:"status"`
}

// CategoryResponse wire shape for a category.
type CategoryResponse struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"categoryName"`
	Status       int    `json:"status"`
}

// ProductRequest payload for product create/update.
type ProductRequest struct {
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	UnitInStock int     `json:"unitInStock"`
	CategoryID  int64   `json:"categoryId"`
}

// ProductResponse wire shape for a product, including its category name.
type ProductResponse struct {
	ID           int64      `json:"id"`
	ProductName  string     `json:"productName"`
	UnitPrice    float64    `json:"unitPrice"`
	UnitInStock  int        `json:"unitInStock"`
	CategoryID   int64      `json:"categoryId"`
	CategoryName string     `json:"categoryName"`
	CreatedDate  time.Time  `json:"createdDate"`
	ModifiedDate *time.Time `json:"modifiedDate,omitempty"`
}
