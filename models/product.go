package models

import "time"

// Product is the entity returned by the platform backend's create endpoint.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	SKU           string    `json:"sku"`
	Barcode       string    `json:"barcode"`
	Price         float64   `json:"price"`
	CostPrice     float64   `json:"cost_price"`
	StockQuantity float64   `json:"stock_quantity"`
	MinStockLevel float64   `json:"min_stock_level"`
	Category      string    `json:"category"`
	Unit          string    `json:"unit"`
	Supplier      string    `json:"supplier"`
	Tags          []string  `json:"tags"`
	Images        []string  `json:"images"`
	Taxable       bool      `json:"taxable"`
	IsActive      bool      `json:"is_active"`
	IsFeatured    bool      `json:"is_featured"`
	StoreID       string    `json:"store_id"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
