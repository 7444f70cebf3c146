package entity

// Category categoría de productos.
type Category struct {
	ID   string
	Name string
}

// ProductImage imagen asociada a un producto (tabla de medios).
type ProductImage struct {
	ID        string
	ProductID string
	URL       string
	SortOrder int
}
