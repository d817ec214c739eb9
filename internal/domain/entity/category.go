package entity

// Category tipo de cultivo sugerido al publicar. La categoría de un cultivo es texto libre
// normalizado; este catálogo solo alimenta el selector del cliente y el filtro del marketplace.
type Category struct {
	Code string // valor que se guarda en Listing.Category
	Name string
}

// DefaultCategories catálogo base de tipos de cultivo.
var DefaultCategories = []Category{
	{Code: "vegetable", Name: "Hortalizas"},
	{Code: "fruit", Name: "Frutas"},
	{Code: "grain", Name: "Granos"},
	{Code: "legume", Name: "Legumbres"},
	{Code: "herb", Name: "Hierbas"},
}
