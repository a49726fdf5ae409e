package structs

// ProductQuery is the body accepted by both inventory POST routes. The inner
// mapping is forwarded to the products service without any schema applied.
type ProductQuery struct {
	Product map[string]any `json:"product" validate:"required"`
}

// ProductUpdate is the shape of a single product as owned by the products
// service. Price has no sign or range constraint.
type ProductUpdate struct {
	ID    string   `json:"id" bson:"id" validate:"required"`
	Name  string   `json:"name" bson:"name" validate:"required"`
	Price *float64 `json:"price" bson:"price" validate:"required"`
}
