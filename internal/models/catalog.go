package models

// Price bounds and per-product image cap.
const (
	MinProductPrice     = 0
	MaxProductPrice     = 100_000_000
	MaxImagesPerProduct = 5
)

// Category groups products.
type Category struct {
	BaseModel
	Name string `gorm:"size:100" json:"name"`
}

// Product is read-mostly reference data consumed by order creation.
// Quantity is informational only, there is no stock reservation.
type Product struct {
	BaseModel
	Name        string         `gorm:"size:350" json:"name"`
	Price       float64        `json:"price"`
	Quantity    int            `json:"quantity"`
	Thumbnail   string         `gorm:"size:300" json:"thumbnail"`
	Description string         `json:"description"`
	CategoryID  uint           `gorm:"index" json:"category_id"`
	Category    *Category      `json:"category,omitempty"`
	Images      []ProductImage `json:"images,omitempty"`
	Comments    []Comment      `json:"comments,omitempty"`
}

// ProductImage is one gallery entry; the first uploaded image becomes the
// product thumbnail when none is set.
type ProductImage struct {
	BaseModel
	ProductID uint   `gorm:"index" json:"product_id"`
	ImageURL  string `gorm:"size:300" json:"image_url"`
}

// Comment is a user remark attached to a product.
type Comment struct {
	BaseModel
	UserID    uint   `gorm:"index" json:"user_id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	Content   string `json:"content"`
}
