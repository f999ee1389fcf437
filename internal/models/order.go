package models

import "time"

// Order statuses. Transitions are enforced in the order service.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is a materialized cart. It exclusively owns its Details rows:
// both are written in the same transaction and soft-deleted together.
type Order struct {
	BaseModel
	UserID          uint          `gorm:"index" json:"user_id"`
	User            *User         `json:"user,omitempty"`
	FullName        string        `gorm:"size:100" json:"full_name"`
	Email           string        `gorm:"size:100" json:"email"`
	PhoneNumber     string        `gorm:"size:20" json:"phone_number"`
	Address         string        `gorm:"size:200" json:"address"`
	Note            string        `gorm:"size:100" json:"note"`
	OrderDate       time.Time     `json:"order_date"`
	Status          string        `gorm:"size:20;index" json:"status"`
	TotalMoney      float64       `json:"total_money"`
	ShippingMethod  string        `gorm:"size:100" json:"shipping_method"`
	ShippingAddress string        `gorm:"size:200" json:"shipping_address"`
	ShippingDate    time.Time     `json:"shipping_date"`
	PaymentMethod   string        `gorm:"size:100" json:"payment_method"`
	Active          bool          `json:"active"`
	Details         []OrderDetail `json:"details,omitempty"`
}

// OrderDetail is one order line. UnitPrice is the product price captured at
// order time; later product price changes never affect past orders.
type OrderDetail struct {
	BaseModel
	OrderID   uint     `gorm:"index" json:"order_id"`
	ProductID uint     `gorm:"index" json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
}
