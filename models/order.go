package models

import (
	"time"
)

// Order covers dine-in, parcel and online delivery orders. The public
// OrderID (RS-xxxxxxx) is minted at creation and never changes; the unique
// index on it is the authoritative duplicate guard.
type Order struct {
	ID       uint          `gorm:"primaryKey" json:"id"`
	OrderID  string        `gorm:"type:varchar(12);uniqueIndex;not null" json:"orderId"`
	Kind     OrderKind     `gorm:"type:varchar(10);not null" json:"orderType"`
	TableID  *uint         `gorm:"index" json:"tableId,omitempty"`
	Table    *Table        `gorm:"foreignKey:TableID" json:"table,omitempty"`
	UserType PrincipalKind `gorm:"type:varchar(20);not null" json:"userType"`
	UserID   uint          `gorm:"not null;index" json:"userId"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(10)" json:"paymentMethod,omitempty"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"paymentStatus"`
	Status        OrderStatus   `gorm:"type:varchar(12);not null;default:'pending'" json:"status"`

	// TotalAmount is in minor units (paise). It is always recomputed from
	// the cart, never taken from a client.
	TotalAmount int64 `gorm:"not null;default:0" json:"totalAmount"`

	// Online delivery only.
	DeliveryAddress string  `gorm:"type:text" json:"deliveryAddress,omitempty"`
	DeliveryLat     float64 `json:"deliveryLat,omitempty"`
	DeliveryLng     float64 `json:"deliveryLng,omitempty"`

	CartItems []CartItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"cartItems"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// SetDeliveryAddress records where an online order ships to.
func (o *Order) SetDeliveryAddress(address string, lat, lng float64) {
	o.DeliveryAddress = address
	o.DeliveryLat = lat
	o.DeliveryLng = lng
}

// CartItem is a catalog snapshot taken at order time. Price and offer are
// frozen here so later menu edits never change a historical order.
type CartItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"-"`

	ItemID   uint   `gorm:"not null" json:"itemId"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Price    int64  `gorm:"not null" json:"price"` // minor units
	Offer    int    `gorm:"not null;default:0" json:"offer"`
	Quantity int    `gorm:"not null" json:"quantity"`
	Variant  string `gorm:"type:varchar(100)" json:"variant,omitempty"`
	IsVeg    bool   `json:"isVeg"`
	Image    string `gorm:"type:text" json:"image,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}
