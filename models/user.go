package models

import "time"

// User is an end customer. The delivery address fields are overwritten on
// every online order, last order wins.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	MobileNumber string `gorm:"type:varchar(10);uniqueIndex;not null" json:"mobileNumber"`

	DeliveryAddress string  `gorm:"type:text" json:"deliveryAddress,omitempty"`
	DeliveryLat     float64 `json:"deliveryLat,omitempty"`
	DeliveryLng     float64 `json:"deliveryLng,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// AdminUser is a staff principal; dine-in orders may be placed on a
// customer's behalf by one.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	MobileNumber string    `gorm:"type:varchar(10)" json:"mobileNumber,omitempty"`
	Role         string    `gorm:"type:varchar(50);not null" json:"role"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}
