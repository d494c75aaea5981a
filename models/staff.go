package models

import "time"

const (
	StaffActive   = "Active"
	StaffResigned = "Resigned"

	LedgerAdvance   = "advance"
	LedgerDeduction = "deduction"
)

type Staff struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	EmployeeID     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"employeeId"`
	Department     string `gorm:"type:varchar(100)" json:"department"`
	Position       string `gorm:"type:varchar(100)" json:"position"`
	Salary         int64  `gorm:"not null;default:0" json:"salary"`         // minor units
	AdvancePayment int64  `gorm:"not null;default:0" json:"advancePayment"` // minor units
	Status         string `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`

	Transactions []StaffTransaction `gorm:"foreignKey:StaffID" json:"transactions,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// StaffTransaction is one append-only ledger entry. The balance on Staff and
// the entry are written in the same transaction.
type StaffTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StaffID     uint      `gorm:"not null;index" json:"staffId"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Amount      int64     `gorm:"not null" json:"amount"` // minor units
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
