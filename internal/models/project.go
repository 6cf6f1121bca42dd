package models

import "time"

type Project struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Rate float64 `gorm:"type:decimal(10,2);default:0" json:"rate"`

	BillingName    string `gorm:"size:100" json:"billing_name"`
	BillingAddress string `gorm:"size:255" json:"billing_address"`
	BillingEmail   string `gorm:"size:100" json:"billing_email"`

	// Entries dated on or before LockDate are immutable to
	// non-privileged users. Nil means the project is never locked.
	LockDate *time.Time `gorm:"type:date" json:"lock_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
