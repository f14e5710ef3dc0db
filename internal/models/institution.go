package models

import "time"

// Account is a login identity for an institution operator. The ID is a
// uuid and doubles as the JWT subject claim.
type Account struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Institution is the issuing organization profile attached to an account.
// Its Name is the organization_name baked into every certificate
// fingerprint this institution issues.
type Institution struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Name         string    `gorm:"not null" json:"name"`
	ContactEmail string    `json:"contact_email"`
	Address      string    `json:"address"`
	PhoneNumber  string    `json:"phone_number"`
	WebsiteURL   string    `json:"website_url"`
	LogoURL      string    `json:"logo_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
