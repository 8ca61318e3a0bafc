package models

import "time"

// UserProfile is the {firstName, lastName, email} record kept for every
// registered account, keyed by the auth provider's uid.
type UserProfile struct {
	UID       string    `json:"uid" firestore:"-" gorm:"primaryKey;type:varchar(128)"`
	FirstName string    `json:"firstName" firestore:"firstName" gorm:"type:varchar(100)"`
	LastName  string    `json:"lastName" firestore:"lastName" gorm:"type:varchar(100)"`
	Email     string    `json:"email" firestore:"email" gorm:"type:varchar(255)"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// User is a credential record for the self-hosted auth provider.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        *string   `json:"email,omitempty" gorm:"uniqueIndex;type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	DisplayName  string    `json:"displayName" gorm:"type:varchar(200)"`
	Anonymous    bool      `json:"anonymous"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
