package models

import "time"

// SocialLink is one entry of a profile's ordered social links.
type SocialLink struct {
	Platform string `json:"platform" firestore:"platform"`
	URL      string `json:"url" firestore:"url"`
}

// BusinessProfile is the raw profile document as stored by the backend.
// Optional fields are pointers; the view-model layer fills in defaults.
type BusinessProfile struct {
	ID           string       `json:"id" firestore:"-" gorm:"primaryKey;type:varchar(64)"`
	OwnerID      string       `json:"ownerId" firestore:"ownerId" gorm:"uniqueIndex;type:varchar(128);not null"`
	Name         string       `json:"name" firestore:"name" gorm:"type:varchar(100);not null"`
	Address      string       `json:"address" firestore:"address"`
	Hours        string       `json:"hours" firestore:"hours"`
	Contact      *string      `json:"contact,omitempty" firestore:"contact,omitempty"`
	Email        *string      `json:"email,omitempty" firestore:"email,omitempty"`
	Website      *string      `json:"website,omitempty" firestore:"website,omitempty"`
	SocialLinks  []SocialLink `json:"socialLinks,omitempty" firestore:"socialLinks,omitempty" gorm:"serializer:json"`
	ProfileType  *string      `json:"profileType,omitempty" firestore:"profileType,omitempty"`
	Category     *string      `json:"category,omitempty" firestore:"category,omitempty"`
	CoverImage   *string      `json:"coverImage,omitempty" firestore:"coverImage,omitempty"`
	ProfileImage *string      `json:"profileImage,omitempty" firestore:"profileImage,omitempty"`
	CreatedAt    time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" firestore:"updatedAt"`
}
