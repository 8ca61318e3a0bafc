package models

import "time"

// Product is a raw product document. StoreID is the owning profile's ID.
type Product struct {
	ID        string    `json:"id" firestore:"-" gorm:"primaryKey;type:varchar(64)"`
	StoreID   string    `json:"storeId" firestore:"storeId" gorm:"index;type:varchar(64);not null"`
	Name      string    `json:"name" firestore:"name" gorm:"type:varchar(100);not null"`
	Price     float64   `json:"price" firestore:"price"`
	InStock   *bool     `json:"inStock,omitempty" firestore:"inStock,omitempty"`
	ImageURL  *string   `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}
