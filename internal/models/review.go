package models

import "time"

// Review is a raw review document. There is at most one per (StoreID, AuthorID);
// editing a review overwrites that document.
type Review struct {
	ID         string    `json:"id" firestore:"-" gorm:"primaryKey;type:varchar(200)"`
	StoreID    string    `json:"storeId" firestore:"storeId" gorm:"type:varchar(64);not null;uniqueIndex:idx_review_store_author"`
	AuthorID   string    `json:"authorId" firestore:"authorId" gorm:"type:varchar(128);not null;uniqueIndex:idx_review_store_author"`
	AuthorName *string   `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Rating     int       `json:"rating" firestore:"rating"`
	Comment    *string   `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt" gorm:"index"`
}

// ReviewID is the document id for an author's review of a store.
func ReviewID(storeID, authorID string) string {
	return storeID + "_" + authorID
}
