package models

import "time"

// Post is the central entity of Gazette. PubDate may lie in the future for
// deferred publication. Deleting the author cascades to the post; deleting
// the category or location nulls the reference instead.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	PubDate    time.Time `gorm:"not null;index" json:"pub_date"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	LocationID *uint     `gorm:"index" json:"location_id,omitempty"`
	Location   *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`

	// ImageRef is an opaque blob-storage reference; the server never
	// interprets its content.
	ImageRef    string `json:"image_ref,omitempty"`
	IsPublished bool   `gorm:"not null;default:true" json:"is_published"`

	// CommentCount is not persisted; computed at query time.
	CommentCount int `gorm:"->" json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
