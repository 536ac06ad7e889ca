package models

import "time"

// Upload records an image pushed to Cloudinary (PostgreSQL). The hash is the
// caller-facing delete handle; the public ID is what Cloudinary needs to
// destroy the asset.
type Upload struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Hash      string    `json:"hash" gorm:"size:64;uniqueIndex"`
	PublicID  string    `json:"-" gorm:"size:255"`
	URL       string    `json:"url"`
	UserID    string    `json:"user_id" gorm:"size:24;index"`
	CreatedAt time.Time `json:"created_at"`
}
