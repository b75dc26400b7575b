package model

import "time"

// Blog mirrors the `blogs` table. The slug is derived from the title at
// creation and never changes afterwards; UserID references the owning user.
type Blog struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"imageUrl"`
	Overview    string    `json:"overview"`
	Description string    `json:"description"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BlogWithComments is the single-blog fetch payload with its comments
// resolved.
type BlogWithComments struct {
	Blog
	Comments []Comment `json:"comments"`
}
