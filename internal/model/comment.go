package model

import "time"

// Comment mirrors the `comments` table. Many comments belong to one blog;
// AuthorID references the user that wrote it.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	BlogID    string    `json:"blogId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
