// Package repository holds the MySQL persistence layer. Sentinel errors let
// handlers translate store outcomes into the HTTP error taxonomy without
// inspecting driver error strings.
package repository

import "errors"

// ErrEmailExists is returned when a registration hits the unique email
// constraint. Handlers translate it into a 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a referenced user record is absent.
var ErrUserNotFound = errors.New("user not found")

// ErrBlogNotFound is returned when a referenced blog record is absent.
var ErrBlogNotFound = errors.New("blog not found")

// ErrBlogRefMissing is returned when a comment references a blog or author
// that does not exist (foreign key violation).
var ErrBlogRefMissing = errors.New("referenced blog does not exist")
