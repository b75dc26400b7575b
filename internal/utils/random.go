package utils

import (
	"math/rand"
	"strings"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a random alphanumeric string of the given length.
// Account verification and password recovery codes use length 16; slug
// suffixes use length 6. Collision-improbability at these lengths is the
// only uniqueness guarantee.
func GenerateCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumeric[rand.Intn(len(alphanumeric))]
	}
	return string(b)
}

// Slugify derives a URL-safe slug from a blog title: lower-cased, every run
// of non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens stripped, and a random 6-character suffix appended so two
// blogs with the same title still get distinct slugs.
func Slugify(title string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return strings.ToLower(GenerateCode(6))
	}
	return slug + "-" + strings.ToLower(GenerateCode(6))
}
