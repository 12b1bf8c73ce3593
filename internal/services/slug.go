package services

import (
	"fmt"
	"strings"

	"inkpress/internal/models"

	"gorm.io/gorm"
)

// Slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen. An empty or fully-punctuation title still
// yields a usable slug.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash && b.Len() > 0 {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "post"
	}
	return slug
}

// AllocateSlug returns the first unused slug for title: the base slug, then
// base-1, base-2, ... in ascending order. It must run inside the same
// transaction as the post insert; the unique index on posts.slug backstops
// two concurrent creations finding the same first free candidate, and the
// caller retries allocation when its insert loses that race.
func AllocateSlug(tx *gorm.DB, title string) (string, error) {
	base := Slugify(title)
	candidate := base
	for n := 1; ; n++ {
		var count int64
		if err := tx.Model(&models.Post{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
