package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Slugify lower-cases title and replaces whitespace runs with "-"
func Slugify(title string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

// ProductSlug lower-cases title and replaces whitespace runs with "_"
func ProductSlug(title string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "_")
}

// UpdatedCategorySlug is the slug written when a category is edited
func UpdatedCategorySlug(title string, now time.Time) string {
	return Slugify(title) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}
