// Package naming implements the Active Record table naming convention.
package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/jinzhu/inflection"
)

// Tableize turns an underscore-joined constant path into a table name:
// every segment is underscored and lowercased, and the last one is
// pluralized.
//
//	Tableize("Blog_Post")        // "blog_posts"
//	Tableize("Admin_UserAccount") // "admin_user_accounts"
//	Tableize("Person")           // "people"
func Tableize(path string) string {
	segments := split(path)
	if len(segments) == 0 {
		return ""
	}
	last := len(segments) - 1
	segments[last] = inflection.Plural(segments[last])
	return strings.Join(segments, "_")
}

// Underscore is Tableize without pluralization, used when a project turns
// pluralize_table_names off.
func Underscore(path string) string {
	return strings.Join(split(path), "_")
}

// split underscores each "_"-separated piece of path and flattens the
// result into lowercase words.
func split(path string) []string {
	var words []string
	for _, piece := range strings.Split(path, "_") {
		if piece == "" {
			continue
		}
		for _, w := range strings.Split(inflect.Underscore(piece), "_") {
			if w != "" {
				words = append(words, strings.ToLower(w))
			}
		}
	}
	return words
}
