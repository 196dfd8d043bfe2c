package todo

import (
	"regexp"
	"strings"
)

// Validation predicates are pure: they inspect a primitive input and
// return false on violation. Callers trim free-text fields before
// validating and translate false into an InvalidInputError.

var (
	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	iconNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

// ValidTitle reports whether a trimmed task title is 1-200 characters.
func ValidTitle(title string) bool {
	n := len([]rune(title))
	return n >= 1 && n <= MaxTitleLen
}

// ValidDescription reports whether a description is at most 5000 characters.
func ValidDescription(desc string) bool {
	return len([]rune(desc)) <= MaxDescriptionLen
}

// ValidCategoryName reports whether a trimmed category name is 1-50 characters.
func ValidCategoryName(name string) bool {
	n := len([]rune(name))
	return n >= 1 && n <= MaxCategoryName
}

// ValidHexColor reports whether color is a #RRGGBB hex string.
func ValidHexColor(color string) bool {
	return hexColorRe.MatchString(color)
}

// ValidIconName reports whether name is a lowercase kebab-case icon
// identifier of at most 50 characters. Empty is allowed (no icon).
func ValidIconName(name string) bool {
	if name == "" {
		return true
	}
	return len(name) <= MaxIconNameLen && iconNameRe.MatchString(name)
}

// ValidCommentContent reports whether trimmed comment content is 1-2000
// characters.
func ValidCommentContent(content string) bool {
	n := len([]rune(content))
	return n >= 1 && n <= MaxCommentLen
}

// ValidMessageContent reports whether trimmed chat message content is
// 1-4000 characters.
func ValidMessageContent(content string) bool {
	n := len([]rune(content))
	return n >= 1 && n <= MaxMessageLen
}

// ValidTags reports whether tags has at most 10 entries, each a non-blank
// string of at most 30 characters.
func ValidTags(tags []string) bool {
	if len(tags) > MaxTags {
		return false
	}
	for _, tag := range tags {
		n := len([]rune(tag))
		if n < 1 || n > MaxTagLen || strings.TrimSpace(tag) == "" {
			return false
		}
	}
	return true
}

// ValidReminderHours reports whether hours is within 0-168 (one week).
func ValidReminderHours(hours int) bool {
	return hours >= 0 && hours <= MaxReminderHours
}

// ValidSortOrder reports whether order is non-negative.
func ValidSortOrder(order int) bool {
	return order >= 0
}
