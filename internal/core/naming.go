package core

import (
	"strings"

	"github.com/stoewer/go-strcase"
)

// Underscore converts a declared model name to its store name,
// e.g. "InheritingFromRedisBackedModel" -> "inheriting_from_redis_backed_model".
func Underscore(name string) string {
	return strcase.SnakeCase(name)
}

// Pluralize applies English suffix rules only. Irregular nouns are not handled.
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	default:
		return word + "s"
	}
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}
