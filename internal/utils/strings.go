package utils

import "strings"

// TitleCase lower-cases the word and upper-cases the first letter only:
// "aLICE" -> "Alice". Names are stored in this form.
func TitleCase(s string) string {
	w := strings.ToLower(strings.TrimSpace(s))
	if w == "" {
		return ""
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
