package utils

import "strings"

func IsStringInSlice(s string, slice []string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// ContainsAnyFold reports whether s contains any of the keywords,
// case-insensitively.
func ContainsAnyFold(s string, keywords []string) (bool, string) {
	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true, keyword
		}
	}
	return false, ""
}
