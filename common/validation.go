package common

import (
	"net/url"
	"unicode/utf8"
)

const MaxTitleLength = 100

// Each validator returns "" when the value is valid and a user-facing message
// otherwise. They are shared by the write API and the admin pages.

func ValidateTitle(title string) string {
	n := utf8.RuneCountInString(title)
	if n < 1 || n > MaxTitleLength {
		return "Enter between 1 and 100 characters."
	}
	return ""
}

func ValidateContent(content string) string {
	if content == "" {
		return "Enter at least 1 character."
	}
	return ""
}

func ValidateCoverImageURL(raw string) string {
	if raw == "" {
		return "Enter the cover image URL."
	}
	if !isAbsoluteURL(raw) {
		return "Not a valid URL."
	}
	return ""
}

func ValidateCategoryName(name string) string {
	if name == "" {
		return "Enter the category name."
	}
	return ""
}

// hostSchemes are the schemes that cannot be parsed without a host.
var hostSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return false
	}
	if hostSchemes[u.Scheme] {
		return u.Host != ""
	}
	return true
}
