// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-entered identifier fields before
// they are stored or compared.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Handle trims a display handle. Case is preserved; the case-insensitive
// form lives in the handle_ci field.
func Handle(s string) string {
	return strings.TrimSpace(s)
}

// AuthMethod lowercases and trims an auth method name.
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
