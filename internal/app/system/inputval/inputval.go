// Package inputval validates user-supplied form values before they reach
// a store. Validation here is syntactic only; uniqueness and existence
// checks belong to the stores.
package inputval

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// AllowedAuthMethods lists the sign-in methods an account can carry.
var AllowedAuthMethods = map[string]bool{
	"internal": true,
	"google":   true,
}

// handleRe bounds operative handles: letters, digits, underscore, dot and
// dash, 2 to 32 characters.
var handleRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{2,32}$`)

// IsValidEmail reports whether s is a plausible email address. Display
// name forms ("Name <a@b>") are rejected; only the bare address is
// accepted.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	if strings.Contains(local, "..") || strings.Contains(domain, "..") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

// IsValidAuthMethod reports whether method names a supported sign-in
// method. Matching is case-insensitive and whitespace-tolerant.
func IsValidAuthMethod(method string) bool {
	return AllowedAuthMethods[strings.ToLower(strings.TrimSpace(method))]
}

// IsValidHandle reports whether s is an acceptable operative handle.
func IsValidHandle(s string) bool {
	return handleRe.MatchString(strings.TrimSpace(s))
}

// IsValidHTTPURL reports whether s parses as an absolute http or https
// URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
