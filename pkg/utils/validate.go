package utils

import "strings"

const (
	// NameMinLength and NameMaxLength bound the user's display name.
	NameMinLength = 2
	NameMaxLength = 20
)

// ValidateName checks the display name length constraint.
func ValidateName(name string) bool {
	n := len([]rune(strings.TrimSpace(name)))
	return n >= NameMinLength && n <= NameMaxLength
}

// NormalizeEmail lowercases and trims an email address. Emails are stored
// lowercase so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail does a minimal shape check; real validation happens when
// mail is actually delivered.
func ValidateEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// PasswordsMatch is the cross-field check between a password and its
// confirmation. Kept as an explicit two-argument function so the rule is
// testable on its own.
func PasswordsMatch(password, confirm string) bool {
	return password != "" && password == confirm
}
