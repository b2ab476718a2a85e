// Package validation holds the pure registration input checks. None of them
// touch storage; each returns a boolean the caller turns into a response.
package validation

import (
	"regexp"
	"unicode/utf8"
)

// MaxFieldLength is the longest accepted username, email or password.
const MaxFieldLength = 255

var emailPattern = regexp.MustCompile(`^(?:\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,7}\b)$`)

// Registration is the set of fields a signup supplies.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidLengths reports whether every field is present and at most
// MaxFieldLength characters long.
func ValidLengths(r Registration) bool {
	for _, field := range []string{r.Username, r.Email, r.Password, r.ConfirmPassword} {
		if field == "" || utf8.RuneCountInString(field) > MaxFieldLength {
			return false
		}
	}
	return true
}

// ValidEmail is a shape check only: local-part@domain.tld with a 2-7 letter tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// PasswordsMatch reports exact equality.
func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}

// Valid runs every registration rule.
func Valid(r Registration) bool {
	return ValidLengths(r) && ValidEmail(r.Email) && PasswordsMatch(r.Password, r.ConfirmPassword)
}
