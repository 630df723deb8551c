// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxNameLen bounds the submitter alias.
	MaxNameLen = 100
	// MaxMessageLen bounds the free-text message.
	MaxMessageLen = 2000
	// MaxReplyLen bounds the admin reply body.
	MaxReplyLen = 5000
)

// emailRegex requires local@domain with a dot in the domain part.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Sanitize trims surrounding whitespace and strips the HTML-significant
// characters '<' and '>' from user-supplied text.
func Sanitize(input string) string {
	trimmed := strings.TrimSpace(input)
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, trimmed)
}

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// ValidateName checks the submitter alias length after sanitizing.
func ValidateName(name string) error {
	if len(name) < 1 || len(name) > MaxNameLen {
		return fmt.Errorf("name must be between 1 and %d characters", MaxNameLen)
	}
	return nil
}

// ValidateMessage checks the request message length after sanitizing.
func ValidateMessage(message string) error {
	if len(message) < 1 || len(message) > MaxMessageLen {
		return fmt.Errorf("message must be between 1 and %d characters", MaxMessageLen)
	}
	return nil
}

// ValidateReply checks the admin reply length after sanitizing.
func ValidateReply(reply string) error {
	if len(reply) < 1 || len(reply) > MaxReplyLen {
		return fmt.Errorf("reply message must be between 1 and %d characters", MaxReplyLen)
	}
	return nil
}

// ValidateUsername checks if the admin username meets requirements.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 50 {
		return fmt.Errorf("username must not exceed 50 characters")
	}
	if !regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}
