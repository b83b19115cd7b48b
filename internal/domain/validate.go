// Package domain contains the core business entities for the Inventario backend.
package domain

import (
	"net/mail"
	"strings"
)

// Field validation rules. Each validator is a flat list of (condition,
// message) pairs evaluated in order; every violated rule contributes its
// message, so callers get the full list in one pass.

// fieldRule pairs a predicate with the message reported when it fails.
type fieldRule struct {
	ok      func() bool
	message string
}

func runRules(rules []fieldRule) []string {
	var messages []string
	for _, r := range rules {
		if !r.ok() {
			messages = append(messages, r.message)
		}
	}
	return messages
}

// ValidateProduct checks the product field rules and returns the violated
// rule messages, or nil when the product is valid.
func ValidateProduct(p *Product) []string {
	if p == nil {
		return []string{"the product must not be null."}
	}
	return runRules([]fieldRule{
		{func() bool { return strings.TrimSpace(p.Name) != "" }, "the product name is required."},
		{func() bool { return p.Name == "" || lengthBetween(p.Name, 2, 250) }, "the product name must be between 2 and 250 characters."},
		{func() bool { return strings.TrimSpace(p.Description) != "" }, "the product description is required."},
		{func() bool { return p.Description == "" || lengthBetween(p.Description, 2, 1000) }, "the product description must be between 2 and 1000 characters."},
		{func() bool { return p.Price > 0 }, "the product price must be greater than zero."},
		{func() bool { return p.Quantity >= 0 }, "the product quantity cannot be negative."},
	})
}

// ValidateWarehouse checks the warehouse field rules.
func ValidateWarehouse(w *Warehouse) []string {
	if w == nil {
		return []string{"the warehouse must not be null."}
	}
	return runRules([]fieldRule{
		{func() bool { return strings.TrimSpace(w.Name) != "" }, "the warehouse name is required."},
	})
}

// ValidateUser checks the user field rules. The password rule applies only
// on creation; updates never carry a password.
func ValidateUser(u *User, password string, creating bool) []string {
	if u == nil {
		return []string{"the user must not be null."}
	}
	messages := runRules([]fieldRule{
		{func() bool { return strings.TrimSpace(u.Name) != "" }, "the user name is required."},
		{func() bool { return u.Name == "" || lengthBetween(u.Name, 2, 250) }, "the user name must be between 2 and 250 characters."},
		{func() bool { return strings.TrimSpace(u.Email) != "" }, "the user email is required."},
		{func() bool { return u.Email == "" || validEmail(u.Email) }, "the user email must be a valid email address."},
		{func() bool { return u.Email == "" || lengthBetween(u.Email, 5, 250) }, "the user email must be between 5 and 250 characters."},
	})
	if creating && len(password) < 6 {
		messages = append(messages, "the password is required and must contain at least 6 characters.")
	}
	return messages
}

func lengthBetween(s string, min, max int) bool {
	n := len([]rune(s))
	return n >= min && n <= max
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
