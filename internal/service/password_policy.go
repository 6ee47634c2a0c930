package service

import (
	"strings"
	"unicode"

	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/rut"
)

// minIdentifierLength shorter usernames are not checked against the password.
const minIdentifierLength = 4

// passwordPolicyError carries the i18n key of the violated rule; it matches ErrWeakPassword.
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string { return e.key }

func (e passwordPolicyError) Is(target error) bool { return target == ErrWeakPassword }

func (e passwordPolicyError) Key() string { return e.key }

func (e passwordPolicyError) Args() []interface{} { return e.args }

// passwordOwner is the account a password is being chosen for.
type passwordOwner struct {
	Username string
	RUT      string
}

func ownerOf(user *models.User) passwordOwner {
	if user == nil {
		return passwordOwner{}
	}
	return passwordOwner{Username: user.Username, RUT: user.RUTValue()}
}

// passwordTraits character classes present in a password.
type passwordTraits struct {
	upper, lower, number, special bool
	digits                        string
}

func traitsOf(password string) passwordTraits {
	var t passwordTraits
	var digits strings.Builder
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			t.upper = true
		case unicode.IsLower(r):
			t.lower = true
		case unicode.IsDigit(r):
			t.number = true
			digits.WriteRune(r)
		default:
			t.special = true
		}
	}
	t.digits = digits.String()
	return t
}

// validatePassword applies the configured policy, then rejects passwords built from
// the owner's username or RUT body. The identity rules apply even with an empty policy.
func validatePassword(policy config.PasswordPolicyConfig, password string, owner passwordOwner) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}

	traits := traitsOf(password)
	classes := []struct {
		required bool
		present  bool
		key      string
	}{
		{policy.RequireUpper, traits.upper, "error.password_require_upper"},
		{policy.RequireLower, traits.lower, "error.password_require_lower"},
		{policy.RequireNumber, traits.number, "error.password_require_number"},
		{policy.RequireSpecial, traits.special, "error.password_require_special"},
	}
	for _, class := range classes {
		if class.required && !class.present {
			return passwordPolicyError{key: class.key}
		}
	}

	if body := rutBody(owner.RUT); body != "" && strings.Contains(traits.digits, body) {
		return passwordPolicyError{key: "error.password_contains_rut"}
	}
	username := strings.ToLower(strings.TrimSpace(owner.Username))
	if len([]rune(username)) >= minIdentifierLength && strings.Contains(strings.ToLower(password), username) {
		return passwordPolicyError{key: "error.password_contains_username"}
	}
	return nil
}

// rutBody returns the numeric part of a RUT without its check digit.
func rutBody(raw string) string {
	normalized := rut.Normalize(raw)
	if len(normalized) < rut.MinLength {
		return ""
	}
	return normalized[:len(normalized)-1]
}
