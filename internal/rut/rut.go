// Package rut validates and formats Chilean national identification numbers (RUT)
// using the Módulo 11 check digit.
package rut

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidFormat body is not all digits or the check character is not a digit or K.
	ErrInvalidFormat = errors.New("rut: invalid format")
	// ErrInvalidLength normalized length outside [MinLength, MaxLength].
	ErrInvalidLength = errors.New("rut: invalid length")
	// ErrChecksumMismatch check character does not match the computed one.
	ErrChecksumMismatch = errors.New("rut: checksum mismatch")
)

const (
	MinLength = 8
	MaxLength = 9
)

// Normalize strips dots, dashes and spaces and upper-cases the result.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case '.', '-', ' ', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// CheckDigit computes the Módulo 11 check character for a numeric body.
func CheckDigit(body string) (byte, error) {
	if body == "" || !allDigits(body) {
		return 0, ErrInvalidFormat
	}
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch expected := 11 - sum%11; expected {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + expected), nil
	}
}

// Validate checks format, length and check digit of a free-form RUT.
func Validate(raw string) error {
	_, err := parse(raw)
	return err
}

// IsValid reports whether raw is a valid RUT.
func IsValid(raw string) bool {
	return Validate(raw) == nil
}

// Format validates raw and returns the canonical NN.NNN.NNN-D form.
func Format(raw string) (string, error) {
	normalized, err := parse(raw)
	if err != nil {
		return "", err
	}
	body := normalized[:len(normalized)-1]
	check := normalized[len(normalized)-1:]

	var b strings.Builder
	lead := len(body) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(body[:lead])
	for i := lead; i < len(body); i += 3 {
		b.WriteByte('.')
		b.WriteString(body[i : i+3])
	}
	b.WriteByte('-')
	b.WriteString(check)
	return b.String(), nil
}

// Canonical returns the canonical form when raw is valid, otherwise the trimmed input.
func Canonical(raw string) string {
	formatted, err := Format(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return formatted
}

func parse(raw string) (string, error) {
	normalized := Normalize(raw)
	if len(normalized) < 2 {
		return "", ErrInvalidFormat
	}
	body := normalized[:len(normalized)-1]
	check := normalized[len(normalized)-1]
	if !allDigits(body) || !(isDigit(check) || check == 'K') {
		return "", ErrInvalidFormat
	}
	if len(normalized) < MinLength || len(normalized) > MaxLength {
		return "", ErrInvalidLength
	}
	expected, err := CheckDigit(body)
	if err != nil {
		return "", err
	}
	if expected != check {
		return "", ErrChecksumMismatch
	}
	return normalized, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
