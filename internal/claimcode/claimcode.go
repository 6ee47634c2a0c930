// Package claimcode builds and parses box claim codes of the form {P}-{DD}{MM}{SHORT}{NN}.
package claimcode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/tresmontes-cajas/internal/constants"
)

const (
	PrefixPermanent = "I"
	PrefixFixedTerm = "F"

	// UnknownShort plant short code for slugs outside the lookup table.
	UnknownShort = "XXX"
)

// ErrInvalidCode code does not match Pattern.
var ErrInvalidCode = errors.New("claimcode: invalid code")

// Pattern claim code shape. Sequences are zero padded to two digits and grow past 99.
var Pattern = regexp.MustCompile(`^([IF])-(\d{2})(\d{2})([A-Z]{2,3})(\d{2,})$`)

var plantShortCodes = map[string]string{
	"casablanca":     "CB",
	"valparaiso_bif": "BIF",
	"valparaiso_bic": "BIC",
}

// ShortCode returns the 2-3 letter plant code used inside claim codes.
func ShortCode(plantCode string) string {
	if short, ok := plantShortCodes[plantCode]; ok {
		return short
	}
	return UnknownShort
}

// Prefix maps a contract type to the code prefix. Only "indefinido" is permanent.
func Prefix(contractType string) string {
	if contractType == constants.ContractPermanent {
		return PrefixPermanent
	}
	return PrefixFixedTerm
}

// DatePrefix returns DDMM for the given date.
func DatePrefix(date time.Time) string {
	return date.Format("0201")
}

// Code is a decoded claim code.
type Code struct {
	Prefix   string
	Day      int
	Month    int
	Short    string
	Sequence int
}

// Bucket identifies the sequence space the code belongs to.
func (c Code) Bucket() string {
	return fmt.Sprintf("%02d%02d%s", c.Day, c.Month, c.Short)
}

// String renders the code.
func (c Code) String() string {
	return fmt.Sprintf("%s-%02d%02d%s%02d", c.Prefix, c.Day, c.Month, c.Short, c.Sequence)
}

// Build renders a claim code from its parts.
func Build(contractType string, date time.Time, plantCode string, sequence int) string {
	return fmt.Sprintf("%s-%s%s%02d", Prefix(contractType), DatePrefix(date), ShortCode(plantCode), sequence)
}

// Parse decodes a claim code.
func Parse(code string) (Code, error) {
	m := Pattern.FindStringSubmatch(code)
	if m == nil {
		return Code{}, ErrInvalidCode
	}
	day, _ := strconv.Atoi(m[2])
	month, _ := strconv.Atoi(m[3])
	seq, _ := strconv.Atoi(m[5])
	return Code{
		Prefix:   m[1],
		Day:      day,
		Month:    month,
		Short:    m[4],
		Sequence: seq,
	}, nil
}

// IsValid reports whether code matches Pattern.
func IsValid(code string) bool {
	return Pattern.MatchString(code)
}

// BucketMatcher matches codes in one (date prefix, short) bucket and extracts the sequence.
// Unlike Pattern it also accepts unpadded single digit sequences.
type BucketMatcher struct {
	re *regexp.Regexp
}

// NewBucketMatcher builds a matcher for ^[IF]-{datePrefix}{short}(\d+)$.
func NewBucketMatcher(datePrefix, short string) BucketMatcher {
	return BucketMatcher{re: regexp.MustCompile(`^[IF]-` + regexp.QuoteMeta(datePrefix+short) + `(\d+)$`)}
}

// Sequence returns the sequence number carried by code, if it belongs to the bucket.
func (m BucketMatcher) Sequence(code string) (int, bool) {
	sub := m.re.FindStringSubmatch(code)
	if sub == nil {
		return 0, false
	}
	n, err := strconv.Atoi(sub[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MaxSequence scans codes and returns the highest sequence inside the bucket.
func (m BucketMatcher) MaxSequence(codes []string) int {
	max := 0
	for _, code := range codes {
		if n, ok := m.Sequence(code); ok && n > max {
			max = n
		}
	}
	return max
}
