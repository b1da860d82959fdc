// Package validation holds the pure field and file checks shared by every application schema.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Rule is one declared check on a field value. Check receives the normalized value, which is
// empty when the field is absent.
type Rule interface {
	Check(field, value string, now time.Time) string
}

// Field declares a named input and the rules it must satisfy.
type Field struct {
	Name  string
	Rules []Rule
}

type requiredRule struct{}

func (requiredRule) Check(field, value string, _ time.Time) string {
	if value == "" {
		return field + " is required"
	}
	return ""
}

type minLengthRule struct{ n int }

func (r minLengthRule) Check(field, value string, _ time.Time) string {
	if value != "" && len([]rune(value)) < r.n {
		return fmt.Sprintf("%s must be at least %d characters", field, r.n)
	}
	return ""
}

type patternRule struct {
	re  *regexp.Regexp
	msg string
}

func (r patternRule) Check(field, value string, _ time.Time) string {
	if value != "" && !r.re.MatchString(value) {
		return fmt.Sprintf("%s %s", field, r.msg)
	}
	return ""
}

type oneOfRule struct{ values []string }

func (r oneOfRule) Check(field, value string, _ time.Time) string {
	if value == "" {
		return ""
	}
	for _, v := range r.values {
		if v == value {
			return ""
		}
	}
	return fmt.Sprintf("%s must be one of: %s", field, strings.Join(r.values, ", "))
}

type positiveNumberRule struct{}

func (positiveNumberRule) Check(field, value string, _ time.Time) string {
	if value == "" {
		return ""
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n <= 0 {
		return field + " must be a positive number"
	}
	return ""
}

type dateRule struct{ future bool }

func (r dateRule) Check(field, value string, now time.Time) string {
	if value == "" {
		return ""
	}
	d, ok := ParseDate(value)
	if !ok {
		return field + " must be a valid date"
	}
	if r.future && !d.After(now) {
		return field + " must be a future date"
	}
	if !r.future && !d.Before(now) {
		return field + " must be a past date"
	}
	return ""
}

// Required fails when the value is missing, blank or false.
func Required() Rule { return requiredRule{} }

// MinLength fails when a present value is shorter than n characters.
func MinLength(n int) Rule { return minLengthRule{n: n} }

// Pattern fails when a present value does not match re; msg completes "<field> ...".
func Pattern(re *regexp.Regexp, msg string) Rule { return patternRule{re: re, msg: msg} }

func Email() Rule   { return Pattern(emailPattern, "must be a valid email address") }
func Phone() Rule   { return Pattern(phonePattern, "must be a 10 digit number") }
func PAN() Rule     { return Pattern(panPattern, "must be a valid PAN (e.g. ABCDE1234F)") }
func GSTIN() Rule   { return Pattern(gstinPattern, "must be a valid 15 character GSTIN") }
func IFSC() Rule    { return Pattern(ifscPattern, "must be a valid 11 character IFSC code") }
func Aadhaar() Rule { return Pattern(aadhaarPattern, "must be a 12 digit number") }

// OneOf restricts a present value to an enumeration.
func OneOf(values ...string) Rule { return oneOfRule{values: values} }

func PositiveNumber() Rule { return positiveNumberRule{} }

// FutureDate requires a parseable date strictly after now.
func FutureDate() Rule { return dateRule{future: true} }

// PastDate requires a parseable date strictly before now.
func PastDate() Rule { return dateRule{future: false} }

// ParseDate accepts a calendar date or an RFC3339 timestamp.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize turns a decoded JSON value into the string the rules inspect.
func Normalize(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		if !v {
			return ""
		}
		return "true"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ValidateField runs the field's rules in order and returns the first failure.
func ValidateField(value any, f Field, now time.Time) string {
	normalized := Normalize(value)
	for _, rule := range f.Rules {
		if msg := rule.Check(f.Name, normalized, now); msg != "" {
			return msg
		}
	}
	return ""
}

// ValidateFields collects one message per failing field, in declaration order.
func ValidateFields(fields []Field, input map[string]any, now time.Time) []string {
	var errs []string
	for _, f := range fields {
		if msg := ValidateField(input[f.Name], f, now); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}
