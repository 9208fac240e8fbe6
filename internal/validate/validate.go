package validate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ        = regexp.MustCompile(`^[\p{L}\p{N} _'.,\-]{1,50}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_.@+-]{1,150}$`)
	rePhone    = regexp.MustCompile(`^[0-9]{10}$`)
	reDigits   = regexp.MustCompile(`^[0-9]+$`)
)

// Errors maps a request field to what is wrong with it.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when it is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a product name filter: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > 50 {
		s = string(r[:50])
	}
	return s, reQ.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reUsername.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 100 {
		return "", false
	}
	return s, true
}

// Phone accepts exactly ten digits. An empty phone clears the field.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "" || rePhone.MatchString(s)
}

func Rate(n int) bool { return n >= 0 && n <= 10 }

// Password enforces length and character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// OrderFields rejects delivery and payment types made of digits only.
// Empty values mean "leave unchanged" and pass.
func OrderFields(deliveryType, paymentType string) Errors {
	errs := Errors{}
	if reDigits.MatchString(strings.TrimSpace(deliveryType)) {
		errs["deliveryType"] = "must not be a number"
	}
	if reDigits.MatchString(strings.TrimSpace(paymentType)) {
		errs["paymentType"] = "must not be a number"
	}
	return errs
}

// PaymentForm is the card data posted to confirm an order payment.
type PaymentForm struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Month  string `json:"month"`
	Year   string `json:"year"`
	Code   string `json:"code"`
}

// Payment checks the card form syntactically. The two-digit year must fall
// within five years from now.
func Payment(f PaymentForm, now time.Time) Errors {
	errs := Errors{}
	if n := strings.TrimSpace(f.Number); len(n) != 16 || !reDigits.MatchString(n) {
		errs["number"] = "card number must be 16 digits"
	}
	if name := strings.TrimSpace(f.Name); name == "" || reDigits.MatchString(name) {
		errs["name"] = "enter the card holder name"
	}
	if m, err := strconv.Atoi(strings.TrimSpace(f.Month)); err != nil || len(strings.TrimSpace(f.Month)) != 2 || m < 1 || m > 12 {
		errs["month"] = "month must be 01-12"
	}
	y := strings.TrimSpace(f.Year)
	yy, err := strconv.Atoi(y)
	lo, hi := now.Year()-2000, now.Year()-1995
	if err != nil || len(y) != 2 || yy < lo || yy > hi {
		errs["year"] = "card has expired or year is invalid"
	}
	if c := strings.TrimSpace(f.Code); len(c) != 3 || !reDigits.MatchString(c) {
		errs["code"] = "code must be 3 digits"
	}
	return errs
}
