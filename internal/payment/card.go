package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"happy-tails/internal/models"
)

const (
	cardNumberDigits = 16
	maxCVVDigits     = 4
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// Card holds the card fields as typed into the payment form
type Card struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// Last4 returns the last four digits of the card number
func (c Card) Last4() string {
	d := digitsOnly(c.Number)
	if len(d) < 4 {
		return d
	}
	return d[len(d)-4:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// FormatCardNumber keeps up to 16 digits and groups them in blocks of four
func FormatCardNumber(raw string) string {
	d := truncate(digitsOnly(raw), cardNumberDigits)

	var b strings.Builder
	for i := 0; i < len(d); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d[i:min(i+4, len(d))])
	}
	return b.String()
}

// FormatExpiry coerces input to MM/YY, inserting the slash once more than
// two digits have been typed
func FormatExpiry(raw string) string {
	d := truncate(digitsOnly(raw), 4)
	if len(d) <= 2 {
		return d
	}
	return d[:2] + "/" + d[2:]
}

// FormatCVV keeps at most four digits
func FormatCVV(raw string) string {
	return truncate(digitsOnly(raw), maxCVVDigits)
}

// IsCardField reports whether a validation error field belongs to the card form
func IsCardField(field string) bool {
	switch field {
	case "card_name", "number", "expiry", "cvv":
		return true
	}
	return false
}

// ValidateCard checks the card fields in form order and returns the first
// failure. An expiry month is valid until the month is over.
func ValidateCard(card Card, now time.Time) error {
	if strings.TrimSpace(card.Name) == "" {
		return models.NewValidationError("card_name", "cardholder name is required")
	}

	number := strings.ReplaceAll(card.Number, " ", "")
	if len(number) != cardNumberDigits || digitsOnly(number) != number {
		return models.NewValidationError("number", "card number must be 16 digits")
	}

	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(card.Expiry))
	if m == nil {
		return models.NewValidationError("expiry", "expiry must be in MM/YY format")
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	expires := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if expires.Before(current) {
		return models.NewValidationError("expiry", "card has expired")
	}

	if !cvvPattern.MatchString(card.CVV) {
		return models.NewValidationError("cvv", "CVV must be 3 or 4 digits")
	}
	return nil
}
