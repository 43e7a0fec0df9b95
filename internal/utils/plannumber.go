package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// GeneratePlanNumber generates a human-readable plan number: the prefix, the
// creation date, and a block of random digits closed with a Luhn check digit.
// Example: INP-20250131-4837201942
func GeneratePlanNumber(prefix string, randomDigits int) (string, error) {
	if randomDigits < 4 || randomDigits > 18 {
		return "", fmt.Errorf("invalid random digit count: %d", randomDigits)
	}

	// Generate random digits
	raw := make([]byte, randomDigits-1)
	_, err := rand.Read(raw)
	if err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	var builder strings.Builder
	for _, b := range raw {
		digit := b%10 + '0' // Convert to ASCII digit
		builder.WriteByte(digit)
	}
	digits := builder.String()
	digits += string(luhnCheckDigit(digits) + '0')

	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), digits), nil
}

// luhnCheckDigit computes the Luhn check digit for a string of ASCII digits.
func luhnCheckDigit(digits string) byte {
	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		double = !double
		sum += d
	}
	return byte((10 - sum%10) % 10)
}

// ValidPlanNumberDigits verifies the Luhn check digit of the numeric block
// of a plan number.
func ValidPlanNumberDigits(digits string) bool {
	if len(digits) < 2 {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	body, check := digits[:len(digits)-1], digits[len(digits)-1]
	return luhnCheckDigit(body) == check-'0'
}
