// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidateContactNumber accepts local (0XXXXXXXXX) and international
// (+27XXXXXXXXX) South African numbers.
func ValidateContactNumber(number string) bool {
	number = strings.ReplaceAll(number, " ", "")
	phoneRegex := regexp.MustCompile(`^(\+27|0)[0-9]{9}$`)
	return phoneRegex.MatchString(number)
}

// ValidateZAIDNumber checks a 13-digit South African ID number, including
// its Luhn check digit.
func ValidateZAIDNumber(id string) bool {
	if len(id) != 13 {
		return false
	}
	sum := 0
	for i, r := range id {
		digit, err := strconv.Atoi(string(r))
		if err != nil {
			return false
		}
		// Luhn: double every second digit from the right.
		if (12-i)%2 == 1 {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}
	return sum%10 == 0
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
