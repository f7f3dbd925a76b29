package shop

import (
	"strings"
	"unicode"
)

// NormalizePhoneNumber folds Persian and Arabic-Indic digits, strips
// punctuation and rewrites Iranian numbers to +98 form.
func NormalizePhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case unicode.IsDigit(r):
			return r
		}
		return -1
	}, phone)

	switch {
	case strings.HasPrefix(cleaned, "0098") && len(cleaned) == 14:
		return "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "98") && len(cleaned) == 12:
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "09") && len(cleaned) == 11:
		return "+98" + cleaned[1:]
	case strings.HasPrefix(cleaned, "9") && len(cleaned) == 10:
		return "+98" + cleaned
	}

	if strings.HasPrefix(phone, "+") || strings.HasPrefix(cleaned, "00") {
		return "+" + strings.TrimPrefix(cleaned, "00")
	}
	return cleaned
}

var fakeNumbers = map[string]bool{
	"0000000000": true,
	"1111111111": true,
	"1234567890": true,
	"9999999999": true,
	"0123456789": true,
}

// IsValidPhoneNumber accepts normalised numbers of 10 to 15 digits.
func IsValidPhoneNumber(phone string) bool {
	normalized := NormalizePhoneNumber(phone)
	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) < 10 || len(digits) > 15 {
		return false
	}
	if fakeNumbers[digits] || fakeNumbers[digits[len(digits)-10:]] {
		return false
	}
	if strings.HasPrefix(normalized, "+98") && len(digits) == 12 {
		// area codes and mobile prefixes never start with 0
		return digits[2] != '0'
	}
	return true
}

// FormatPhoneNumber renders Iranian mobiles as +98 912 345 6789.
func FormatPhoneNumber(phone string) string {
	phone = NormalizePhoneNumber(phone)
	if strings.HasPrefix(phone, "+989") && len(phone) == 13 {
		return phone[:3] + " " + phone[3:6] + " " + phone[6:9] + " " + phone[9:]
	}
	return phone
}
