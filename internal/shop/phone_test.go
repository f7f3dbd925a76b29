package shop

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	cases := map[string]string{
		"09123456789":       "+989123456789",
		"۰۹۱۲۳۴۵۶۷۸۹":       "+989123456789",
		"٠٩١٢٣٤٥٦٧٨٩":       "+989123456789",
		"+98 912 345 6789":  "+989123456789",
		"00989123456789":    "+989123456789",
		"989123456789":      "+989123456789",
		"9123456789":        "+989123456789",
		"+44 20 7946 0958":  "+442079460958",
		"0044 20 7946 0958": "+442079460958",
	}
	for in, want := range cases {
		if got := NormalizePhoneNumber(in); got != want {
			t.Errorf("NormalizePhoneNumber(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"09123456789", "۰۹۱۲۳۴۵۶۷۸۹", "+442079460958", "021 8888 7777"}
	for _, p := range valid {
		if !IsValidPhoneNumber(p) {
			t.Errorf("%q should be valid", p)
		}
	}

	invalid := []string{"", "12345", "1234567890", "+98 0912 345 678", "0000000000", "+1234567890123456"}
	for _, p := range invalid {
		if IsValidPhoneNumber(p) {
			t.Errorf("%q should be invalid", p)
		}
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	if got := FormatPhoneNumber("09123456789"); got != "+98 912 345 6789" {
		t.Errorf("got %q", got)
	}
	if got := FormatPhoneNumber("+442079460958"); got != "+442079460958" {
		t.Errorf("foreign numbers must pass through, got %q", got)
	}
}
