package utils

import "testing"

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"8888-1234", "50688881234"},
		{"+506 8888 1234", "50688881234"},
		{"(506) 2653-0000", "50626530000"},
		{"", ""},
	}
	for _, c := range cases {
		if got := FormatPhoneNumber(c.in); got != c.want {
			t.Errorf("FormatPhoneNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"8888-1234", "+506 6123 4567", "2653-0000", "50671234567"}
	for _, n := range valid {
		if !ValidatePhoneNumber(n) {
			t.Errorf("expected %q to be valid", n)
		}
	}
	invalid := []string{"", "123", "9888-1234", "8888-12345"}
	for _, n := range invalid {
		if ValidatePhoneNumber(n) {
			t.Errorf("expected %q to be invalid", n)
		}
	}
}
