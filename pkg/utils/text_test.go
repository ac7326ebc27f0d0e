package utils

import (
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"customer_name", "customer name"},
		{"Email-Address", "email address"},
		{"  Phone  Number ", "phone number"},
		{"order.total", "order total"},
		{"", ""},
		{"___", ""},
	}
	for _, c := range cases {
		if got := NormalizeHeader(c.in); got != c.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
}
