package models

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "5556667777", want: "+15556667777"},
		{in: "(555) 666-7777", want: "+15556667777"},
		{in: "+1 555 666 7777", want: "+15556667777"},
		{in: "1-555-666-7777", want: "+15556667777"},
		{in: "  5556667777  ", want: "+15556667777"},
		{in: "555-6677", want: ""},
		{in: "", want: ""},
		{in: "not a phone", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Dana@Example.COM", want: "dana@example.com"},
		{in: "  dana@example.com  ", want: "dana@example.com"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewCustomerDisplayNameFallback(t *testing.T) {
	c := NewCustomer("cafe", "Dana", "+15556667777", "", "starter")
	if c.Name != "Dana" {
		t.Fatalf("expected explicit name, got %q", c.Name)
	}

	c = NewCustomer("cafe", "", "+15556667777", "dana@example.com", "starter")
	if c.Name != "+15556667777" {
		t.Fatalf("expected phone fallback, got %q", c.Name)
	}

	c = NewCustomer("cafe", "", "", "dana@example.com", "starter")
	if c.Name != "dana@example.com" {
		t.Fatalf("expected email fallback, got %q", c.Name)
	}

	if c.PublicID == "" {
		t.Fatal("expected a public id to be assigned")
	}
	if c.CurrentTier != "starter" {
		t.Fatalf("expected seeded tier, got %q", c.CurrentTier)
	}
	if c.PointsBalance != 0 || c.LifetimePoints != 0 || c.StreakCount != 0 {
		t.Fatal("expected zeroed counters")
	}
}

func TestHasContact(t *testing.T) {
	if (&Customer{}).HasContact() {
		t.Fatal("empty customer should have no contact")
	}
	if !(&Customer{Phone: "+15556667777"}).HasContact() {
		t.Fatal("phone should count as contact")
	}
	if !(&Customer{Email: "dana@example.com"}).HasContact() {
		t.Fatal("email should count as contact")
	}
}
