package validate

import (
	"testing"
)

func TestAmountRule(t *testing.T) {
	v := New()

	type payload struct {
		Price string `validate:"required,amount"`
	}

	tests := []struct {
		name  string
		price string
		valid bool
	}{
		{"whole amount", "100", true},
		{"one fraction digit", "100.5", true},
		{"two fraction digits", "100.50", true},
		{"small amount", "0.01", true},
		{"zero", "0", false},
		{"zero with fraction", "0.00", false},
		{"three fraction digits", "100.505", false},
		{"negative", "-1.00", false},
		{"comma separator", "1,50", false},
		{"trailing dot", "100.", false},
		{"not a number", "abc", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(payload{Price: tt.price})
			if tt.valid && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.price, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to be invalid", tt.price)
			}
		})
	}
}

func TestStandardRulesStillRegistered(t *testing.T) {
	v := New()

	type payload struct {
		Email string `validate:"required,email"`
	}

	if err := v.Struct(payload{Email: "buyer@example.com"}); err != nil {
		t.Errorf("expected valid email to pass, got %v", err)
	}
	if err := v.Struct(payload{Email: "not-an-email"}); err == nil {
		t.Error("expected invalid email to fail")
	}
}
