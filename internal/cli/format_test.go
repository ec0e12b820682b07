package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/evcraddock/rentapp/internal/catalog"
	"github.com/evcraddock/rentapp/internal/property"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		expected string
	}{
		{"zero", 0, "0"},
		{"small", 999, "999"},
		{"thousands", 250000, "250,000"},
		{"millions", 1000000, "1,000,000"},
		{"negative", -1500, "-1,500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatPrice(tt.amount)
			if result != tt.expected {
				t.Errorf("formatPrice(%d) = %q, want %q", tt.amount, result, tt.expected)
			}
		})
	}
}

func TestFormatLocation(t *testing.T) {
	got := formatLocation(property.Location{City: "Almaty", Address: "Abay 10"})
	if got != "Abay 10, Almaty" {
		t.Errorf("formatLocation = %q", got)
	}
	if got := formatLocation(property.Location{}); got != "" {
		t.Errorf("empty location = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long title indeed", 10); got != "a very ..." {
		t.Errorf("truncate long = %q", got)
	}
}

func TestPrintPropertyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := printPropertyTable(&buf, nil); err != nil {
		t.Fatalf("print empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No properties found.") {
		t.Errorf("empty output = %q", buf.String())
	}

	price := int64(500000)
	buf.Reset()
	props := []catalog.DisplayProperty{{
		ID:        "p1",
		Title:     "Loft",
		Price:     &price,
		Location:  property.Location{City: "Almaty"},
		Status:    property.StatusAvailable,
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}}
	if err := printPropertyTable(&buf, props); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"p1", "Loft", "500,000", "Almaty", "available", "Total: 1 properties"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
