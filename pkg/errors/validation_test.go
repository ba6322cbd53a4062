package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateElementID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "device-1", false},
		{"valid uuid", "f3b1c2d4-0000-4000-8000-000000000000", false},
		{"valid with underscore", "user_position", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"control char", "dev\x01ice", true},
		{"newline", "dev\nice", true},
		{"null byte", "dev\x00ice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRadius(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"positive", 3.5, false},
		{"zero", 0, false},
		{"negative", -0.1, true},
		{"nan", math.NaN(), true},
		{"infinite", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRadius(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRadius(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabelSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"valid", 2.0, 0.8, false},
		{"zero width", 0, 0.8, true},
		{"zero height", 2.0, 0, true},
		{"negative", -2.0, 0.8, true},
		{"nan width", math.NaN(), 0.8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabelSize(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabelSize(%v, %v) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(10, 10); err != nil {
		t.Errorf("ValidateRange(10, 10) = %v, want nil", err)
	}
	if err := ValidateRange(0, 10); err == nil {
		t.Error("ValidateRange(0, 10) = nil, want error")
	}
	if err := ValidateRange(10, math.Inf(1)); err == nil {
		t.Error("ValidateRange(10, +Inf) = nil, want error")
	}
}
