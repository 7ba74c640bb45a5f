package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Valex-Destigos/TooDoo/shared/failure"
	"github.com/Valex-Destigos/TooDoo/shared/validator"
)

// Test struct mirroring the shape of incoming request bodies
type todoPayload struct {
	Title  string `validate:"required,max=255" json:"title"`
	Repeat string `validate:"required,oneof=Never Daily Weekly Monthly Yearly" json:"repeat"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *todoPayload
		expectError bool
	}{
		{
			name: "valid struct",
			data: &todoPayload{
				Title:  "buy milk",
				Repeat: "Never",
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &todoPayload{
				Repeat: "Daily",
			},
			expectError: true,
		},
		{
			name: "invalid repeat value",
			data: &todoPayload{
				Title:  "buy milk",
				Repeat: "Hourly",
			},
			expectError: true,
		},
		{
			name: "lowercase repeat value rejected",
			data: &todoPayload{
				Title:  "buy milk",
				Repeat: "daily",
			},
			expectError: true,
		},
		{
			name: "title too long",
			data: &todoPayload{
				Title:  strings.Repeat("a", 256),
				Repeat: "Weekly",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{
			name:        "valid required string",
			field:       "test",
			tag:         "required",
			expectError: false,
		},
		{
			name:        "empty required string",
			field:       "",
			tag:         "required",
			expectError: true,
		},
		{
			name:        "valid oneof",
			field:       "Monthly",
			tag:         "oneof=Never Daily Weekly Monthly Yearly",
			expectError: false,
		},
		{
			name:        "invalid oneof",
			field:       "Fortnightly",
			tag:         "oneof=Never Daily Weekly Monthly Yearly",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"title":"buy milk","repeat":"Never"}`,
			expectError: false,
		},
		{
			name:        "invalid repeat",
			jsonBody:    `{"title":"buy milk","repeat":"Sometimes"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"title":"buy milk","repeat":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := todoPayload{}
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}

			if tt.expectError && err != nil {
				if failure.GetCode(err) != http.StatusBadRequest {
					t.Errorf("expected bad request code, got %d", failure.GetCode(err))
				}
			}
		})
	}
}
