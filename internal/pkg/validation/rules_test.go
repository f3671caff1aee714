package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type signup struct {
	StudentID string `validate:"omitempty,studentid"`
	Password  string `validate:"required,password"`
	FirstName string `validate:"required,personname"`
}

func TestRules(t *testing.T) {
	v := validator.New()
	Register(v)

	tests := []struct {
		name    string
		in      signup
		wantErr bool
	}{
		{"valid", signup{StudentID: "S-1001", Password: "longenough", FirstName: "Ada"}, false},
		{"no student id", signup{Password: "longenough", FirstName: "Ada"}, false},
		{"short password", signup{Password: "short", FirstName: "Ada"}, true},
		{"bad student id", signup{StudentID: "a b", Password: "longenough", FirstName: "Ada"}, true},
		{"blank name", signup{Password: "longenough", FirstName: "   "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
