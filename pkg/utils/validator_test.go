package utils

import "testing"

type seatForm struct {
	SeatNumbers string `json:"seat_numbers" validate:"required,seatlist"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      seatForm
		wantFields []string
	}{
		{name: "valid list", input: seatForm{SeatNumbers: "1, 2,3"}},
		{name: "missing seats", input: seatForm{}, wantFields: []string{"seat_numbers"}},
		{name: "letters in list", input: seatForm{SeatNumbers: "1,b"}, wantFields: []string{"seat_numbers"}},
		{name: "bad email", input: seatForm{SeatNumbers: "4", Email: "nope"}, wantFields: []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(&tt.input)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("expected %d errors, got %v", len(tt.wantFields), errs)
			}
			for _, field := range tt.wantFields {
				if _, ok := errs[field]; !ok {
					t.Fatalf("expected error on %s, got %v", field, errs)
				}
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	got := FormatValidationErrors(map[string]string{
		"username": "This field is required",
		"email":    "Invalid email format",
	})
	want := "email: Invalid email format; username: This field is required"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
