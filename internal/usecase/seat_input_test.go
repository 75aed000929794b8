package usecase

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSeatNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		maxSeat int
		want    []int
		wantErr bool
	}{
		{name: "single seat", input: "7", maxSeat: 100, want: []int{7}},
		{name: "keeps submission order", input: "3,1,2", maxSeat: 100, want: []int{3, 1, 2}},
		{name: "trims spaces and skips empty pieces", input: " 4 , ,5,", maxSeat: 100, want: []int{4, 5}},
		{name: "last seat allowed", input: "90", maxSeat: 90, want: []int{90}},
		{name: "empty input", input: "", maxSeat: 100, wantErr: true},
		{name: "only commas", input: " , ,", maxSeat: 100, wantErr: true},
		{name: "not a number", input: "1,a", maxSeat: 100, wantErr: true},
		{name: "zero", input: "0", maxSeat: 100, wantErr: true},
		{name: "negative", input: "-3", maxSeat: 100, wantErr: true},
		{name: "beyond chart", input: "91", maxSeat: 90, wantErr: true},
		{name: "duplicate", input: "2,2", maxSeat: 100, wantErr: true},
		{name: "hall without seats", input: "1", maxSeat: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeatNumbers(tt.input, tt.maxSeat)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSeat) {
					t.Fatalf("expected ErrInvalidSeat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
