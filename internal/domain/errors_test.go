package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "order not found", err: ErrOrderNotFound, want: true},
		{name: "cart not found", err: ErrCartNotFound, want: true},
		{name: "shipping method not found", err: ErrShippingMethodNotFound, want: true},
		{name: "wrapped not found", err: fmt.Errorf("load cart: %w", ErrCartNotFound), want: true},
		{name: "other error", err: ErrOrderItemsRequired, want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateOrderError(t *testing.T) {
	err := NewCreateOrderError("address data is map[int]int but it should be either an Address or a map", nil)
	if !strings.Contains(err.Error(), "map[int]int") {
		t.Fatalf("expected reason in message, got %q", err.Error())
	}

	wrapped := NewCreateOrderError("no items", ErrOrderItemsRequired)
	if !errors.Is(wrapped, ErrOrderItemsRequired) {
		t.Fatal("expected wrapped sentinel to be matchable")
	}
}
