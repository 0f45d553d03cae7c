package domain

import (
	"errors"
	"math"
	"testing"
)

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		price string
		ok    bool
	}{
		{"10.00", true},
		{"0", true},
		{" 1.5 ", true},
		{"-0.01", false},
		{"", false},
		{"ten", false},
		{"1,50", false},
	}

	for _, tt := range tests {
		err := ValidatePrice(tt.price)
		if tt.ok && err != nil {
			t.Errorf("ValidatePrice(%q) unexpected error: %v", tt.price, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("ValidatePrice(%q) expected ErrInvalidPrice, got %v", tt.price, err)
		}
	}
}

func TestNewPageRequest(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name     string
		pageNo   *int
		pageSize *int
		want     PageRequest
	}{
		{"defaults", nil, nil, PageRequest{PageNo: 0, PageSize: DefaultPageSize}},
		{"explicit", intPtr(2), intPtr(5), PageRequest{PageNo: 2, PageSize: 5}},
		{"zero size falls back", intPtr(1), intPtr(0), PageRequest{PageNo: 1, PageSize: DefaultPageSize}},
		{"size capped", nil, intPtr(1000), PageRequest{PageNo: 0, PageSize: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageRequest(tt.pageNo, tt.pageSize)
			if got != tt.want {
				t.Fatalf("NewPageRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}

}

func TestPageRequestOffset(t *testing.T) {
	tests := []struct {
		name string
		page PageRequest
		want int
	}{
		{"first page", PageRequest{PageNo: 0, PageSize: 10}, 0},
		{"third page", PageRequest{PageNo: 3, PageSize: 10}, 30},
		{"zero size", PageRequest{PageNo: 3}, 0},
		{"last exact multiple", PageRequest{PageNo: math.MaxInt / MaxPageSize, PageSize: MaxPageSize}, math.MaxInt / MaxPageSize * MaxPageSize},
		{"overflow saturates", PageRequest{PageNo: math.MaxInt/10 + 1, PageSize: 10}, math.MaxInt},
		{"max page number", PageRequest{PageNo: math.MaxInt, PageSize: 2}, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Offset(); got != tt.want {
				t.Fatalf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}
