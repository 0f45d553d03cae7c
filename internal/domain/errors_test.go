package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsVersionConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "version conflict error",
			err:  ErrOrderVersionConflict,
			want: true,
		},
		{
			name: "wrapped version conflict error",
			err:  errors.Join(ErrOrderVersionConflict, errors.New("additional context")),
			want: true,
		},
		{
			name: "other error",
			err:  ErrOrderNotFound,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsVersionConflict(tt.err)
			if got != tt.want {
				t.Errorf("IsVersionConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsIdempotencyConflict(t *testing.T) {
	if !IsIdempotencyConflict(fmt.Errorf("record key: %w", ErrIdempotencyKeyAlreadyExists)) {
		t.Fatal("expected wrapped duplicate to be detected")
	}
	if IsIdempotencyConflict(ErrIdempotencyKeyRequired) {
		t.Fatal("blank key is not a conflict")
	}
}

func TestErrorKind_Code(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindInvalidKey, CodeDataValidation},
		{KindDuplicateKey, CodeBusinessValidation},
		{KindOrderNotFound, CodeBusinessValidation},
		{KindProductNotFound, CodeBusinessValidation},
		{KindInvalidCount, CodeDataValidation},
		{KindInvalidPagination, CodeDataValidation},
		{KindInvalidExpiryDate, CodeDataValidation},
		{KindInvalidRequest, CodeDataValidation},
		{KindInternal, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Code(); got != tt.want {
				t.Errorf("Code() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	businessErr := NewBusinessError(KindOrderNotFound, MsgOrderNotFound)

	if got := KindOf(businessErr); got != KindOrderNotFound {
		t.Fatalf("expected OrderNotFound, got %s", got)
	}
	if got := KindOf(fmt.Errorf("wrapped: %w", businessErr)); got != KindOrderNotFound {
		t.Fatalf("expected OrderNotFound through wrapping, got %s", got)
	}
	if got := KindOf(errors.New("db down")); got != KindInternal {
		t.Fatalf("expected Internal for plain error, got %s", got)
	}
	if got := KindOf(nil); got != "" {
		t.Fatalf("expected empty kind for nil, got %s", got)
	}
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected Internal to wrap its cause")
	}
	if err.Message != MsgInternal {
		t.Fatalf("unexpected message: %s", err.Message)
	}
	if AsBusinessError(cause).Kind != KindInternal {
		t.Fatal("plain errors must become Internal")
	}
	if AsBusinessError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}
