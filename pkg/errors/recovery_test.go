package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestRecover_WithPanic tests the Recover function when a panic occurs
func TestRecover_WithPanic(t *testing.T) {
	fit := func() (err error) {
		defer Recover(&err, "ols.Fit")
		panic("mat: dimension mismatch")
	}

	err := fit()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "ols.Fit" {
		t.Errorf("Expected operation 'ols.Fit', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
	if got, want := panicErr.Error(), "panic in ols.Fit: mat: dimension mismatch"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// 回復したパニックは計算エラーとして扱われる
	if !Is(err, ErrComputation) {
		t.Error("Recovered panic should match ErrComputation")
	}
}

// TestRecover_WithoutPanic tests the Recover function when no panic occurs
func TestRecover_WithoutPanic(t *testing.T) {
	fit := func() (err error) {
		defer Recover(&err, "ols.Fit")
		return nil
	}

	if err := fit(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

// TestRecover_WithExistingError tests Recover when function has existing error and panic occurs
func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	fit := func() (err error) {
		defer Recover(&err, "ols.Fit")
		err = originalErr
		panic("panic after error")
	}

	err := fit()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "panic in ols.Fit") {
		t.Errorf("Error message should contain panic info: %s", err)
	}
	if !errors.Is(err, originalErr) {
		t.Error("Should be able to identify original error with errors.Is")
	}
}

func TestPanicError_UnwrapErrorValue(t *testing.T) {
	cause := fmt.Errorf("mat: index out of range")
	panicErr := NewPanicError("simulation.Generate", cause)

	if !errors.Is(panicErr, cause) {
		t.Error("PanicError should unwrap to an error panic value")
	}

	if NewPanicError("simulation.Generate", 42).Unwrap() != nil {
		t.Error("non-error panic values should unwrap to nil")
	}

	if !strings.Contains(panicErr.String(), "Stack trace:") {
		t.Error("String() should include stack trace information")
	}
}

func TestSafeExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		if err := SafeExecute("op", func() error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("function error", func(t *testing.T) {
		want := fmt.Errorf("function error")
		if err := SafeExecute("op", func() error { return want }); err != want {
			t.Fatalf("expected original error, got: %v", err)
		}
	})

	t.Run("panic", func(t *testing.T) {
		err := SafeExecute("op", func() error { panic("boom") })
		var panicErr *PanicError
		if !errors.As(err, &panicErr) {
			t.Fatalf("Expected PanicError, got %T", err)
		}
		if panicErr.PanicValue != "boom" {
			t.Errorf("unexpected panic value %v", panicErr.PanicValue)
		}
	})
}

// BenchmarkRecover_NoPanic measures the overhead of Recover when no panic occurs
func BenchmarkRecover_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		func() (err error) {
			defer Recover(&err, "BenchmarkOp")
			return nil
		}()
	}
}
