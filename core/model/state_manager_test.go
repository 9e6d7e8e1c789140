package model

import (
	"sync"
	"testing"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()

	if s.IsFitted() {
		t.Fatal("new StateManager should not be fitted")
	}

	err := s.RequireFitted("OLS", "Predict")
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}

	s.SetFitted(100, 2)
	if !s.IsFitted() {
		t.Fatal("expected fitted state")
	}
	if err := s.RequireFitted("OLS", "Predict"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if n, k := s.Dimensions(); n != 100 || k != 2 {
		t.Errorf("Dimensions() = (%d, %d), want (100, 2)", n, k)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset should clear fitted state")
	}
	if n, k := s.Dimensions(); n != 0 || k != 0 {
		t.Errorf("Reset should clear dimensions, got (%d, %d)", n, k)
	}
}

func TestStateManager_Concurrent(t *testing.T) {
	s := NewStateManager()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.SetFitted(n, 2)
		}(i + 3)
		go func() {
			defer wg.Done()
			_ = s.IsFitted()
			_, _ = s.Dimensions()
		}()
	}
	wg.Wait()

	if !s.IsFitted() {
		t.Error("expected fitted state after concurrent writers")
	}
}
