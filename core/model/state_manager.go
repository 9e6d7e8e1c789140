// Package model provides state management and shared interfaces for estimators.
package model

import (
	"sync"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
)

// StateManager manages the fitted state of an estimator in a thread-safe manner.
type StateManager struct {
	mu     sync.RWMutex
	fitted bool

	nSamples    int
	nRegressors int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the estimator has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the estimator as fitted on data of the given shape.
func (s *StateManager) SetFitted(nSamples, nRegressors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nSamples = nSamples
	s.nRegressors = nRegressors
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nSamples = 0
	s.nRegressors = 0
}

// Dimensions returns the number of samples and regressors seen during fitting.
func (s *StateManager) Dimensions() (nSamples, nRegressors int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nSamples, s.nRegressors
}

// RequireFitted returns a NotFittedError if the estimator has not been fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
