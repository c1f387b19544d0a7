//go:build !faiss || !cgo
// +build !faiss !cgo

package vector

import (
	"context"
	"errors"
)

var errFAISSUnavailable = errors.New("FAISS not available: build with -tags=faiss and install FAISS library")

// FAISSIndex is a stub that returns an error when FAISS is not available.
// Build with -tags=faiss to enable FAISS support.
type FAISSIndex struct{}

// NewFAISSIndex returns an error because FAISS is not available.
func NewFAISSIndex(dimensions int) (*FAISSIndex, error) {
	return nil, errFAISSUnavailable
}

// Add is not implemented without FAISS.
func (f *FAISSIndex) Add(ctx context.Context, ids []int64, vectors [][]float32) error {
	return errFAISSUnavailable
}

// Search is not implemented without FAISS.
func (f *FAISSIndex) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	return nil, errFAISSUnavailable
}

// Reset is not implemented without FAISS.
func (f *FAISSIndex) Reset() error {
	return errFAISSUnavailable
}

// Save is not implemented without FAISS.
func (f *FAISSIndex) Save(path string) error {
	return errFAISSUnavailable
}

// Load is not implemented without FAISS.
func (f *FAISSIndex) Load(path string) error {
	return errFAISSUnavailable
}

// Size returns 0 without FAISS.
func (f *FAISSIndex) Size() int {
	return 0
}

// Close is a no-op without FAISS.
func (f *FAISSIndex) Close() error {
	return nil
}

// Type returns the index type identifier.
func (f *FAISSIndex) Type() string {
	return string(IndexTypeFAISS)
}
