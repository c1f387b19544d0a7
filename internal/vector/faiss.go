//go:build faiss && cgo
// +build faiss,cgo

package vector

/*
#cgo CFLAGS: -I/opt/homebrew/include -I/usr/local/include
#cgo LDFLAGS: -L/opt/homebrew/lib -L/usr/local/lib -lfaiss_c

#include <stdlib.h>
#include <faiss/c_api/Index_c.h>
#include <faiss/c_api/IndexFlat_c.h>
#include <faiss/c_api/index_io_c.h>
#include <faiss/c_api/error_c.h>
*/
import "C"

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unsafe"
)

// FAISSIndex is a vector index backed by a FAISS IndexFlatIP (exact inner product).
// FAISS labels are sequential; labels maps each label to the caller's ID.
type FAISSIndex struct {
	index      *C.FaissIndex
	dimensions int
	labels     []int64
	mu         sync.RWMutex
}

// NewFAISSIndex creates a FAISS index with the given dimension using inner product.
func NewFAISSIndex(dimensions int) (*FAISSIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}

	var flat *C.FaissIndexFlatIP
	ret := C.faiss_IndexFlatIP_new_with(&flat, C.idx_t(dimensions))
	if ret != 0 {
		return nil, fmt.Errorf("failed to create FAISS index: %s", faissLastError())
	}

	return &FAISSIndex{
		index:      (*C.FaissIndex)(unsafe.Pointer(flat)),
		dimensions: dimensions,
	}, nil
}

// faissLastError returns the last FAISS error message.
func faissLastError() string {
	cErr := C.faiss_get_last_error()
	if cErr == nil {
		return "unknown error"
	}
	return C.GoString(cErr)
}

// Add appends vectors with the given IDs.
func (f *FAISSIndex) Add(ctx context.Context, ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	if len(ids) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(vectors)
	flat := make([]float32, n*f.dimensions)
	for i, vec := range vectors {
		if len(vec) != f.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vec), f.dimensions)
		}
		copy(flat[i*f.dimensions:(i+1)*f.dimensions], vec)
	}

	ret := C.faiss_Index_add(f.index, C.idx_t(n), (*C.float)(unsafe.Pointer(&flat[0])))
	if ret != 0 {
		return fmt.Errorf("failed to add vectors to FAISS index: %s", faissLastError())
	}
	f.labels = append(f.labels, ids...)
	return nil
}

// Search returns the top-k vectors by inner product. FAISS returns results best-first.
func (f *FAISSIndex) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	if len(query) != f.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), f.dimensions)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if k <= 0 {
		return nil, nil
	}
	ntotal := int(C.faiss_Index_ntotal(f.index))
	if ntotal == 0 {
		return nil, nil
	}
	if k > ntotal {
		k = ntotal
	}

	distances := make([]float32, k)
	labels := make([]int64, k)
	ret := C.faiss_Index_search(
		f.index,
		1,
		(*C.float)(unsafe.Pointer(&query[0])),
		C.idx_t(k),
		(*C.float)(unsafe.Pointer(&distances[0])),
		(*C.idx_t)(unsafe.Pointer(&labels[0])),
	)
	if ret != 0 {
		return nil, fmt.Errorf("FAISS search failed: %s", faissLastError())
	}

	results := make([]*VectorResult, 0, k)
	for i := 0; i < k; i++ {
		label := labels[i]
		if label < 0 || int(label) >= len(f.labels) {
			continue
		}
		results = append(results, &VectorResult{ID: f.labels[label], Score: float64(distances[i])})
	}
	return results, nil
}

// Reset removes all vectors.
func (f *FAISSIndex) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ret := C.faiss_Index_reset(f.index); ret != 0 {
		return fmt.Errorf("failed to reset FAISS index: %s", faissLastError())
	}
	f.labels = nil
	return nil
}

// Save writes the FAISS index to path and the label mapping to path+".idmap".
func (f *FAISSIndex) Save(path string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	if ret := C.faiss_write_index_fname(f.index, cPath); ret != 0 {
		return fmt.Errorf("failed to save FAISS index: %s", faissLastError())
	}

	mapFile, err := os.Create(path + ".idmap")
	if err != nil {
		return fmt.Errorf("create id map file: %w", err)
	}
	defer mapFile.Close()
	if err := gob.NewEncoder(mapFile).Encode(f.labels); err != nil {
		return fmt.Errorf("encode id map: %w", err)
	}
	return nil
}

// Load reads the index and label mapping from path.
// If the index file does not exist, no error is returned and the index is unchanged.
// A missing label mapping means labels are the IDs.
func (f *FAISSIndex) Load(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var loaded *C.FaissIndex
	if ret := C.faiss_read_index_fname(cPath, 0, &loaded); ret != 0 {
		return fmt.Errorf("failed to load FAISS index: %s", faissLastError())
	}
	if d := int(C.faiss_Index_d(loaded)); d != f.dimensions {
		C.faiss_Index_free(loaded)
		return fmt.Errorf("dimension mismatch: file has %d, index expects %d", d, f.dimensions)
	}
	ntotal := int(C.faiss_Index_ntotal(loaded))

	var labels []int64
	mapFile, err := os.Open(path + ".idmap")
	switch {
	case err == nil:
		defer mapFile.Close()
		if err := gob.NewDecoder(mapFile).Decode(&labels); err != nil {
			C.faiss_Index_free(loaded)
			return fmt.Errorf("decode id map: %w", err)
		}
	case os.IsNotExist(err):
		labels = make([]int64, ntotal)
		for i := range labels {
			labels[i] = int64(i)
		}
	default:
		C.faiss_Index_free(loaded)
		return fmt.Errorf("open id map file: %w", err)
	}
	if len(labels) != ntotal {
		C.faiss_Index_free(loaded)
		return fmt.Errorf("id map has %d entries, index has %d vectors", len(labels), ntotal)
	}

	if f.index != nil {
		C.faiss_Index_free(f.index)
	}
	f.index = loaded
	f.labels = labels
	return nil
}

// Size returns the number of vectors.
func (f *FAISSIndex) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.labels)
}

// Close frees the FAISS index resources.
func (f *FAISSIndex) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.index != nil {
		C.faiss_Index_free(f.index)
		f.index = nil
	}
	return nil
}

// Type returns the index type identifier.
func (f *FAISSIndex) Type() string {
	return string(IndexTypeFAISS)
}
