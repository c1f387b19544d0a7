package vector

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMemoryIndex_AddSearch(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	vecs := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	ids := []int64{0, 1, 2}
	if err := idx.Add(ctx, ids, vecs); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 {
		t.Errorf("Size=%d", idx.Size())
	}

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != 0 || results[1].ID != 1 {
		t.Errorf("unexpected order: %d, %d", results[0].ID, results[1].ID)
	}
	if results[0].Score < results[1].Score {
		t.Error("scores should be non-increasing")
	}
}

func TestMemoryIndex_SearchKLargerThanSize(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Add(ctx, []int64{0, 1}, [][]float32{{1, 0}, {0, 1}})
	results, err := idx.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestMemoryIndex_TiesKeepInsertionOrder(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Add(ctx, []int64{0, 1, 2}, [][]float32{{0, 1}, {0, 1}, {0, 1}})
	results, err := idx.Search(ctx, []float32{0, 1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r.ID != int64(i) {
			t.Errorf("position %d: got id %d", i, r.ID)
		}
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	idx, _ := NewMemoryIndex(3)
	ctx := context.Background()
	if err := idx.Add(ctx, []int64{0}, [][]float32{{1, 0}}); err == nil {
		t.Error("expected error for dimension mismatch on Add")
	}
	if idx.Size() != 0 {
		t.Errorf("failed Add should not change size, got %d", idx.Size())
	}
	if _, err := idx.Search(ctx, []float32{1, 0}, 1); err == nil {
		t.Error("expected error for dimension mismatch on Search")
	}
	if err := idx.Add(ctx, []int64{0, 1}, [][]float32{{1, 0, 0}}); err == nil {
		t.Error("expected error for ids/vectors length mismatch")
	}
}

func TestMemoryIndex_Reset(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Add(ctx, []int64{0, 1}, [][]float32{{1, 0}, {0, 1}})
	if err := idx.Reset(); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 0 {
		t.Errorf("expected size 0, got %d", idx.Size())
	}
}

func TestMemoryIndex_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "faiss_index.index")

	idx, _ := NewMemoryIndex(3)
	vecs := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0.6, 0.8}}
	if err := idx.Add(ctx, []int64{0, 1, 2}, vecs); err != nil {
		t.Fatal(err)
	}
	before, _ := idx.Search(ctx, []float32{0, 0.8, 0.6}, 3)
	if err := idx.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	idx2, _ := NewMemoryIndex(3)
	if err := idx2.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx2.Size() != 3 {
		t.Fatalf("after Load size=%d, want 3", idx2.Size())
	}
	after, _ := idx2.Search(ctx, []float32{0, 0.8, 0.6}, 3)
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Score != after[i].Score {
			t.Errorf("result %d differs after reload: %+v vs %+v", i, before[i], after[i])
		}
	}
}

func TestMemoryIndex_LoadMissingFile(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	if err := idx.Load(filepath.Join(t.TempDir(), "missing.index")); err != nil {
		t.Errorf("Load missing file should not error: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("size=%d", idx.Size())
	}
}

func TestMemoryIndex_LoadDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx")
	idx, _ := NewMemoryIndex(2)
	_ = idx.Add(context.Background(), []int64{0}, [][]float32{{1, 0}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}
	idx3, _ := NewMemoryIndex(3)
	if err := idx3.Load(path); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestMemoryIndex_LoadTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx")
	idx, _ := NewMemoryIndex(2)
	_ = idx.Add(context.Background(), []int64{0, 1}, [][]float32{{1, 0}, {0, 1}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatal(err)
	}
	idx2, _ := NewMemoryIndex(2)
	if err := idx2.Load(path); err == nil {
		t.Error("expected error for truncated file")
	}
	if idx2.Size() != 0 {
		t.Errorf("failed Load should leave index unchanged, size=%d", idx2.Size())
	}
}

func TestMemoryIndex_LoadRejectsOversizedCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx")
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], 384)
	binary.LittleEndian.PutUint32(header[4:8], 0xFFFFFFF0)
	if err := os.WriteFile(path, header, 0644); err != nil {
		t.Fatal(err)
	}
	idx, _ := NewMemoryIndex(384)
	err := idx.Load(path)
	if err == nil {
		t.Fatal("expected error for count larger than file")
	}
	if !strings.Contains(err.Error(), "corrupt") {
		t.Errorf("unexpected error: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("size = %d, want 0", idx.Size())
	}
}
