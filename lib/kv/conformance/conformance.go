// Package conformance runs a single test suite against any kv.Gateway
// implementation, so that every backend is proven to satisfy the same
// contract the append and retrieval engines rely on.
package conformance

import (
	"context"
	"testing"

	"github.com/nilfjord/seqstore/lib/kv"
)

// GatewayFactory creates a new, empty kv.Gateway instance.
type GatewayFactory func() kv.Gateway

// RunGatewayTests runs a comprehensive conformance test suite for a
// kv.Gateway implementation.
func RunGatewayTests(t *testing.T, name string, factory GatewayFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("PutIfAbsent", func(t *testing.T) {
			testPutIfAbsent(t, factory())
		})

		t.Run("Get", func(t *testing.T) {
			testGet(t, factory())
		})

		t.Run("GetProjection", func(t *testing.T) {
			testGetProjection(t, factory())
		})

		t.Run("AppendToList", func(t *testing.T) {
			testAppendToList(t, factory())
		})

		t.Run("IncrementIfAtLeast", func(t *testing.T) {
			testIncrementIfAtLeast(t, factory())
		})

		t.Run("BulkGet", func(t *testing.T) {
			testBulkGet(t, factory())
		})

		t.Run("ConcurrentAppend", func(t *testing.T) {
			testConcurrentAppend(t, factory())
		})
	})
}

func testPutIfAbsent(t *testing.T, g kv.Gateway) {
	ctx := context.Background()

	if err := g.PutIfAbsent(ctx, kv.Item{Key: "a", Attributes: map[string]any{"v": int64(1)}}); err != nil {
		t.Fatalf("first PutIfAbsent: unexpected error: %v", err)
	}

	err := g.PutIfAbsent(ctx, kv.Item{Key: "a", Attributes: map[string]any{"v": int64(2)}})
	if !kv.IsKind(err, kv.KindAlreadyExists) {
		t.Fatalf("second PutIfAbsent: expected KindAlreadyExists, got %v", err)
	}

	item, err := g.Get(ctx, "a", nil)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if item.Attributes["v"] != int64(1) {
		t.Fatalf("PutIfAbsent must not overwrite existing item, got v=%v", item.Attributes["v"])
	}
}

func testGet(t *testing.T, g kv.Gateway) {
	ctx := context.Background()

	if _, err := g.Get(ctx, "missing", nil); !kv.IsKind(err, kv.KindNotFound) {
		t.Fatalf("Get on missing key: expected KindNotFound, got %v", err)
	}

	_ = g.PutIfAbsent(ctx, kv.Item{Key: "b", Attributes: map[string]any{"v": int64(7)}})
	item, err := g.Get(ctx, "b", nil)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if item.Key != "b" || item.Attributes["v"] != int64(7) {
		t.Fatalf("Get returned unexpected item: %+v", item)
	}
}

func testGetProjection(t *testing.T, g kv.Gateway) {
	ctx := context.Background()

	_ = g.PutIfAbsent(ctx, kv.Item{Key: "c", Attributes: map[string]any{
		"v":      int64(1),
		"region": "eu",
		"table":  "events",
	}})

	item, err := g.Get(ctx, "c", []string{"v"})
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if _, ok := item.Attributes["region"]; ok {
		t.Fatalf("projected Get must not return unrequested attributes, got %+v", item.Attributes)
	}
	if item.Attributes["v"] != int64(1) {
		t.Fatalf("projected Get dropped requested attribute: %+v", item.Attributes)
	}
}

func testAppendToList(t *testing.T, g kv.Gateway) {
	ctx := context.Background()

	if _, err := g.AppendToList(ctx, "missing", "data_list", []any{"x"}); !kv.IsKind(err, kv.KindItemMissing) {
		t.Fatalf("AppendToList on missing key: expected KindItemMissing, got %v", err)
	}

	_ = g.PutIfAbsent(ctx, kv.Item{Key: "d", Attributes: map[string]any{"data_list": []any{}}})

	n, err := g.AppendToList(ctx, "d", "data_list", []any{"x", "y"})
	if err != nil {
		t.Fatalf("AppendToList: unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("AppendToList: expected new length 2, got %d", n)
	}

	n, err = g.AppendToList(ctx, "d", "data_list", []any{"z"})
	if err != nil {
		t.Fatalf("AppendToList: unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("AppendToList: expected new length 3, got %d", n)
	}
}

func testIncrementIfAtLeast(t *testing.T, g kv.Gateway) {
	ctx := context.Background()

	if _, err := g.IncrementIfAtLeast(ctx, "missing", "currentPage", 0); !kv.IsKind(err, kv.KindItemMissing) {
		t.Fatalf("IncrementIfAtLeast on missing key: expected KindItemMissing, got %v", err)
	}

	_ = g.PutIfAbsent(ctx, kv.Item{Key: "e", Attributes: map[string]any{"currentPage": int64(0)}})

	newVal, err := g.IncrementIfAtLeast(ctx, "e", "currentPage", 0)
	if err != nil {
		t.Fatalf("IncrementIfAtLeast: unexpected error: %v", err)
	}
	if newVal != 1 {
		t.Fatalf("IncrementIfAtLeast: expected 1, got %d", newVal)
	}

	if _, err := g.IncrementIfAtLeast(ctx, "e", "currentPage", 0); !kv.IsKind(err, kv.KindPreconditionFailed) {
		t.Fatalf("stale IncrementIfAtLeast: expected KindPreconditionFailed, got %v", err)
	}

	newVal, err = g.IncrementIfAtLeast(ctx, "e", "currentPage", 1)
	if err != nil {
		t.Fatalf("IncrementIfAtLeast: unexpected error: %v", err)
	}
	if newVal != 2 {
		t.Fatalf("IncrementIfAtLeast: expected 2, got %d", newVal)
	}
}

func testBulkGet(t *testing.T, g kv.Gateway) {
	ctx := context.Background()

	_ = g.PutIfAbsent(ctx, kv.Item{Key: "f1", Attributes: map[string]any{"v": int64(1)}})
	_ = g.PutIfAbsent(ctx, kv.Item{Key: "f2", Attributes: map[string]any{"v": int64(2)}})

	items, err := g.BulkGet(ctx, []string{"f1", "f2", "f-missing"})
	if err != nil {
		t.Fatalf("BulkGet: unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("BulkGet: expected 2 items (missing key omitted), got %d", len(items))
	}
}

func testConcurrentAppend(t *testing.T, g kv.Gateway) {
	ctx := context.Background()
	_ = g.PutIfAbsent(ctx, kv.Item{Key: "g", Attributes: map[string]any{"data_list": []any{}}})

	const n = 50
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := g.AppendToList(ctx, "g", "data_list", []any{"x"})
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent AppendToList: unexpected error: %v", err)
		}
	}

	item, err := g.Get(ctx, "g", nil)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	list, _ := item.Attributes["data_list"].([]any)
	if len(list) != n {
		t.Fatalf("expected %d total appended elements, got %d (lost update)", n, len(list))
	}
}
