// Package topk selects the highest scoring items from a slice under a total
// order over float32 values.
package topk

import (
	"math"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// TotalKey maps f to an integer whose natural ordering is the IEEE 754
// totalOrder predicate: -NaN < -Inf < ... < -0 < +0 < ... < +Inf < +NaN.
func TotalKey(f float32) int32 {
	bits := int32(math.Float32bits(f))
	return bits ^ int32(uint32(bits>>31)>>1)
}

// Compare orders a and b by TotalKey.
func Compare(a, b float32) int {
	ka, kb := TotalKey(a), TotalKey(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	}
	return 0
}

type entry[T any] struct {
	key  int32
	item T
}

// Select returns the k items with the largest scores, ordered from highest to
// lowest. Items with exactly equal scores come out in no particular order.
func Select[T any](items []T, k int, score func(T) float32) []T {
	if k <= 0 || len(items) == 0 {
		return []T{}
	}
	k = min(k, len(items))

	// min-heap bounded to k entries; the root is the weakest survivor
	heap := binaryheap.NewWith(func(a, b interface{}) int {
		ka, kb := a.(entry[T]).key, b.(entry[T]).key
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
	for _, it := range items {
		e := entry[T]{key: TotalKey(score(it)), item: it}
		if heap.Size() < k {
			heap.Push(e)
			continue
		}
		root, _ := heap.Peek()
		if e.key > root.(entry[T]).key {
			heap.Pop()
			heap.Push(e)
		}
	}

	out := make([]T, heap.Size())
	for i := len(out) - 1; i >= 0; i-- {
		v, _ := heap.Pop()
		out[i] = v.(entry[T]).item
	}
	return out
}
