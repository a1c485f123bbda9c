// Batch field-element inversion using Montgomery's trick.
package core

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchInverse computes the inverses of all elements using exactly one full
// inversion plus a number of multiplications linear in the input length.
//
// Phase 1 accumulates prefix products, phase 2 inverts the total product,
// phase 3 walks backward recovering each inverse from the prefix products.
// Any zero element makes the whole batch fail.
func BatchInverse(elements []Felt) ([]Felt, error) {
	n := len(elements)
	if n == 0 {
		return []Felt{}, nil
	}

	for i, elem := range elements {
		if elem.IsZero() {
			return nil, fmt.Errorf("zero element at index %d: %w", i, ErrNoInverse)
		}
	}

	prefix := make([]Felt, n)
	prefix[0] = elements[0]
	for i := 1; i < n; i++ {
		prefix[i] = prefix[i-1].Mul(elements[i])
	}

	acc, err := prefix[n-1].Inverse()
	if err != nil {
		return nil, fmt.Errorf("failed to invert accumulated product: %w", err)
	}

	results := make([]Felt, n)
	for i := n - 1; i > 0; i-- {
		results[i] = acc.Mul(prefix[i-1])
		acc = acc.Mul(elements[i])
	}
	results[0] = acc

	return results, nil
}

// ParallelBatchInverse behaves like BatchInverse but parallelizes the two
// multiplication passes across chunks. The single global inversion remains
// the only serialization point: each chunk's partial product is combined in
// the original sequential order before inverting, and the backward pass is
// seeded per chunk from that same ordering.
func ParallelBatchInverse(elements []Felt, numWorkers int) ([]Felt, error) {
	n := len(elements)
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if n < 2*numWorkers || numWorkers == 1 {
		return BatchInverse(elements)
	}

	for i, elem := range elements {
		if elem.IsZero() {
			return nil, fmt.Errorf("zero element at index %d: %w", i, ErrNoInverse)
		}
	}

	chunkSize := (n + numWorkers - 1) / numWorkers
	numChunks := (n + chunkSize - 1) / chunkSize
	bounds := func(c int) (int, int) {
		start := c * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		return start, end
	}

	// Forward pass: local prefix products, one goroutine per chunk.
	prefix := make([]Felt, n)
	var g errgroup.Group
	for c := 0; c < numChunks; c++ {
		start, end := bounds(c)
		g.Go(func() error {
			prefix[start] = elements[start]
			for i := start + 1; i < end; i++ {
				prefix[i] = prefix[i-1].Mul(elements[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Combine chunk totals in the original order; before[c] is the product
	// of every element preceding chunk c.
	before := make([]Felt, numChunks)
	before[0] = FeltOne()
	for c := 1; c < numChunks; c++ {
		_, prevEnd := bounds(c - 1)
		before[c] = before[c-1].Mul(prefix[prevEnd-1])
	}

	_, lastEnd := bounds(numChunks - 1)
	total := before[numChunks-1].Mul(prefix[lastEnd-1])
	totalInv, err := total.Inverse()
	if err != nil {
		return nil, fmt.Errorf("failed to invert accumulated product: %w", err)
	}

	// Inverse of the running product at each chunk boundary, walking the
	// chunk totals backward.
	boundaryInv := make([]Felt, numChunks)
	acc := totalInv
	for c := numChunks - 1; c >= 0; c-- {
		boundaryInv[c] = acc
		_, end := bounds(c)
		acc = acc.Mul(prefix[end-1])
	}

	// Backward pass per chunk.
	results := make([]Felt, n)
	var g2 errgroup.Group
	for c := 0; c < numChunks; c++ {
		start, end := bounds(c)
		inv := boundaryInv[c].Mul(before[c])
		g2.Go(func() error {
			acc := inv
			for i := end - 1; i > start; i-- {
				results[i] = acc.Mul(prefix[i-1])
				acc = acc.Mul(elements[i])
			}
			results[start] = acc
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
