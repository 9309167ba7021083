// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers normalises a requested number of workers, where zero (or less) means
// "one per available CPU".
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	//
	return n
}

// BalancedSlices splits the range [0,n) into at most k contiguous slices whose
// sizes differ by at most one.  Empty slices are omitted.
func BalancedSlices(n, k int) [][2]int {
	var slices [][2]int
	//
	k = max(1, min(k, n))
	//
	for i, start := 0, 0; i < k; i++ {
		size := n / k
		//
		if i < n%k {
			size++
		}
		//
		if size > 0 {
			slices = append(slices, [2]int{start, start + size})
		}
		//
		start += size
	}
	//
	return slices
}

// RoundRobin distributes the indices [0,n) amongst (at most) k workers, such
// that worker w receives w, w+k, w+2k, etc.  Workers with no indices are
// omitted.
func RoundRobin(n, k int) [][]int {
	var shares [][]int
	//
	k = max(1, min(k, n))
	//
	for w := 0; w < k; w++ {
		var share []int
		//
		for i := w; i < n; i += k {
			share = append(share, i)
		}
		//
		if len(share) > 0 {
			shares = append(shares, share)
		}
	}
	//
	return shares
}

// ForkJoin runs a given function over a set of jobs using (at most) the given
// number of concurrent goroutines.  Results are returned in job order.  The
// first error encountered cancels the context passed to outstanding jobs, and
// is returned.
func ForkJoin[J any, R any](ctx context.Context, workers int, jobs []J,
	fn func(context.Context, J) (R, error)) ([]R, error) {
	//
	results := make([]R, len(jobs))
	// Sequential fast path
	if Workers(workers) == 1 || len(jobs) <= 1 {
		for i, job := range jobs {
			r, err := fn(ctx, job)
			//
			if err != nil {
				return nil, err
			}
			//
			results[i] = r
		}
		//
		return results, nil
	}
	//
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(Workers(workers))
	//
	for i, job := range jobs {
		group.Go(func() error {
			r, err := fn(gctx, job)
			//
			if err == nil {
				results[i] = r
			}
			//
			return err
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	return results, nil
}
