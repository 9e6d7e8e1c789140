// Package parallel は範囲を分割してゴルーチンで並列実行する
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Workers は要求されたワーカー数を items と CPU数に合わせて正規化する
//
// requested が 0 以下ならCPUコア数を使う。
func Workers(items, requested int) int {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > items {
		n = items // No need for more workers than items
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Parallelize divides items into contiguous ranges, one per worker,
// and executes fn(start, end) for each range in parallel.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := Workers(items, workers)

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}

		// Skip if there's no range to handle
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ForEach は各インデックスに fn を並列適用する
//
// ctx がキャンセルされると未着手のインデックスは処理しない。
// 最初に返されたエラー、またはキャンセル時は ctx.Err() を返す。
func ForEach(ctx context.Context, items, workers int, fn func(ctx context.Context, i int) error) error {
	if items == 0 {
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	Parallelize(items, workers, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			if err := fn(ctx, i); err != nil {
				fail(err)
				return
			}
		}
	})

	if firstErr != nil {
		return firstErr
	}
	// ここでのキャンセルは親コンテキストによるもののみ
	return ctx.Err()
}
