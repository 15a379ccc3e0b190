// Package parallel runs enhance.EqualizeLocal across goroutines by splitting
// the image into independent bands.
//
// The inner region is cut into row blocks, each scanned by
// enhance.EqualizeLocalInnerRows with its own histogram, and the four border
// sweeps run as separate tasks. Column sweeps share corner pixels with the
// row sweeps, so they run in a second phase; within a phase no two tasks
// write the same pixel.
//
// Usage:
//
//	err := parallel.EqualizeLocal(ctx, in, 8, out, parallel.Options{Workers: 4})
package parallel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Fepozopo/localeq/pkg/enhance"
)

// Options configures a parallel run.
type Options struct {
	// Workers bounds the number of concurrent tasks. <= 0 uses GOMAXPROCS.
	Workers int
	// Levels is the histogram length. <= 0 uses enhance.Levels for the
	// sample type, which must then be 8 or 16 bits wide.
	Levels int
}

// EqualizeLocal produces the same output as enhance.EqualizeLocal. Every
// precondition is checked before any task starts, so a rejected call leaves
// out untouched. Cancelling ctx stops tasks that have not started yet and
// returns the context error.
func EqualizeLocal[T enhance.Sample](ctx context.Context, in *enhance.Plane[T], radius int, out *enhance.Plane[T], opts Options) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	levels := opts.Levels
	if levels <= 0 {
		levels = enhance.Levels[T]()
	}
	if err := enhance.CheckLocal(in, radius, out, make([]int, levels)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("equalize local: %w", err)
	}

	radius = enhance.ClampRadius(in, radius)
	width := 2*radius + 1
	if workers == 1 || radius == 0 || in.Width < width || in.Height < width {
		s := enhance.NewScratch(levels)
		return enhance.EqualizeLocal(in, radius, out, s.Histogram, s.Transform)
	}

	// phase 1: inner row blocks plus the top and bottom row sweeps
	tasks := innerBlocks(in, radius, out, levels, workers)
	tasks = append(tasks,
		func(s *enhance.Scratch) error {
			return enhance.EqualizeLocalRow(in, radius, 0, out, s.Histogram, s.Transform)
		},
		func(s *enhance.Scratch) error {
			return enhance.EqualizeLocalRow(in, radius, in.Height-radius, out, s.Histogram, s.Transform)
		},
	)
	if err := run(ctx, workers, levels, tasks); err != nil {
		return err
	}

	// phase 2: left and right column sweeps
	return run(ctx, workers, levels, []task{
		func(s *enhance.Scratch) error {
			return enhance.EqualizeLocalCol(in, radius, 0, out, s.Histogram, s.Transform)
		},
		func(s *enhance.Scratch) error {
			return enhance.EqualizeLocalCol(in, radius, in.Width-radius, out, s.Histogram, s.Transform)
		},
	})
}

type task func(s *enhance.Scratch) error

// innerBlocks splits the inner rows [radius, H-radius) into one contiguous
// block per worker.
func innerBlocks[T enhance.Sample](in *enhance.Plane[T], radius int, out *enhance.Plane[T], levels, workers int) []task {
	first, last := radius, in.Height-radius
	n := last - first
	blocks := min(workers, n)
	if blocks <= 0 {
		return nil
	}
	chunk := (n + blocks - 1) / blocks
	tasks := make([]task, 0, blocks)
	for y0 := first; y0 < last; y0 += chunk {
		y0 := y0
		y1 := min(y0+chunk, last)
		tasks = append(tasks, func(s *enhance.Scratch) error {
			return enhance.EqualizeLocalInnerRows(in, radius, y0, y1, out, s.Histogram)
		})
	}
	return tasks
}

// run executes tasks with at most workers in flight, each with private
// scratch buffers, and returns the first error.
func run(ctx context.Context, workers, levels int, tasks []task) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("equalize local: %w", err)
			}
			return t(enhance.NewScratch(levels))
		})
	}
	return g.Wait()
}
