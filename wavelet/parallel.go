package wavelet

import "golang.org/x/sync/errgroup"

// Option configures a 2D transform call.
type Option func(*config)

type config struct {
	workers int
}

// WithWorkers processes the rows (and columns) of each pass on up to n
// goroutines. Values below 2 keep the transform on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

func newConfig(opts []Option) config {
	c := config{workers: 1}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// parallelFor splits [0, n) into contiguous chunks, one per worker, and runs
// fn on each. Every invocation of fn must own its scratch buffers. The
// errgroup only bounds and joins the workers: fn cannot fail, so Wait always
// returns nil.
func (c config) parallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(c.workers, n)
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
}
