package alloc

import (
	"io"
	"log/slog"
)

// discardLogger is used until a logger is supplied with WithLogger.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option configures an Allocator.
type Option func(*Allocator)

// WithKernel replaces the system-call backed kernel.
func WithKernel(k Kernel) Option {
	return func(a *Allocator) {
		if k != nil {
			a.kernel = k
		}
	}
}

// WithLogger sets the logger used for kernel failures and evictions.
func WithLogger(l *slog.Logger) Option {
	return func(a *Allocator) { a.SetLogger(l) }
}

// WithPageSize overrides the granularity of page-path requests. It must be a
// power of two.
func WithPageSize(n uintptr) Option {
	return func(a *Allocator) {
		if n == 0 || n&(n-1) != 0 {
			panic("alloc: page size must be a power of two")
		}
		a.pageSize = n
	}
}
