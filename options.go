package mp3probe

// Option configures analysis behavior.
//
// Options use the functional options pattern.
//
// Example:
//
//	info, err := mp3probe.Analyze(src,
//	    mp3probe.WithName("radio feed"),
//	    mp3probe.WithReadRetries(5),
//	)
type Option func(*sessionOptions)

// sessionOptions holds configuration for a session.
type sessionOptions struct {
	logger  Logger    // diagnostic sink, never nil
	alloc   Allocator // scratch buffer allocator, never nil
	retries int       // extra attempts after a read that returned no data
	name    string    // stream name used in errors and logs
}

// defaultSessionOptions returns the default configuration.
func defaultSessionOptions() *sessionOptions {
	return &sessionOptions{
		logger:  nopLogger{},
		alloc:   heapAllocator{},
		retries: 3,
		name:    "stream",
	}
}

// WithLogger routes session diagnostics to the given logger.
//
// By default diagnostics are discarded. Any printf-shaped logger works;
// messages carry lgr-style level prefixes like "[DEBUG]".
//
// Example:
//
//	info, err := mp3probe.Probe("song.mp3",
//	    mp3probe.WithLogger(lgr.Default()),
//	)
func WithLogger(l Logger) Option {
	return func(o *sessionOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAllocator makes the session obtain scratch buffers from a custom
// allocator instead of the Go heap.
//
// Hosts embedding the detector can pool or account for the memory an
// analysis uses. A session allocates one scan window per run and frees
// it on Close.
//
// Example:
//
//	sess, err := mp3probe.NewSession(src, mp3probe.WithAllocator(pool))
func WithAllocator(a Allocator) Option {
	return func(o *sessionOptions) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithReadRetries sets how many times a read that returned no data is
// retried before the session gives up with an IOError.
//
// The default is 3. Only fruitless reads count: a short read that
// delivers any bytes resets the budget.
func WithReadRetries(n int) Option {
	return func(o *sessionOptions) {
		if n >= 0 {
			o.retries = n
		}
	}
}

// WithName sets the stream name used in error messages and logs.
//
// The default is "stream". Probe and ProbeMany set it to the file path;
// an explicit WithName wins over that.
func WithName(name string) Option {
	return func(o *sessionOptions) {
		if name != "" {
			o.name = name
		}
	}
}
