package ledger

// Option applies a configuration option to the InMemoryLog.
type Option func(*InMemoryLog)

// WithCapacity preallocates room for n entries.
func WithCapacity(n int) Option {
	return func(l *InMemoryLog) {
		if n > 0 {
			l.entries = make([]string, 0, n)
		}
	}
}
