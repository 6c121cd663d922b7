package depot

import "github.com/rs/zerolog"

// Option configures a Manager at construction.
type Option func(*Manager)

// WithErrorPolicy selects how the manager reports contract violations.
// The default is PanicPolicy.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// WithLogger attaches a structured logger. The default logger discards
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithInitialCapacity pre-sizes the entity record table so the first n
// creations do not bump the structural version.
func WithInitialCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 && cap(m.records) < n {
			records := make([]entityRecord, len(m.records), n)
			copy(records, m.records)
			m.records = records
		}
	}
}
