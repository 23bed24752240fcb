package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithIgnoredFields sets record fields to ignore during comparison, by
// their serialized names (for example "href").
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithContextLines sets how many unchanged lines surround each hunk in a patch.
func WithContextLines(n int) Option {
	return func(d *differ) {
		if n >= 0 {
			d.contextLines = n
		}
	}
}
