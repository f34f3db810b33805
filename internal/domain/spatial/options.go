package spatial

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithSigma sets the standard deviation of the Gaussian kernel.
func WithSigma(sigma float64) Option {
	return func(m *Matcher) {
		if sigma > 0 {
			m.sigma = sigma
		}
	}
}

// WithMu sets the distance at which the Gaussian kernel peaks.
func WithMu(mu float64) Option {
	return func(m *Matcher) {
		m.mu = mu
	}
}
