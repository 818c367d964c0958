package docx

import "go.uber.org/zap"

// Option configures the DOCX renderer.
type Option func(*Renderer)

// WithLogger routes skipped-image warnings to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFontFamily overrides the Normal style font (default Arial).
func WithFontFamily(family string) Option {
	return func(r *Renderer) {
		if family != "" {
			r.fontFamily = family
		}
	}
}
