// Package template defines the engine seam used by template-backed renderers.
package template
