package render

import "errors"

// ErrNotReady marks a render that could not produce a document. Callers show
// "not ready yet" instead of failing the session.
var ErrNotReady = errors.New("render: document not ready")
