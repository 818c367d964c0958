// Package generator turns one report record into named download artifacts.
// It checks the required fields first, then composes the shared document
// and hands it to the renderer of each requested format.
package generator
