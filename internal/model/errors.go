package model

import "fmt"

// GeometryError marks a single sticker whose outline cannot be used: fewer
// than three vertices, zero area, or a self-intersecting outline. The item
// is excluded from placement; the run continues.
type GeometryError struct {
	ID  string
	Err error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("sticker %q: invalid geometry: %v", e.ID, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// ConfigError aborts a run before any item is processed.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "invalid nesting configuration: " + e.Msg
}

// InternalError signals a defect in the engine itself, such as an NFP
// construction that yields no loops for valid input. It aborts the run.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal nesting error: " + e.Msg
}
