// Package backend defines the uniform error wrapper for external engine
// failures (TTS, STT, storage backends).
package backend

import "fmt"

// Error wraps any failure coming from an external backend. The core never
// introspects further than this type; callers decide whether to retry with
// a different engine.
type Error struct {
	Op     string // "synthesize", "recognize", ...
	Engine string // engine key, e.g. "azure"
	Status int    // HTTP status when applicable, else 0
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s backend %q failed (status %d): %v", e.Op, e.Engine, e.Status, e.Err)
	}
	return fmt.Sprintf("%s backend %q failed: %v", e.Op, e.Engine, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap builds a backend error unless err is nil.
func Wrap(op, engine string, status int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Engine: engine, Status: status, Err: err}
}
