package content

import (
	"errors"
	"fmt"
)

// BuildError means the outgoing request could not be constructed.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string { return fmt.Sprintf("build story request: %v", e.Err) }

func (e *BuildError) Unwrap() error { return e.Err }

// ParseError means a response arrived but was not a usable story.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse story: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// StatusError means the source answered with a non-success status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("story request failed with status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("story request failed with status %d", e.Code)
}

// Retryable reports whether the status is worth retrying.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}

// TransportError means the source could not be reached.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("reach story source: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// Notice turns a source failure into the message shown to the learner when
// the fallback pool is used instead.
func Notice(err error) string {
	var (
		build     *BuildError
		parse     *ParseError
		status    *StatusError
		transport *TransportError
	)
	switch {
	case errors.As(err, &build):
		return fmt.Sprintf("Could not build AI request; using fallback. (%v)", build.Err)
	case errors.As(err, &parse):
		return fmt.Sprintf("AI response parse error; using fallback. (%v)", parse.Err)
	case errors.As(err, &status):
		return fmt.Sprintf("AI story request failed with status %d; using fallback.", status.Code)
	case errors.As(err, &transport):
		return fmt.Sprintf("Could not reach AI Worker; using fallback. (%v)", transport.Err)
	}
	return fmt.Sprintf("AI story generation failed; using fallback. (%v)", err)
}
