package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for the generation pipeline.
var (
	// ErrInputEmpty reports content without any visible line. It is a warning:
	// a minimal document is still produced.
	ErrInputEmpty = errors.New("input has no content lines")
	// ErrGeneration matches every *GenerationError.
	ErrGeneration = errors.New("generation failed")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("artifact validation failed")
	// ErrUnsupportedFormat is wrapped when no renderer is registered for a format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageProfile Stage = "profile"
	StageLayout  Stage = "layout"
	StageRender  Stage = "render"
)

// GenerationError is a layout or render failure, including recovered panics.
type GenerationError struct {
	Stage  Stage  // Step that failed
	Source string // Display name of the source document
	Err    error  // Underlying error
}

func (e *GenerationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("generate %s: %s: %v", e.Source, e.Stage, e.Err)
	}
	return fmt.Sprintf("generate: %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGeneration) true for any GenerationError.
func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// ValidationError reports an artifact that failed the caller-side check.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
