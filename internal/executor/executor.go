// Package executor defines the interface for running code snippets in an
// isolated environment. The docker subpackage provides the real sandbox;
// tests substitute in-memory fakes.
package executor

import (
	"context"
	"errors"
	"time"

	"github.com/sakif/codechat/internal/model"
)

// ErrUnsupportedLanguage is returned when a snippet's language has no
// sandbox runtime configured. Compiled languages (go, rust, java, ...)
// fall in this bucket — the sandbox only runs interpreters.
var ErrUnsupportedLanguage = errors.New("executor: unsupported language")

// ExecutionRequest asks for a piece of code to be run.
type ExecutionRequest struct {
	Language model.CodingLanguage `json:"language"`
	Code     string               `json:"code"`
}

// ExecutionResult is the captured output and status of one run.
type ExecutionResult struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Executor runs code in an isolated environment.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error)
}
