package docker

import (
	"time"

	"github.com/sakif/codechat/internal/model"
)

// Runtime describes how one language runs inside the sandbox: which image
// to use and how to hand the code to its interpreter.
type Runtime struct {
	// Image is the Docker image for this language.
	Image string
	// Args builds the command that evaluates a code string directly,
	// e.g. ["python", "-c", <code>]. The code is always the last element.
	Args []string
}

// Config holds the configuration for Docker execution.
type Config struct {
	// Runtimes maps snippet languages to their sandbox runtimes. Languages
	// absent from the map are not executable (compiled languages need a
	// build step the sandbox doesn't provide).
	Runtimes map[model.CodingLanguage]Runtime
	// PoolLanguage is the language whose image gets pre-warmed containers.
	PoolLanguage model.CodingLanguage
	// MemoryLimit is the per-container memory cap in bytes.
	MemoryLimit int64
	// CPULimit is the number of CPUs a container may use.
	CPULimit float64
	// Timeout is the maximum wall-clock time for one execution.
	Timeout time.Duration
	// PoolSize is the number of pre-warmed containers to maintain.
	PoolSize int
}

// DefaultConfig covers the interpreted languages of the snippet language
// enum with small alpine images. Python gets the warm pool — it's by far
// the most common snippet language in practice.
func DefaultConfig() Config {
	return Config{
		Runtimes: map[model.CodingLanguage]Runtime{
			model.LangPython:     {Image: "python:3.12-alpine", Args: []string{"python", "-c"}},
			model.LangJavaScript: {Image: "node:22-alpine", Args: []string{"node", "-e"}},
			model.LangRuby:       {Image: "ruby:3.3-alpine", Args: []string{"ruby", "-e"}},
			model.LangPHP:        {Image: "php:8.3-alpine", Args: []string{"php", "-r"}},
		},
		PoolLanguage: model.LangPython,
		MemoryLimit:  128 * 1024 * 1024, // 128 MB
		CPULimit:     0.5,
		Timeout:      5 * time.Second,
		PoolSize:     3,
	}
}
