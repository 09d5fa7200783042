// Package docker runs code snippets in locked-down Docker containers:
// no network, read-only root filesystem, unprivileged user, memory/CPU
// caps, and a hard wall-clock timeout.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/sakif/codechat/internal/executor"
)

// Executor implements executor.Executor using Docker.
//
// Containers for the pool language come pre-warmed from the pool; other
// languages start a fresh container per request (slower, but execution of
// the non-default interpreters is rare enough not to warrant a pool each).
type Executor struct {
	cli    *client.Client
	config Config
	logger *slog.Logger
	pool   *Pool
}

var _ executor.Executor = (*Executor)(nil)

// New creates a Docker executor, pulls every configured runtime image, and
// starts the container pool for the pool language.
func New(cfg Config, logger *slog.Logger) (*Executor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker: creating client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for lang, rt := range cfg.Runtimes {
		logger.Info("ensuring sandbox image is available",
			slog.String("language", string(lang)),
			slog.String("image", rt.Image),
		)
		reader, err := cli.ImagePull(ctx, rt.Image, image.PullOptions{})
		if err != nil {
			cli.Close()
			return nil, fmt.Errorf("docker: pulling image %s: %w", rt.Image, err)
		}
		// Drain the progress stream — the pull isn't complete until EOF.
		io.Copy(io.Discard, reader)
		reader.Close()
	}

	exec := &Executor{
		cli:    cli,
		config: cfg,
		logger: logger,
	}

	poolRuntime, ok := cfg.Runtimes[cfg.PoolLanguage]
	if !ok {
		cli.Close()
		return nil, fmt.Errorf("docker: pool language %q has no runtime configured", cfg.PoolLanguage)
	}
	exec.pool = NewPool(cli, cfg, poolRuntime.Image, logger)
	exec.pool.Start()

	return exec, nil
}

// Close shuts down the pool and the docker client.
func (e *Executor) Close() error {
	e.pool.Stop()
	return e.cli.Close()
}

// Execute runs req.Code under the runtime for req.Language.
func (e *Executor) Execute(ctx context.Context, req executor.ExecutionRequest) (*executor.ExecutionResult, error) {
	rt, ok := e.config.Runtimes[req.Language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", executor.ErrUnsupportedLanguage, req.Language)
	}

	start := time.Now()

	// Warm path for the pool language, cold start for everything else.
	var containerID string
	var err error
	if req.Language == e.config.PoolLanguage {
		containerID, err = e.pool.GetContainer(ctx)
	} else {
		containerID, err = createSandbox(ctx, e.cli, e.config, rt.Image)
	}
	if err != nil {
		return nil, fmt.Errorf("docker: acquiring container: %w", err)
	}

	// The container is single-use either way; always tear it down.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.cli.ContainerRemove(cleanupCtx, containerID, container.RemoveOptions{Force: true}); err != nil {
			e.logger.Error("failed to remove sandbox container",
				slog.String("id", containerID),
				slog.String("error", err.Error()),
			)
		}
	}()

	executeCtx, executeCancel := context.WithTimeout(ctx, e.config.Timeout)
	defer executeCancel()

	// The container idles on `sleep infinity`; the code runs as an exec
	// with the interpreter's eval flag, e.g. python -c <code>.
	execConfig := container.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          append(append([]string{}, rt.Args...), req.Code),
	}

	execResp, err := e.cli.ContainerExecCreate(executeCtx, containerID, execConfig)
	if err != nil {
		return nil, fmt.Errorf("docker: creating exec: %w", err)
	}

	attachResp, err := e.cli.ContainerExecAttach(executeCtx, execResp.ID, container.ExecStartOptions{})
	if err != nil {
		return nil, fmt.Errorf("docker: attaching to exec: %w", err)
	}
	defer attachResp.Close()

	var stdout, stderr bytes.Buffer

	done := make(chan struct{})
	go func() {
		// stdcopy demultiplexes the combined stream into stdout/stderr.
		_, _ = stdcopy.StdCopy(&stdout, &stderr, attachResp.Reader)
		close(done)
	}()

	var exitCode int
	select {
	case <-done:
		inspectResp, err := e.cli.ContainerExecInspect(ctx, execResp.ID)
		if err == nil {
			exitCode = inspectResp.ExitCode
		}
	case <-executeCtx.Done():
		exitCode = 124 // the unix timeout(1) convention
		stderr.WriteString("\nExecution timed out.\n")
	}

	return &executor.ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Duration: time.Since(start),
	}, nil
}
