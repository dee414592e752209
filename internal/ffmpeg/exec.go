package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hbomb79/Reel/pkg/logger"
)

// processWaitDelay bounds how long we wait for a killed process's output
// pipes to close before giving up on them.
const processWaitDelay = 5 * time.Second

const maxStderrSummary = 512

type (
	// ProbeError is returned by Gateway.Probe when ffprobe exits unsuccessfully,
	// cannot be started, or prints output which cannot be parsed.
	ProbeError struct {
		Path     string
		ExitCode int
		Message  string
		Err      error
	}

	// ProxyError is returned by Gateway.GenerateProxy when ffmpeg exits
	// unsuccessfully or cannot be started.
	ProxyError struct {
		Input    string
		Output   string
		ExitCode int
		Message  string
		Err      error
	}

	execResult struct {
		stdout   []byte
		stderr   string
		exitCode int
	}
)

func (e *ProbeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("probe of %s failed (exit code %d): %s", e.Path, e.ExitCode, e.Message)
	}

	return fmt.Sprintf("probe of %s failed: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

func (e *ProxyError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("proxy generation for %s failed (exit code %d): %s", e.Input, e.ExitCode, e.Message)
	}

	return fmt.Sprintf("proxy generation for %s failed: %v", e.Input, e.Err)
}

func (e *ProxyError) Unwrap() error { return e.Err }

// execute runs the binary with the arguments provided and waits for it to exit,
// capturing stdout and stderr. The process is killed if the context is cancelled
// or the timeout (if non-zero) elapses, and is always reaped before returning.
func execute(ctx context.Context, timeout time.Duration, bin string, args []string) (*execResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = processWaitDelay

	log.Emit(logger.VERBOSE, "Executing %s %v\n", bin, args)
	err := cmd.Run()
	result := &execResult{stdout: stdout.Bytes(), stderr: stderr.String(), exitCode: -1}
	if cmd.ProcessState != nil {
		result.exitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, fmt.Errorf("%s timed out after %s: %w", bin, timeout, ctxErr)
		} else if ctxErr != nil {
			return result, fmt.Errorf("%s interrupted: %w", bin, ctxErr)
		}

		return result, err
	}

	return result, nil
}

// summariseOutput tries to pick out the relevant failure message from the
// (often huge) output of an ffmpeg/ffprobe process. ffprobe run with -show_error
// prints a JSON error object on stdout, which is preferred. Otherwise the last
// non-empty line of stderr is used, as ffmpeg prints its fatal error last.
func summariseOutput(stdout []byte, stderr string) string {
	var out struct {
		Error *probeError `json:"error"`
	}
	if err := json.Unmarshal(stdout, &out); err == nil && out.Error != nil && out.Error.Message != "" {
		return out.Error.Message
	}

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if len(line) > maxStderrSummary {
			line = line[:maxStderrSummary]
		}
		return line
	}

	return ""
}
