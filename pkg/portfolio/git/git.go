// Package git runs the git command line tool for portfolio.Publisher.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// Runner implements portfolio.VersionControl by invoking git in Dir.
type Runner struct {
	dir    string
	binary string
}

// Option configures a Runner
type Option func(*Runner)

// WithBinary sets the git executable (DefaultBinary when empty)
func WithBinary(binary string) Option {
	return func(r *Runner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// New creates a runner whose commands run in dir. An empty dir uses the
// process working directory.
func New(dir string, opts ...Option) *Runner {
	r := &Runner{dir: dir, binary: DefaultBinary}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CommandError is returned when git exits unsuccessfully. Its message is the
// tool's own diagnostic text.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	return fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

type result struct {
	stdout   string
	stderr   string
	exitCode int
}

func (r *Runner) run(ctx context.Context, args ...string) (result, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := result{
		stdout: strings.TrimSpace(stdout.String()),
		stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
	} else {
		res.exitCode = -1
	}
	return res, &CommandError{Args: args, ExitCode: res.exitCode, Output: diagnostic(res), Err: err}
}

// diagnostic prefers stderr, then stdout.
func diagnostic(res result) string {
	if res.stderr != "" {
		return res.stderr
	}
	return res.stdout
}

// IsRepo reports whether the directory is inside a git work tree. Running
// outside a repository is not an error; a missing git binary is.
func (r *Runner) IsRepo(ctx context.Context) (bool, error) {
	res, err := r.run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
			return false, nil
		}
		return false, err
	}
	return res.stdout == "true", nil
}

// StageAll runs git add -A
func (r *Runner) StageAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", "-A")
	return err
}

// HasStagedChanges runs git diff --cached --quiet, which exits 1 when the
// index differs from HEAD.
func (r *Runner) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := r.run(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
		return true, nil
	}
	return false, err
}

// Commit runs git commit -m message and returns its output
func (r *Runner) Commit(ctx context.Context, message string) (string, error) {
	res, err := r.run(ctx, "commit", "-m", message)
	if err != nil {
		return "", err
	}
	return res.stdout, nil
}

// Push runs git push remote branch and returns its output. git reports push
// progress on stderr, so both streams are returned.
func (r *Runner) Push(ctx context.Context, remote, branch string) (string, error) {
	res, err := r.run(ctx, "push", remote, branch)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.stdout + "\n" + res.stderr), nil
}
