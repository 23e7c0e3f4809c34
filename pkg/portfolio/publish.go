package portfolio

import (
	"context"
	"fmt"
	"strings"
)

// Publish defaults.
const (
	DefaultCommitMessage = "Update portfolio content from local editor"
	DefaultRemote        = "origin"
	DefaultBranch        = "main"
)

// Messages reported by Publish.
const (
	noChangesMessage = "No staged changes to deploy."
	noChangesDetails = "Working tree has no new changes."
)

// Publisher stages, commits and pushes the working tree.
//
// Each step short-circuits on failure. There are no retries and no rollback:
// a push that fails after a successful commit leaves local history ahead of
// the remote.
type Publisher struct {
	vcs    VersionControl
	remote string
	branch string
}

// NewPublisher creates a publisher pushing to remote/branch (origin/main when empty).
func NewPublisher(vcs VersionControl, remote, branch string) *Publisher {
	if remote == "" {
		remote = DefaultRemote
	}
	if branch == "" {
		branch = DefaultBranch
	}
	return &Publisher{vcs: vcs, remote: remote, branch: branch}
}

// Publish commits all pending changes with message and pushes them. When
// nothing is staged it returns a successful result with Changed set to false.
func (p *Publisher) Publish(ctx context.Context, message string) (*PublishResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultCommitMessage
	}

	ok, err := p.vcs.IsRepo(ctx)
	if err != nil {
		return nil, &PublishError{Step: "rev-parse", Output: fmt.Sprintf("%s: %v", ErrNotARepository, err), Err: ErrNotARepository}
	}
	if !ok {
		return nil, &PublishError{Step: "rev-parse", Err: ErrNotARepository}
	}

	if err := p.vcs.StageAll(ctx); err != nil {
		return nil, stepFailed("add", err)
	}

	changed, err := p.vcs.HasStagedChanges(ctx)
	if err != nil {
		return nil, stepFailed("diff", err)
	}
	if !changed {
		return &PublishResult{Message: noChangesMessage, Details: noChangesDetails}, nil
	}

	commitOut, err := p.vcs.Commit(ctx, message)
	if err != nil {
		return nil, stepFailed("commit", err)
	}

	pushOut, err := p.vcs.Push(ctx, p.remote, p.branch)
	if err != nil {
		return nil, stepFailed("push", err)
	}

	return &PublishResult{
		Message: fmt.Sprintf("Deployed successfully to %s/%s", p.remote, p.branch),
		Details: strings.TrimSpace(strings.TrimSpace(commitOut) + "\n" + strings.TrimSpace(pushOut)),
		Changed: true,
	}, nil
}

func stepFailed(step string, err error) *PublishError {
	out := strings.TrimSpace(err.Error())
	if out == "" {
		out = "git " + step + " failed"
	}
	return &PublishError{Step: step, Output: out, Err: ErrPublishFailed}
}
