// Package pull synchronizes every repository found under a set of roots with its upstream branch.
package pull

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repoman/internal/repos/shared"
)

const (
	workflowNameConstant                    = "pull"
	discovererMissingMessageConstant        = "repository discoverer not configured"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	rootsRequiredMessageConstant            = "at least one root must be provided"
	discoveryFailureTemplateConstant        = "failed to discover repositories: %w"
	statusFailureTemplateConstant           = "failed to inspect worktree: %w"
	stageFailureTemplateConstant            = "failed to stage changes: %w"
	stashFailureTemplateConstant            = "failed to stash changes: %w"
	checkoutFailureTemplateConstant         = "failed to checkout branch %q: %w"
	pullFailureTemplateConstant             = "failed to pull %s %s: %w"
	stashLabelTemplateConstant              = "repoman: stashed before pulling %s/%s"
	dirtyWorktreeReasonConstant             = "worktree has uncommitted changes"
	stashedDetailConstant                   = "stashed local changes"
	pulledMessageTemplateConstant           = "PULL-DONE: %s (%s/%s)\n"
	stashedMessageTemplateConstant          = "PULL-STASH: %s (%s)\n"
	skippedMessageTemplateConstant          = "PULL-SKIP: %s (%s)\n"
	failedMessageTemplateConstant           = "PULL-FAIL: %s (%v)\n"
)

// ErrRepositoryDiscovererNotConfigured indicates the discoverer dependency was missing.
var ErrRepositoryDiscovererNotConfigured = errors.New(discovererMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrRootsRequired indicates no roots were supplied.
var ErrRootsRequired = errors.New(rootsRequiredMessageConstant)

// Dependencies enumerates external collaborators required for pulling.
type Dependencies struct {
	Discoverer        shared.RepositoryDiscoverer
	RepositoryManager shared.GitRepositoryManager
	Reporter          shared.Reporter
}

// Options configures a pull run.
type Options struct {
	Roots               []string
	RemoteName          string
	BranchName          string
	DirtyWorktreePolicy shared.DirtyWorktreePolicy
	FailurePolicy       shared.FailurePolicy
}

// Result captures the per-repository outcomes.
type Result struct {
	Summary *shared.Summary
}

// Service coordinates checkout and pull across repositories.
type Service struct {
	discoverer        shared.RepositoryDiscoverer
	repositoryManager shared.GitRepositoryManager
	reporter          shared.Reporter
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Discoverer == nil {
		return nil, ErrRepositoryDiscovererNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	return &Service{discoverer: dependencies.Discoverer, repositoryManager: dependencies.RepositoryManager, reporter: reporter}, nil
}

// Pull checks out the branch in every discovered repository and pulls it from the remote.
// Dirty worktrees are skipped unless the policy stashes them first.
func (service *Service) Pull(executionContext context.Context, options Options) (Result, error) {
	if len(options.Roots) == 0 {
		return Result{}, ErrRootsRequired
	}
	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.OriginRemoteNameConstant
	}
	branchName := strings.TrimSpace(options.BranchName)
	if len(branchName) == 0 {
		branchName = shared.MasterBranchNameConstant
	}

	repositories, discoveryError := service.discoverer.DiscoverRepositories(options.Roots)
	if discoveryError != nil {
		return Result{}, fmt.Errorf(discoveryFailureTemplateConstant, discoveryError)
	}

	summary := shared.NewSummary(workflowNameConstant)
	for _, repositoryPath := range repositories {
		if contextError := executionContext.Err(); contextError != nil {
			return Result{Summary: summary}, contextError
		}

		detail, skipReason, pullError := service.pullRepository(executionContext, repositoryPath, remoteName, branchName, options.DirtyWorktreePolicy)
		switch {
		case pullError != nil:
			summary.RecordFailure(repositoryPath, pullError)
			service.reporter.Printf(failedMessageTemplateConstant, repositoryPath, pullError)
			if options.FailurePolicy.ShouldStop() {
				return Result{Summary: summary}, pullError
			}
		case len(skipReason) > 0:
			summary.RecordSkip(repositoryPath, skipReason)
			service.reporter.Printf(skippedMessageTemplateConstant, repositoryPath, skipReason)
		default:
			summary.RecordSuccess(repositoryPath, detail)
			service.reporter.Printf(pulledMessageTemplateConstant, repositoryPath, remoteName, branchName)
		}
	}

	return Result{Summary: summary}, nil
}

func (service *Service) pullRepository(executionContext context.Context, repositoryPath string, remoteName string, branchName string, dirtyPolicy shared.DirtyWorktreePolicy) (string, string, error) {
	clean, statusError := service.repositoryManager.CheckCleanWorktree(executionContext, repositoryPath)
	if statusError != nil {
		return "", "", fmt.Errorf(statusFailureTemplateConstant, statusError)
	}

	detail := ""
	if !clean {
		if !dirtyPolicy.ShouldStash() {
			return "", dirtyWorktreeReasonConstant, nil
		}
		if stageError := service.repositoryManager.StageAll(executionContext, repositoryPath); stageError != nil {
			return "", "", fmt.Errorf(stageFailureTemplateConstant, stageError)
		}
		stashLabel := fmt.Sprintf(stashLabelTemplateConstant, remoteName, branchName)
		if stashError := service.repositoryManager.Stash(executionContext, repositoryPath, stashLabel); stashError != nil {
			return "", "", fmt.Errorf(stashFailureTemplateConstant, stashError)
		}
		service.reporter.Printf(stashedMessageTemplateConstant, repositoryPath, stashLabel)
		detail = stashedDetailConstant
	}

	if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, repositoryPath, branchName); checkoutError != nil {
		return "", "", fmt.Errorf(checkoutFailureTemplateConstant, branchName, checkoutError)
	}
	if pullError := service.repositoryManager.Pull(executionContext, repositoryPath, remoteName, branchName); pullError != nil {
		return "", "", fmt.Errorf(pullFailureTemplateConstant, remoteName, branchName, pullError)
	}
	return detail, "", nil
}
