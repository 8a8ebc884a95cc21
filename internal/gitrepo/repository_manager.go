package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repoman/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant     = "git executor not configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	remoteNameRequiredMessageConstant     = "remote name must be provided"
	branchNameRequiredMessageConstant     = "branch name must be provided"
	remoteURLRequiredMessageConstant      = "remote url must be provided"
	destinationRequiredMessageConstant    = "clone destination must be provided"
	patternRequiredMessageConstant        = "search pattern must be provided"
	emptyRemoteURLTemplateConstant        = "remote %q has no url configured"

	gitRemoteSubcommandConstant              = "remote"
	gitGetURLSubcommandConstant              = "get-url"
	gitStatusSubcommandConstant              = "status"
	gitPorcelainFlagConstant                 = "--porcelain"
	gitAddSubcommandConstant                 = "add"
	gitAddAllPathspecConstant                = "."
	gitStashSubcommandConstant               = "stash"
	gitStashPushSubcommandConstant           = "push"
	gitStashMessageFlagConstant              = "--message"
	gitCheckoutSubcommandConstant            = "checkout"
	gitPullSubcommandConstant                = "pull"
	gitCloneSubcommandConstant               = "clone"
	gitRevListSubcommandConstant             = "rev-list"
	gitAllReferencesFlagConstant             = "--all"
	gitGrepSubcommandConstant                = "grep"
	gitGrepAllMatchFlagConstant              = "--all-match"
	gitGrepBreakFlagConstant                 = "--break"
	gitGrepHeadingFlagConstant               = "--heading"
	gitGrepLineNumberFlagConstant            = "--line-number"
	gitGrepColorFlagConstant                 = "--color"
	gitGrepPatternFlagConstant               = "-e"
	gitGrepNoMatchExitCodeConstant           = 1
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant   = "0"
)

// ErrGitExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an operation received an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrRemoteNameRequired indicates an operation received an empty remote name.
var ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)

// ErrBranchNameRequired indicates an operation received an empty branch name.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrRemoteURLRequired indicates a clone received an empty remote URL.
var ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)

// ErrCloneDestinationRequired indicates a clone received an empty destination.
var ErrCloneDestinationRequired = errors.New(destinationRequiredMessageConstant)

// ErrSearchPatternRequired indicates a grep received an empty pattern.
var ErrSearchPatternRequired = errors.New(patternRequiredMessageConstant)

// GitExecutor runs git commands on behalf of the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// SearchOptions configures a git grep invocation.
type SearchOptions struct {
	Pattern   string
	Revisions []string
}

// SearchResult holds the verbatim grep output for one repository.
type SearchResult struct {
	Output  string
	Matched bool
}

// RepositoryManager exposes the git operations the repository workflows rely on.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// GetRemoteURL returns the fetch URL configured for the named remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	trimmedPath, pathError := requireRepositoryPath(repositoryPath)
	if pathError != nil {
		return "", pathError
	}
	trimmedRemote := strings.TrimSpace(remoteName)
	if len(trimmedRemote) == 0 {
		return "", ErrRemoteNameRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, trimmedRemote},
		WorkingDirectory: trimmedPath,
	})
	if executionError != nil {
		return "", executionError
	}

	remoteURL := strings.TrimSpace(executionResult.StandardOutput)
	if len(remoteURL) == 0 {
		return "", fmt.Errorf(emptyRemoteURLTemplateConstant, trimmedRemote)
	}
	return remoteURL, nil
}

// CheckCleanWorktree reports whether git status --porcelain prints nothing.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedPath, pathError := requireRepositoryPath(repositoryPath)
	if pathError != nil {
		return false, pathError
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitPorcelainFlagConstant},
		WorkingDirectory: trimmedPath,
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// StageAll stages every change in the worktree, including untracked files.
func (manager *RepositoryManager) StageAll(executionContext context.Context, repositoryPath string) error {
	return manager.run(executionContext, repositoryPath, nil, gitAddSubcommandConstant, gitAddAllPathspecConstant)
}

// Stash records staged and unstaged changes on the stash under the provided label.
func (manager *RepositoryManager) Stash(executionContext context.Context, repositoryPath string, label string) error {
	arguments := []string{gitStashSubcommandConstant, gitStashPushSubcommandConstant}
	if trimmedLabel := strings.TrimSpace(label); len(trimmedLabel) > 0 {
		arguments = append(arguments, gitStashMessageFlagConstant, trimmedLabel)
	}
	return manager.run(executionContext, repositoryPath, nil, arguments...)
}

// CheckoutBranch switches the worktree to the named branch.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}
	return manager.run(executionContext, repositoryPath, nil, gitCheckoutSubcommandConstant, trimmedBranch)
}

// Pull merges the named branch from the remote into the current branch.
func (manager *RepositoryManager) Pull(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	trimmedRemote := strings.TrimSpace(remoteName)
	if len(trimmedRemote) == 0 {
		return ErrRemoteNameRequired
	}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}
	return manager.run(executionContext, repositoryPath, nonInteractiveEnvironment(), gitPullSubcommandConstant, trimmedRemote, trimmedBranch)
}

// Clone clones remoteURL into destinationPath. The parent of destinationPath must exist.
func (manager *RepositoryManager) Clone(executionContext context.Context, remoteURL string, destinationPath string) error {
	trimmedRemote := strings.TrimSpace(remoteURL)
	if len(trimmedRemote) == 0 {
		return ErrRemoteURLRequired
	}
	trimmedDestination := strings.TrimSpace(destinationPath)
	if len(trimmedDestination) == 0 {
		return ErrCloneDestinationRequired
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitCloneSubcommandConstant, trimmedRemote, trimmedDestination},
		EnvironmentVariables: nonInteractiveEnvironment(),
	})
	return executionError
}

// ListRevisions returns every commit reachable from any ref, newest first.
func (manager *RepositoryManager) ListRevisions(executionContext context.Context, repositoryPath string) ([]string, error) {
	trimmedPath, pathError := requireRepositoryPath(repositoryPath)
	if pathError != nil {
		return nil, pathError
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevListSubcommandConstant, gitAllReferencesFlagConstant},
		WorkingDirectory: trimmedPath,
	})
	if executionError != nil {
		return nil, executionError
	}
	return strings.Fields(executionResult.StandardOutput), nil
}

// Grep searches the repository for lines matching the pattern. Without revisions the
// working tree is searched. A grep that finds nothing is not an error.
func (manager *RepositoryManager) Grep(executionContext context.Context, repositoryPath string, options SearchOptions) (SearchResult, error) {
	trimmedPath, pathError := requireRepositoryPath(repositoryPath)
	if pathError != nil {
		return SearchResult{}, pathError
	}
	if len(options.Pattern) == 0 {
		return SearchResult{}, ErrSearchPatternRequired
	}

	arguments := []string{
		gitGrepSubcommandConstant,
		gitGrepAllMatchFlagConstant,
		gitGrepBreakFlagConstant,
		gitGrepHeadingFlagConstant,
		gitGrepLineNumberFlagConstant,
		gitGrepColorFlagConstant,
		gitGrepPatternFlagConstant,
		options.Pattern,
	}
	arguments = append(arguments, options.Revisions...)

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: trimmedPath,
	})
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) &&
			failedError.Result.ExitCode == gitGrepNoMatchExitCodeConstant &&
			len(strings.TrimSpace(failedError.Result.StandardError)) == 0 {
			return SearchResult{Output: failedError.Result.StandardOutput, Matched: false}, nil
		}
		return SearchResult{}, executionError
	}

	return SearchResult{Output: executionResult.StandardOutput, Matched: len(executionResult.StandardOutput) > 0}, nil
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, environment map[string]string, arguments ...string) error {
	trimmedPath, pathError := requireRepositoryPath(repositoryPath)
	if pathError != nil {
		return pathError
	}
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     trimmedPath,
		EnvironmentVariables: environment,
	})
	return executionError
}

func requireRepositoryPath(repositoryPath string) (string, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return "", ErrRepositoryPathRequired
	}
	return trimmedPath, nil
}

func nonInteractiveEnvironment() map[string]string {
	return map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisabledValueConstant}
}
