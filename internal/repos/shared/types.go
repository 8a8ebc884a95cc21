package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/repoman/internal/execshell"
	"github.com/temirov/repoman/internal/gitrepo"
	"github.com/temirov/repoman/internal/manifest"
)

const (
	// OriginRemoteNameConstant identifies the default upstream remote recorded by scan and used by pull.
	OriginRemoteNameConstant = "origin"
	// MasterBranchNameConstant identifies the default branch pull checks out.
	MasterBranchNameConstant = "master"
)

// FileSystem exposes filesystem operations required by repository services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes repository-level git operations.
type GitRepositoryManager interface {
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	StageAll(executionContext context.Context, repositoryPath string) error
	Stash(executionContext context.Context, repositoryPath string, label string) error
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	Pull(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	Clone(executionContext context.Context, remoteURL string, destinationPath string) error
	ListRevisions(executionContext context.Context, repositoryPath string) ([]string, error)
	Grep(executionContext context.Context, repositoryPath string, options gitrepo.SearchOptions) (gitrepo.SearchResult, error)
}

// RepositoryDiscoverer locates Git repositories for bulk operations.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// ManifestStore persists the list of remotes scan records and clone consumes.
type ManifestStore interface {
	Path() string
	Read(executionContext context.Context) ([]manifest.Record, error)
	Write(executionContext context.Context, records []manifest.Record) error
}
