// Package dependencies supplies production defaults for repository workflow collaborators.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/repoman/internal/execshell"
	"github.com/temirov/repoman/internal/gitrepo"
	"github.com/temirov/repoman/internal/manifest"
	"github.com/temirov/repoman/internal/repos/discovery"
	"github.com/temirov/repoman/internal/repos/filesystem"
	"github.com/temirov/repoman/internal/repos/shared"
)

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer) shared.RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer()
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Observers receive command lifecycle events from the default executor.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, options ExecutorOptions) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, options.Observers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor.WithCommandTimeout(options.CommandTimeout), nil
}

// ResolveGitRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveGitRepositoryManager(existing shared.GitRepositoryManager, executor shared.GitExecutor) (shared.GitRepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}

// ResolveManifestStore returns the provided store or a file-backed store at manifestPath.
func ResolveManifestStore(existing shared.ManifestStore, manifestPath string) (shared.ManifestStore, error) {
	if existing != nil {
		return existing, nil
	}
	return manifest.NewStore(manifestPath)
}
