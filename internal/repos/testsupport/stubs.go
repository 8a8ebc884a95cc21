// Package testsupport provides collaborators shared by repository workflow tests.
package testsupport

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/repoman/internal/gitrepo"
	"github.com/temirov/repoman/internal/manifest"
)

// RepositoryDiscovererStub implements repository discovery for tests.
type RepositoryDiscovererStub struct {
	Repositories   []string
	DiscoveryError error
	ReceivedRoots  []string
}

// DiscoverRepositories records the requested roots and returns the configured repositories.
func (discoverer *RepositoryDiscovererStub) DiscoverRepositories(roots []string) ([]string, error) {
	discoverer.ReceivedRoots = append([]string{}, roots...)
	if discoverer.DiscoveryError != nil {
		return nil, discoverer.DiscoveryError
	}
	return append([]string{}, discoverer.Repositories...), nil
}

// RepositoryManagerStub records repository operations and returns configured outcomes.
// Errors are keyed by "<operation> <repository path>", for example "checkout /work/a".
type RepositoryManagerStub struct {
	Remotes       map[string]string
	DirtyPaths    map[string]bool
	Revisions     map[string][]string
	SearchResults map[string]gitrepo.SearchResult
	Errors        map[string]error
	CloneHook     func(remoteURL string, destinationPath string)

	Operations      []string
	SearchRequests  []gitrepo.SearchOptions
	StashLabels     []string
	ClonedRemotes   []string
	ClonedPaths     []string
	PulledRemotes   []string
	CheckedOutNames []string
}

// GetRemoteURL returns the configured remote or an error when none is configured.
func (manager *RepositoryManagerStub) GetRemoteURL(_ context.Context, repositoryPath string, remoteName string) (string, error) {
	if operationError := manager.record("remote", repositoryPath); operationError != nil {
		return "", operationError
	}
	remoteURL, exists := manager.Remotes[repositoryPath]
	if !exists {
		return "", fmt.Errorf("no %s remote configured for %s", remoteName, repositoryPath)
	}
	return remoteURL, nil
}

// CheckCleanWorktree reports the inverse of DirtyPaths.
func (manager *RepositoryManagerStub) CheckCleanWorktree(_ context.Context, repositoryPath string) (bool, error) {
	if operationError := manager.record("status", repositoryPath); operationError != nil {
		return false, operationError
	}
	return !manager.DirtyPaths[repositoryPath], nil
}

// StageAll records the staging request.
func (manager *RepositoryManagerStub) StageAll(_ context.Context, repositoryPath string) error {
	return manager.record("add", repositoryPath)
}

// Stash records the stash label.
func (manager *RepositoryManagerStub) Stash(_ context.Context, repositoryPath string, label string) error {
	manager.StashLabels = append(manager.StashLabels, label)
	return manager.record("stash", repositoryPath)
}

// CheckoutBranch records the branch switch.
func (manager *RepositoryManagerStub) CheckoutBranch(_ context.Context, repositoryPath string, branchName string) error {
	manager.CheckedOutNames = append(manager.CheckedOutNames, branchName)
	return manager.record("checkout", repositoryPath)
}

// Pull records the remote and branch pulled.
func (manager *RepositoryManagerStub) Pull(_ context.Context, repositoryPath string, remoteName string, branchName string) error {
	manager.PulledRemotes = append(manager.PulledRemotes, remoteName+" "+branchName)
	return manager.record("pull", repositoryPath)
}

// Clone records the clone request keyed by destination path.
func (manager *RepositoryManagerStub) Clone(_ context.Context, remoteURL string, destinationPath string) error {
	manager.ClonedRemotes = append(manager.ClonedRemotes, remoteURL)
	manager.ClonedPaths = append(manager.ClonedPaths, destinationPath)
	if operationError := manager.record("clone", destinationPath); operationError != nil {
		return operationError
	}
	if manager.CloneHook != nil {
		manager.CloneHook(remoteURL, destinationPath)
	}
	return nil
}

// ListRevisions returns the configured revisions.
func (manager *RepositoryManagerStub) ListRevisions(_ context.Context, repositoryPath string) ([]string, error) {
	if operationError := manager.record("rev-list", repositoryPath); operationError != nil {
		return nil, operationError
	}
	return manager.Revisions[repositoryPath], nil
}

// Grep returns the configured search result.
func (manager *RepositoryManagerStub) Grep(_ context.Context, repositoryPath string, options gitrepo.SearchOptions) (gitrepo.SearchResult, error) {
	manager.SearchRequests = append(manager.SearchRequests, options)
	if operationError := manager.record("grep", repositoryPath); operationError != nil {
		return gitrepo.SearchResult{}, operationError
	}
	return manager.SearchResults[repositoryPath], nil
}

// OperationsFor returns the recorded operation names for one repository path.
func (manager *RepositoryManagerStub) OperationsFor(repositoryPath string) []string {
	operations := []string{}
	for _, operation := range manager.Operations {
		name, path, _ := strings.Cut(operation, " ")
		if path == repositoryPath {
			operations = append(operations, name)
		}
	}
	return operations
}

func (manager *RepositoryManagerStub) record(operation string, repositoryPath string) error {
	key := operation + " " + repositoryPath
	manager.Operations = append(manager.Operations, key)
	if manager.Errors == nil {
		return nil
	}
	return manager.Errors[key]
}

// ManifestStoreStub keeps manifest records in memory.
type ManifestStoreStub struct {
	Location   string
	Records    []manifest.Record
	ReadError  error
	WriteError error
	Writes     int
}

// Path returns the configured location.
func (store *ManifestStoreStub) Path() string {
	return store.Location
}

// Read returns the stored records or the configured error.
func (store *ManifestStoreStub) Read(context.Context) ([]manifest.Record, error) {
	if store.ReadError != nil {
		return nil, store.ReadError
	}
	return append([]manifest.Record{}, store.Records...), nil
}

// Write replaces the stored records unless a write error is configured.
func (store *ManifestStoreStub) Write(_ context.Context, records []manifest.Record) error {
	store.Writes++
	if store.WriteError != nil {
		return store.WriteError
	}
	store.Records = append([]manifest.Record{}, records...)
	return nil
}

// FileSystemStub simulates a filesystem where only ExistingPaths are present.
type FileSystemStub struct {
	ExistingPaths map[string]bool
	StatErrors    map[string]error
	MkdirAllError error
	CreatedPaths  []string
}

// Stat reports configured paths as existing directories.
func (fileSystem *FileSystemStub) Stat(path string) (fs.FileInfo, error) {
	if statError, exists := fileSystem.StatErrors[path]; exists {
		return nil, statError
	}
	if fileSystem.ExistingPaths[path] {
		return stubFileInfo{name: filepath.Base(path)}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

// MkdirAll records the requested directory and marks it as existing.
func (fileSystem *FileSystemStub) MkdirAll(path string, _ fs.FileMode) error {
	if fileSystem.MkdirAllError != nil {
		return fileSystem.MkdirAllError
	}
	fileSystem.CreatedPaths = append(fileSystem.CreatedPaths, path)
	if fileSystem.ExistingPaths == nil {
		fileSystem.ExistingPaths = map[string]bool{}
	}
	fileSystem.ExistingPaths[path] = true
	return nil
}

type stubFileInfo struct {
	name string
}

func (info stubFileInfo) Name() string       { return info.name }
func (info stubFileInfo) Size() int64        { return 0 }
func (info stubFileInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o755 }
func (info stubFileInfo) ModTime() time.Time { return time.Time{} }
func (info stubFileInfo) IsDir() bool        { return true }
func (info stubFileInfo) Sys() any           { return nil }
