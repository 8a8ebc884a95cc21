// Package clone recreates the repositories listed in a manifest under a destination root.
package clone

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/repoman/internal/gitrepo"
	"github.com/temirov/repoman/internal/repos/shared"
)

const (
	workflowNameConstant                    = "clone"
	defaultDestinationConstant              = "."
	manifestStoreMissingMessageConstant     = "manifest store not configured"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	fileSystemMissingMessageConstant        = "filesystem not configured"
	manifestReadFailureTemplateConstant     = "failed to read manifest: %w"
	destinationInspectTemplateConstant      = "unable to inspect %s: %w"
	parentDirectoryTemplateConstant         = "unable to create parent directory %s: %w"
	cloneFailureTemplateConstant            = "failed to clone %s: %w"
	alreadyExistsReasonConstant             = "already exists"
	clonedMessageTemplateConstant           = "CLONE-DONE: %s -> %s\n"
	skippedMessageTemplateConstant          = "CLONE-SKIP: %s (%s)\n"
	failedMessageTemplateConstant           = "CLONE-FAIL: %s (%v)\n"
	parentDirectoryPermissionsConstant      = 0o755
)

// ErrManifestStoreNotConfigured indicates the manifest store dependency was missing.
var ErrManifestStoreNotConfigured = errors.New(manifestStoreMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// Dependencies enumerates external collaborators required for cloning.
type Dependencies struct {
	Manifest          shared.ManifestStore
	RepositoryManager shared.GitRepositoryManager
	FileSystem        shared.FileSystem
	Reporter          shared.Reporter
}

// Options configures a clone run.
type Options struct {
	DestinationRoot string
	FailurePolicy   shared.FailurePolicy
}

// Result captures the per-repository outcomes.
type Result struct {
	Summary *shared.Summary
}

// Service clones manifest entries that are not yet present on disk.
type Service struct {
	manifestStore     shared.ManifestStore
	repositoryManager shared.GitRepositoryManager
	fileSystem        shared.FileSystem
	reporter          shared.Reporter
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Manifest == nil {
		return nil, ErrManifestStoreNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	return &Service{
		manifestStore:     dependencies.Manifest,
		repositoryManager: dependencies.RepositoryManager,
		fileSystem:        dependencies.FileSystem,
		reporter:          reporter,
	}, nil
}

// Clone reads the manifest and clones every record into the path its remote resolves to
// under the destination root. Existing paths are skipped. A missing or malformed manifest
// is returned before anything is created.
func (service *Service) Clone(executionContext context.Context, options Options) (Result, error) {
	records, readError := service.manifestStore.Read(executionContext)
	if readError != nil {
		return Result{}, fmt.Errorf(manifestReadFailureTemplateConstant, readError)
	}

	destinationRoot := strings.TrimSpace(options.DestinationRoot)
	if len(destinationRoot) == 0 {
		destinationRoot = defaultDestinationConstant
	}

	summary := shared.NewSummary(workflowNameConstant)
	for _, record := range records {
		if contextError := executionContext.Err(); contextError != nil {
			return Result{Summary: summary}, contextError
		}

		targetPath, skipReason, cloneError := service.cloneRecord(executionContext, destinationRoot, record.Remote)
		switch {
		case cloneError != nil:
			summary.RecordFailure(record.Remote, cloneError)
			service.reporter.Printf(failedMessageTemplateConstant, record.Remote, cloneError)
			if options.FailurePolicy.ShouldStop() {
				return Result{Summary: summary}, cloneError
			}
		case len(skipReason) > 0:
			summary.RecordSkip(targetPath, skipReason)
			service.reporter.Printf(skippedMessageTemplateConstant, targetPath, skipReason)
		default:
			summary.RecordSuccess(targetPath, record.Remote)
			service.reporter.Printf(clonedMessageTemplateConstant, record.Remote, targetPath)
		}
	}

	return Result{Summary: summary}, nil
}

func (service *Service) cloneRecord(executionContext context.Context, destinationRoot string, remoteURL string) (string, string, error) {
	repositoryPath, resolveError := gitrepo.ResolveRepositoryPath(remoteURL)
	if resolveError != nil {
		return "", "", resolveError
	}
	targetPath := filepath.Join(destinationRoot, filepath.FromSlash(repositoryPath))

	if _, statError := service.fileSystem.Stat(targetPath); statError == nil {
		return targetPath, alreadyExistsReasonConstant, nil
	} else if !errors.Is(statError, fs.ErrNotExist) {
		return targetPath, "", fmt.Errorf(destinationInspectTemplateConstant, targetPath, statError)
	}

	parentDirectory := filepath.Dir(targetPath)
	if directoryError := service.fileSystem.MkdirAll(parentDirectory, parentDirectoryPermissionsConstant); directoryError != nil {
		return targetPath, "", fmt.Errorf(parentDirectoryTemplateConstant, parentDirectory, directoryError)
	}

	if cloneError := service.repositoryManager.Clone(executionContext, remoteURL, targetPath); cloneError != nil {
		return targetPath, "", fmt.Errorf(cloneFailureTemplateConstant, remoteURL, cloneError)
	}
	return targetPath, "", nil
}
