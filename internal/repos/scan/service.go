// Package scan records the remote of every repository found under a set of roots.
package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repoman/internal/execshell"
	"github.com/temirov/repoman/internal/manifest"
	"github.com/temirov/repoman/internal/repos/shared"
)

const (
	workflowNameConstant                     = "scan"
	discovererMissingMessageConstant         = "repository discoverer not configured"
	repositoryManagerMissingMessageConstant  = "repository manager not configured"
	manifestStoreMissingMessageConstant      = "manifest store not configured"
	rootsRequiredMessageConstant             = "at least one root must be provided"
	discoveryFailureTemplateConstant         = "failed to discover repositories: %w"
	manifestWriteFailureTemplateConstant     = "failed to write manifest: %w"
	recordedMessageTemplateConstant          = "SCAN-RECORD: %s %s\n"
	skippedMessageTemplateConstant           = "SCAN-SKIP: %s (no %s remote)\n"
	failedMessageTemplateConstant            = "SCAN-FAIL: %s (%v)\n"
	manifestWrittenMessageTemplateConstant   = "SCAN-DONE: recorded %d of %d repositories in %s\n"
	missingRemoteReasonTemplateConstant      = "no %s remote"
	remoteQueryFailureReasonTemplateConstant = "unable to query %s remote: %w"
)

// ErrRepositoryDiscovererNotConfigured indicates the discoverer dependency was missing.
var ErrRepositoryDiscovererNotConfigured = errors.New(discovererMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrManifestStoreNotConfigured indicates the manifest store dependency was missing.
var ErrManifestStoreNotConfigured = errors.New(manifestStoreMissingMessageConstant)

// ErrRootsRequired indicates no roots were supplied.
var ErrRootsRequired = errors.New(rootsRequiredMessageConstant)

// Dependencies enumerates external collaborators required for scanning.
type Dependencies struct {
	Discoverer        shared.RepositoryDiscoverer
	RepositoryManager shared.GitRepositoryManager
	Manifest          shared.ManifestStore
	Reporter          shared.Reporter
}

// Options configures a scan.
type Options struct {
	Roots         []string
	RemoteName    string
	FailurePolicy shared.FailurePolicy
}

// Result captures the manifest records written and the per-repository outcomes.
type Result struct {
	Records []manifest.Record
	Summary *shared.Summary
}

// Service discovers repositories and records their remotes in the manifest.
type Service struct {
	discoverer        shared.RepositoryDiscoverer
	repositoryManager shared.GitRepositoryManager
	manifestStore     shared.ManifestStore
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
	if dependencies.Manifest == nil {
		return nil, ErrManifestStoreNotConfigured
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	return &Service{
		discoverer:        dependencies.Discoverer,
		repositoryManager: dependencies.RepositoryManager,
		manifestStore:     dependencies.Manifest,
		reporter:          reporter,
	}, nil
}

// Scan discovers repositories under the roots, queries each one's remote, and overwrites
// the manifest with every remote found. Repositories without the remote are skipped.
// Repositories where git could not run at all are failures; under FailureStop the scan
// aborts without touching the manifest.
func (service *Service) Scan(executionContext context.Context, options Options) (Result, error) {
	if len(options.Roots) == 0 {
		return Result{}, ErrRootsRequired
	}
	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.OriginRemoteNameConstant
	}

	repositories, discoveryError := service.discoverer.DiscoverRepositories(options.Roots)
	if discoveryError != nil {
		return Result{}, fmt.Errorf(discoveryFailureTemplateConstant, discoveryError)
	}

	summary := shared.NewSummary(workflowNameConstant)
	records := make([]manifest.Record, 0, len(repositories))

	for _, repositoryPath := range repositories {
		if contextError := executionContext.Err(); contextError != nil {
			return Result{Records: records, Summary: summary}, contextError
		}

		remoteURL, remoteError := service.repositoryManager.GetRemoteURL(executionContext, repositoryPath, remoteName)
		if remoteError != nil {
			var executionFailure execshell.CommandExecutionError
			if errors.As(remoteError, &executionFailure) {
				failure := fmt.Errorf(remoteQueryFailureReasonTemplateConstant, remoteName, remoteError)
				summary.RecordFailure(repositoryPath, failure)
				service.reporter.Printf(failedMessageTemplateConstant, repositoryPath, failure)
				if options.FailurePolicy.ShouldStop() {
					return Result{Records: records, Summary: summary}, failure
				}
				continue
			}
			summary.RecordSkip(repositoryPath, fmt.Sprintf(missingRemoteReasonTemplateConstant, remoteName))
			service.reporter.Printf(skippedMessageTemplateConstant, repositoryPath, remoteName)
			continue
		}

		records = append(records, manifest.Record{Remote: remoteURL})
		summary.RecordSuccess(repositoryPath, remoteURL)
		service.reporter.Printf(recordedMessageTemplateConstant, repositoryPath, remoteURL)
	}

	if writeError := service.manifestStore.Write(executionContext, records); writeError != nil {
		return Result{Records: records, Summary: summary}, fmt.Errorf(manifestWriteFailureTemplateConstant, writeError)
	}
	service.reporter.Printf(manifestWrittenMessageTemplateConstant, len(records), len(repositories), service.manifestStore.Path())

	return Result{Records: records, Summary: summary}, nil
}
