// Package search runs git grep across every repository found under a set of roots.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/temirov/repoman/internal/gitrepo"
	"github.com/temirov/repoman/internal/repos/shared"
)

const (
	workflowNameConstant                    = "grep"
	discovererMissingMessageConstant        = "repository discoverer not configured"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	patternRequiredMessageConstant          = "search pattern must be provided"
	rootsRequiredMessageConstant            = "at least one root must be provided"
	discoveryFailureTemplateConstant        = "failed to discover repositories: %w"
	revisionListFailureTemplateConstant     = "failed to list revisions: %w"
	searchFailureTemplateConstant           = "failed to search: %w"
	outputWriteFailureTemplateConstant      = "failed to write search output: %w"
	repositoryHeadingTemplateConstant       = "Processing Git repository in %s\n"
	noMatchesReasonConstant                 = "no matches"
	emptyHistoryReasonConstant              = "no commits"
	matchedDetailConstant                   = "matched"
)

// ErrRepositoryDiscovererNotConfigured indicates the discoverer dependency was missing.
var ErrRepositoryDiscovererNotConfigured = errors.New(discovererMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrPatternRequired indicates the search pattern was empty.
var ErrPatternRequired = errors.New(patternRequiredMessageConstant)

// ErrRootsRequired indicates no roots were supplied.
var ErrRootsRequired = errors.New(rootsRequiredMessageConstant)

// Dependencies enumerates external collaborators required for searching.
type Dependencies struct {
	Discoverer        shared.RepositoryDiscoverer
	RepositoryManager shared.GitRepositoryManager
	Output            io.Writer
}

// Options configures a search.
type Options struct {
	Roots         []string
	Pattern       string
	Scope         shared.RevisionScope
	FailurePolicy shared.FailurePolicy
}

// Result captures the per-repository outcomes. Repositories without matches are skipped.
type Result struct {
	Summary *shared.Summary
}

// Service searches repositories and streams git grep output verbatim.
type Service struct {
	discoverer        shared.RepositoryDiscoverer
	repositoryManager shared.GitRepositoryManager
	output            io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Discoverer == nil {
		return nil, ErrRepositoryDiscovererNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	output := dependencies.Output
	if output == nil {
		output = os.Stdout
	}
	return &Service{discoverer: dependencies.Discoverer, repositoryManager: dependencies.RepositoryManager, output: output}, nil
}

// Search prints a heading per repository followed by its git grep output. With the
// history scope the pattern is matched against every reachable commit instead of the
// working tree.
func (service *Service) Search(executionContext context.Context, options Options) (Result, error) {
	if len(options.Pattern) == 0 {
		return Result{}, ErrPatternRequired
	}
	if len(options.Roots) == 0 {
		return Result{}, ErrRootsRequired
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

		if _, writeError := fmt.Fprintf(service.output, repositoryHeadingTemplateConstant, repositoryPath); writeError != nil {
			return Result{Summary: summary}, fmt.Errorf(outputWriteFailureTemplateConstant, writeError)
		}

		matched, skipReason, searchError := service.searchRepository(executionContext, repositoryPath, options)
		switch {
		case searchError != nil:
			summary.RecordFailure(repositoryPath, searchError)
			if options.FailurePolicy.ShouldStop() {
				return Result{Summary: summary}, searchError
			}
		case !matched:
			summary.RecordSkip(repositoryPath, skipReason)
		default:
			summary.RecordSuccess(repositoryPath, matchedDetailConstant)
		}
	}

	return Result{Summary: summary}, nil
}

func (service *Service) searchRepository(executionContext context.Context, repositoryPath string, options Options) (bool, string, error) {
	searchOptions := gitrepo.SearchOptions{Pattern: options.Pattern}
	if options.Scope.IncludesHistory() {
		revisions, listError := service.repositoryManager.ListRevisions(executionContext, repositoryPath)
		if listError != nil {
			return false, "", fmt.Errorf(revisionListFailureTemplateConstant, listError)
		}
		if len(revisions) == 0 {
			return false, emptyHistoryReasonConstant, nil
		}
		searchOptions.Revisions = revisions
	}

	searchResult, searchError := service.repositoryManager.Grep(executionContext, repositoryPath, searchOptions)
	if searchError != nil {
		return false, "", fmt.Errorf(searchFailureTemplateConstant, searchError)
	}

	if _, writeError := io.WriteString(service.output, searchResult.Output); writeError != nil {
		return false, "", fmt.Errorf(outputWriteFailureTemplateConstant, writeError)
	}
	if !searchResult.Matched {
		return false, noMatchesReasonConstant, nil
	}
	return true, "", nil
}
