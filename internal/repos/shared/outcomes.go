package shared

import (
	"errors"
	"fmt"
)

const (
	repositoryFailuresMessageConstant  = "one or more repositories failed"
	repositoryFailuresTemplateConstant = "%w: %d of %d"
)

// ErrRepositoryFailures indicates at least one repository in a workflow failed.
var ErrRepositoryFailures = errors.New(repositoryFailuresMessageConstant)

// OutcomeStatus classifies what happened to one repository.
type OutcomeStatus string

// Outcome statuses reported in the summary.
const (
	OutcomeSucceeded OutcomeStatus = OutcomeStatus("succeeded")
	OutcomeSkipped   OutcomeStatus = OutcomeStatus("skipped")
	OutcomeFailed    OutcomeStatus = OutcomeStatus("failed")
)

// RepositoryOutcome records the result of a workflow step for one repository.
type RepositoryOutcome struct {
	Repository string
	Status     OutcomeStatus
	Reason     string
}

// Summary accumulates repository outcomes for a single workflow run.
type Summary struct {
	Workflow string
	Outcomes []RepositoryOutcome
}

// NewSummary constructs an empty summary for the named workflow.
func NewSummary(workflow string) *Summary {
	return &Summary{Workflow: workflow}
}

// RecordSuccess appends a succeeded outcome.
func (summary *Summary) RecordSuccess(repository string, detail string) {
	summary.Outcomes = append(summary.Outcomes, RepositoryOutcome{Repository: repository, Status: OutcomeSucceeded, Reason: detail})
}

// RecordSkip appends a skipped outcome.
func (summary *Summary) RecordSkip(repository string, reason string) {
	summary.Outcomes = append(summary.Outcomes, RepositoryOutcome{Repository: repository, Status: OutcomeSkipped, Reason: reason})
}

// RecordFailure appends a failed outcome carrying the error text.
func (summary *Summary) RecordFailure(repository string, failure error) {
	reason := ""
	if failure != nil {
		reason = failure.Error()
	}
	summary.Outcomes = append(summary.Outcomes, RepositoryOutcome{Repository: repository, Status: OutcomeFailed, Reason: reason})
}

// Count returns the number of outcomes with the given status.
func (summary *Summary) Count(status OutcomeStatus) int {
	count := 0
	for _, outcome := range summary.Outcomes {
		if outcome.Status == status {
			count++
		}
	}
	return count
}

// HasFailures reports whether any repository failed.
func (summary *Summary) HasFailures() bool {
	return summary.Count(OutcomeFailed) > 0
}

// Err returns ErrRepositoryFailures wrapped with counts when any repository failed.
func (summary *Summary) Err() error {
	failedCount := summary.Count(OutcomeFailed)
	if failedCount == 0 {
		return nil
	}
	return fmt.Errorf(repositoryFailuresTemplateConstant, ErrRepositoryFailures, failedCount, len(summary.Outcomes))
}
