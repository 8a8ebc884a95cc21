package shared_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoman/internal/repos/shared"
)

func TestSummaryCountsOutcomes(t *testing.T) {
	t.Parallel()

	summary := shared.NewSummary("pull")
	summary.RecordSuccess("/work/a", "")
	summary.RecordSkip("/work/b", "worktree has uncommitted changes")
	summary.RecordFailure("/work/c", errors.New("git checkout master failed with exit code 1"))
	summary.RecordFailure("/work/d", nil)

	require.Equal(t, "pull", summary.Workflow)
	require.Equal(t, 1, summary.Count(shared.OutcomeSucceeded))
	require.Equal(t, 1, summary.Count(shared.OutcomeSkipped))
	require.Equal(t, 2, summary.Count(shared.OutcomeFailed))
	require.True(t, summary.HasFailures())
	require.Equal(t, "git checkout master failed with exit code 1", summary.Outcomes[2].Reason)
	require.Empty(t, summary.Outcomes[3].Reason)

	summaryError := summary.Err()
	require.ErrorIs(t, summaryError, shared.ErrRepositoryFailures)
	require.EqualError(t, summaryError, "one or more repositories failed: 2 of 4")
}

func TestSummaryWithoutFailuresHasNoError(t *testing.T) {
	t.Parallel()

	summary := shared.NewSummary("scan")
	summary.RecordSuccess("/work/a", "git@example.com:a/b.git")
	summary.RecordSkip("/work/b", "no origin remote")

	require.False(t, summary.HasFailures())
	require.NoError(t, summary.Err())
}

func TestPoliciesFromBool(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		flag          bool
		expectStop    bool
		expectStash   bool
		expectHistory bool
	}{
		{name: "disabled", flag: false},
		{name: "enabled", flag: true, expectStop: true, expectStash: true, expectHistory: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, testCase.expectStop, shared.FailurePolicyFromBool(testCase.flag).ShouldStop())
			require.Equal(t, testCase.expectStash, shared.DirtyWorktreePolicyFromBool(testCase.flag).ShouldStash())
			require.Equal(t, testCase.expectHistory, shared.RevisionScopeFromBool(testCase.flag).IncludesHistory())
		})
	}
}
