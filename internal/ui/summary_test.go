package ui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoman/internal/repos/shared"
	"github.com/temirov/repoman/internal/ui"
)

func TestSummaryPrinterRendersOutcomeTable(testInstance *testing.T) {
	summary := shared.NewSummary("pull")
	summary.RecordSuccess("/work/api", "")
	summary.RecordSkip("/work/web", "worktree has uncommitted changes")
	summary.RecordFailure("/work/cli", errors.New("failed to checkout branch \"master\""))

	output := &bytes.Buffer{}
	ui.NewSummaryPrinter(output).Print(summary)

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	require.Len(testInstance, lines, 5)
	require.Equal(testInstance, "pull: 1 succeeded, 1 skipped, 1 failed", lines[0])
	require.True(testInstance, strings.HasPrefix(lines[1], "REPOSITORY"))
	require.Contains(testInstance, lines[1], "STATUS")
	require.Contains(testInstance, lines[1], "DETAIL")
	require.Contains(testInstance, lines[2], "/work/api")
	require.Contains(testInstance, lines[2], "succeeded")
	require.Contains(testInstance, lines[3], "worktree has uncommitted changes")
	require.Contains(testInstance, lines[4], "failed")

	statusColumn := strings.Index(lines[1], "STATUS")
	require.Equal(testInstance, statusColumn, strings.Index(lines[2], "succeeded"))
	require.Equal(testInstance, statusColumn, strings.Index(lines[3], "skipped"))
}

func TestSummaryPrinterOmitsTableWhenEmpty(testInstance *testing.T) {
	output := &bytes.Buffer{}
	ui.NewSummaryPrinter(output).Print(shared.NewSummary("scan"))
	require.Equal(testInstance, "scan: 0 succeeded, 0 skipped, 0 failed\n", output.String())
}
