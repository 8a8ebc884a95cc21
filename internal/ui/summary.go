package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"

	"github.com/temirov/repoman/internal/repos/shared"
)

const (
	summaryHeadlineTemplateConstant = "%s: %d succeeded, %d skipped, %d failed\n"
	repositoryColumnHeaderConstant  = "REPOSITORY"
	statusColumnHeaderConstant      = "STATUS"
	detailColumnHeaderConstant      = "DETAIL"
	tablePaddingConstant            = 2
	succeededColorConstant          = "2"
	skippedColorConstant            = "3"
	failedColorConstant             = "1"
)

// SummaryPrinter renders workflow summaries as an aligned table.
type SummaryPrinter struct {
	writer         io.Writer
	headerStyle    lipgloss.Style
	succeededStyle lipgloss.Style
	skippedStyle   lipgloss.Style
	failedStyle    lipgloss.Style
}

// NewSummaryPrinter constructs a printer writing to writer, or stdout when nil.
// Colors are applied only when writer is a terminal.
func NewSummaryPrinter(writer io.Writer) *SummaryPrinter {
	if writer == nil {
		writer = os.Stdout
	}
	renderer := lipgloss.NewRenderer(writer)
	return &SummaryPrinter{
		writer:         writer,
		headerStyle:    renderer.NewStyle().Bold(true),
		succeededStyle: renderer.NewStyle().Foreground(lipgloss.Color(succeededColorConstant)),
		skippedStyle:   renderer.NewStyle().Foreground(lipgloss.Color(skippedColorConstant)),
		failedStyle:    renderer.NewStyle().Foreground(lipgloss.Color(failedColorConstant)).Bold(true),
	}
}

// Print writes the headline counts followed by one row per repository outcome.
func (printer *SummaryPrinter) Print(summary *shared.Summary) {
	if printer == nil || summary == nil {
		return
	}

	fmt.Fprintf(
		printer.writer,
		summaryHeadlineTemplateConstant,
		printer.headerStyle.Render(summary.Workflow),
		summary.Count(shared.OutcomeSucceeded),
		summary.Count(shared.OutcomeSkipped),
		summary.Count(shared.OutcomeFailed),
	)
	if len(summary.Outcomes) == 0 {
		return
	}

	outcomeTable := table.New(repositoryColumnHeaderConstant, statusColumnHeaderConstant, detailColumnHeaderConstant).
		WithWriter(printer.writer).
		WithPadding(tablePaddingConstant).
		WithWidthFunc(lipgloss.Width)

	for _, outcome := range summary.Outcomes {
		outcomeTable.AddRow(outcome.Repository, printer.renderStatus(outcome.Status), outcome.Reason)
	}
	outcomeTable.Print()
}

func (printer *SummaryPrinter) renderStatus(status shared.OutcomeStatus) string {
	switch status {
	case shared.OutcomeSucceeded:
		return printer.succeededStyle.Render(string(status))
	case shared.OutcomeSkipped:
		return printer.skippedStyle.Render(string(status))
	case shared.OutcomeFailed:
		return printer.failedStyle.Render(string(status))
	default:
		return string(status)
	}
}
