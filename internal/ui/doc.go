// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger turns git command lifecycle events into concise log
// lines, and SummaryPrinter renders the per-repository outcomes of a workflow as
// a table while detailed telemetry continues to flow through structured loggers.
package ui
