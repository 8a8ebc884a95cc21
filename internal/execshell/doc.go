// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging, lifecycle observers and
// an optional per-command timeout. OSCommandRunner is the os/exec backed runner
// used by repoman to drive the git binary.
package execshell
