package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// PathExpander normalizes paths supplied through flags, arguments and configuration files.
type PathExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewPathExpander constructs a PathExpander that looks up the home directory from the operating system.
func NewPathExpander() *PathExpander {
	return NewPathExpanderWithProvider(os.UserHomeDir)
}

// NewPathExpanderWithProvider constructs a PathExpander with a custom home directory provider.
func NewPathExpanderWithProvider(provider HomeDirectoryProvider) *PathExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &PathExpander{homeDirectoryProvider: provider}
}

// Expand trims whitespace and replaces a leading ~ with the home directory.
// Paths naming another user's home (~name) are returned unchanged.
func (expander *PathExpander) Expand(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if expander == nil || !strings.HasPrefix(trimmedPath, tildeSymbolConstant) {
		return trimmedPath
	}

	var relativePath string
	switch {
	case trimmedPath == tildeSymbolConstant:
		relativePath = ""
	case strings.HasPrefix(trimmedPath, tildeForwardSlashPrefixConstant):
		relativePath = strings.TrimPrefix(trimmedPath, tildeForwardSlashPrefixConstant)
	case strings.HasPrefix(trimmedPath, tildeSymbolConstant+string(os.PathSeparator)):
		relativePath = strings.TrimPrefix(trimmedPath, tildeSymbolConstant+string(os.PathSeparator))
	default:
		return trimmedPath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return trimmedPath
	}
	if len(relativePath) == 0 {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, relativePath)
}

// ExpandAll expands every candidate and drops the blank ones, preserving order.
func (expander *PathExpander) ExpandAll(candidatePaths []string) []string {
	expandedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		expandedPath := expander.Expand(candidatePath)
		if len(expandedPath) == 0 {
			continue
		}
		expandedPaths = append(expandedPaths, expandedPath)
	}
	if len(expandedPaths) == 0 {
		return nil
	}
	return expandedPaths
}

func (expander *PathExpander) resolveHomeDirectory() string {
	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}
