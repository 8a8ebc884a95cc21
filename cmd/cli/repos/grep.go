package repos

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/temirov/repoman/internal/repos/search"
	"github.com/temirov/repoman/internal/repos/shared"
	flagutils "github.com/temirov/repoman/internal/utils/flags"
)

const (
	grepUseConstant              = "grep <pattern> [root ...]"
	grepShortDescriptionConstant = "Search every repository under the roots with git grep"
	grepLongDescriptionConstant  = "grep runs git grep in each repository and prints the matches under a per-repository heading. The working tree is searched unless --history is set, in which case every commit reachable from any ref is searched."
	grepHistoryFlagName          = "history"
	grepHistoryFlagUsage         = "Search every commit reachable from any ref instead of the working tree"
	grepPatternRequiredMessage   = "grep requires a search pattern"
)

// GrepCommandBuilder assembles the grep command.
type GrepCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() FleetConfiguration
	Collaborators                WorkflowCollaborators
}

// Build constructs the grep command.
func (builder *GrepCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   grepUseConstant,
		Short: grepShortDescriptionConstant,
		Long:  grepLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	defaults := DefaultFleetConfiguration()
	flagutils.BindFleetFlags(command, flagutils.FleetFlagValues{FailFast: defaults.FailFast}, flagutils.FleetFlagDefinitions{FailFast: true})
	command.Flags().Bool(grepHistoryFlagName, defaults.Grep.History, grepHistoryFlagUsage)

	return command, nil
}

func (builder *GrepCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments[0]) == 0 {
		return errors.New(grepPatternRequiredMessage)
	}

	runtime, runtimeError := resolveRuntime(command, runtimeRequest{
		loggerProvider:               builder.LoggerProvider,
		consoleLoggerProvider:        builder.ConsoleLoggerProvider,
		humanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
		configurationProvider:        builder.ConfigurationProvider,
		collaborators:                builder.Collaborators,
	})
	if runtimeError != nil {
		return runtimeError
	}

	service, serviceError := search.NewService(search.Dependencies{
		Discoverer:        runtime.discoverer,
		RepositoryManager: runtime.gitManager,
		Output:            command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	searchHistory := flagutils.BoolOverride(command, grepHistoryFlagName, runtime.configuration.Grep.History)
	result, searchError := service.Search(command.Context(), search.Options{
		Roots:         resolveRoots(arguments[1:], runtime.configuration.RepositoryRoots),
		Pattern:       arguments[0],
		Scope:         shared.RevisionScopeFromBool(searchHistory),
		FailurePolicy: runtime.failurePolicy,
	})
	return reportSummary(command, result.Summary, searchError)
}
