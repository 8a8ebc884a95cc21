package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/repoman/internal/repos/pull"
	"github.com/temirov/repoman/internal/repos/shared"
	flagutils "github.com/temirov/repoman/internal/utils/flags"
)

const (
	pullUseConstant              = "pull [root ...]"
	pullShortDescriptionConstant = "Check out the branch and pull it in every repository under the roots"
	pullLongDescriptionConstant  = "pull checks out the configured branch in each repository and pulls it from the configured remote. Repositories with uncommitted changes are skipped unless --stash is set, which stashes the changes under a labeled entry first."
	pullStashFlagName            = "stash"
	pullStashFlagUsage           = "Stash uncommitted changes before pulling instead of skipping the repository"
)

// PullCommandBuilder assembles the pull command.
type PullCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() FleetConfiguration
	Collaborators                WorkflowCollaborators
}

// Build constructs the pull command.
func (builder *PullCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pullUseConstant,
		Short: pullShortDescriptionConstant,
		Long:  pullLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultFleetConfiguration()
	flagutils.BindFleetFlags(command, flagutils.FleetFlagValues{
		FailFast:   defaults.FailFast,
		RemoteName: defaults.RemoteName,
		BranchName: defaults.BranchName,
	}, flagutils.FleetFlagDefinitions{FailFast: true, Remote: true, Branch: true})
	command.Flags().Bool(pullStashFlagName, defaults.Pull.StashChanges, pullStashFlagUsage)

	return command, nil
}

func (builder *PullCommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	service, serviceError := pull.NewService(pull.Dependencies{
		Discoverer:        runtime.discoverer,
		RepositoryManager: runtime.gitManager,
		Reporter:          shared.NewWriterReporter(command.OutOrStdout()),
	})
	if serviceError != nil {
		return serviceError
	}

	stashChanges := flagutils.BoolOverride(command, pullStashFlagName, runtime.configuration.Pull.StashChanges)
	result, pullError := service.Pull(command.Context(), pull.Options{
		Roots:               resolveRoots(arguments, runtime.configuration.RepositoryRoots),
		RemoteName:          flagutils.StringOverride(command, flagutils.RemoteFlagName, runtime.configuration.RemoteName),
		BranchName:          flagutils.StringOverride(command, flagutils.BranchFlagName, runtime.configuration.BranchName),
		DirtyWorktreePolicy: shared.DirtyWorktreePolicyFromBool(stashChanges),
		FailurePolicy:       runtime.failurePolicy,
	})
	return reportSummary(command, result.Summary, pullError)
}
