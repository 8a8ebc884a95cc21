package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/repoman/internal/repos/clone"
	"github.com/temirov/repoman/internal/repos/dependencies"
	"github.com/temirov/repoman/internal/repos/shared"
	flagutils "github.com/temirov/repoman/internal/utils/flags"
)

const (
	cloneUseConstant              = "clone"
	cloneShortDescriptionConstant = "Clone every manifest entry that is missing under the destination"
	cloneLongDescriptionConstant  = "clone reads the manifest written by scan and clones each remote into <destination>/<path>, where the path is derived from the remote URL. Existing paths are skipped."
	cloneDestinationFlagName      = "destination"
	cloneDestinationFlagUsage     = "Directory the repository paths are created under"
)

// CloneCommandBuilder assembles the clone command.
type CloneCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() FleetConfiguration
	Collaborators                WorkflowCollaborators
}

// Build constructs the clone command.
func (builder *CloneCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescriptionConstant,
		Long:  cloneLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultFleetConfiguration()
	flagutils.BindFleetFlags(command, flagutils.FleetFlagValues{
		ManifestPath: defaults.ManifestPath,
		FailFast:     defaults.FailFast,
	}, flagutils.FleetFlagDefinitions{Manifest: true, FailFast: true})
	command.Flags().String(cloneDestinationFlagName, defaults.Clone.Destination, cloneDestinationFlagUsage)

	return command, nil
}

func (builder *CloneCommandBuilder) run(command *cobra.Command, _ []string) error {
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

	manifestStore, manifestError := dependencies.ResolveManifestStore(builder.Collaborators.Manifest, runtime.configuration.ManifestPath)
	if manifestError != nil {
		return manifestError
	}

	service, serviceError := clone.NewService(clone.Dependencies{
		Manifest:          manifestStore,
		RepositoryManager: runtime.gitManager,
		FileSystem:        runtime.fileSystem,
		Reporter:          shared.NewWriterReporter(command.OutOrStdout()),
	})
	if serviceError != nil {
		return serviceError
	}

	destination := repositoryPathExpander.Expand(
		flagutils.StringOverride(command, cloneDestinationFlagName, runtime.configuration.Clone.Destination),
	)

	result, cloneError := service.Clone(command.Context(), clone.Options{
		DestinationRoot: destination,
		FailurePolicy:   runtime.failurePolicy,
	})
	return reportSummary(command, result.Summary, cloneError)
}
