package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/repoman/internal/repos/dependencies"
	"github.com/temirov/repoman/internal/repos/scan"
	"github.com/temirov/repoman/internal/repos/shared"
	flagutils "github.com/temirov/repoman/internal/utils/flags"
)

const (
	scanUseConstant              = "scan [root ...]"
	scanShortDescriptionConstant = "Record the remote of every repository under the roots in the manifest"
	scanLongDescriptionConstant  = "scan walks the roots, queries each repository's remote URL, and overwrites the manifest with the remotes it found. Repositories without the remote are skipped."
)

// ScanCommandBuilder assembles the scan command.
type ScanCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() FleetConfiguration
	Collaborators                WorkflowCollaborators
}

// Build constructs the scan command.
func (builder *ScanCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   scanUseConstant,
		Short: scanShortDescriptionConstant,
		Long:  scanLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultFleetConfiguration()
	flagutils.BindFleetFlags(command, flagutils.FleetFlagValues{
		ManifestPath: defaults.ManifestPath,
		FailFast:     defaults.FailFast,
		RemoteName:   defaults.RemoteName,
	}, flagutils.FleetFlagDefinitions{Manifest: true, FailFast: true, Remote: true})

	return command, nil
}

func (builder *ScanCommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	service, serviceError := scan.NewService(scan.Dependencies{
		Discoverer:        runtime.discoverer,
		RepositoryManager: runtime.gitManager,
		Manifest:          manifestStore,
		Reporter:          shared.NewWriterReporter(command.OutOrStdout()),
	})
	if serviceError != nil {
		return serviceError
	}

	result, scanError := service.Scan(command.Context(), scan.Options{
		Roots:         resolveRoots(arguments, runtime.configuration.RepositoryRoots),
		RemoteName:    flagutils.StringOverride(command, flagutils.RemoteFlagName, runtime.configuration.RemoteName),
		FailurePolicy: runtime.failurePolicy,
	})
	return reportSummary(command, result.Summary, scanError)
}
