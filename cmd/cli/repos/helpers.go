package repos

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repoman/internal/repos/dependencies"
	"github.com/temirov/repoman/internal/repos/shared"
	"github.com/temirov/repoman/internal/ui"
	"github.com/temirov/repoman/internal/utils"
	flagutils "github.com/temirov/repoman/internal/utils/flags"
	pathutils "github.com/temirov/repoman/internal/utils/path"
)

const (
	workflowConfigurationMessageConstant = "workflow configuration"
	configurationFileFieldConstant       = "config_file"
)

var (
	repositoryPathExpander = pathutils.NewPathExpander()
	commandContextAccessor = utils.NewCommandContextAccessor()
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// WorkflowCollaborators carries optional collaborators shared by the repository commands.
// Nil fields fall back to production implementations.
type WorkflowCollaborators struct {
	Discoverer  shared.RepositoryDiscoverer
	GitExecutor shared.GitExecutor
	GitManager  shared.GitRepositoryManager
	FileSystem  shared.FileSystem
	Manifest    shared.ManifestStore
}

// workflowRuntime holds the resolved collaborators for a single command invocation.
type workflowRuntime struct {
	configuration FleetConfiguration
	failurePolicy shared.FailurePolicy
	discoverer    shared.RepositoryDiscoverer
	gitManager    shared.GitRepositoryManager
	fileSystem    shared.FileSystem
}

type runtimeRequest struct {
	loggerProvider               LoggerProvider
	consoleLoggerProvider        LoggerProvider
	humanReadableLoggingProvider func() bool
	configurationProvider        func() FleetConfiguration
	collaborators                WorkflowCollaborators
}

func resolveRuntime(command *cobra.Command, request runtimeRequest) (workflowRuntime, error) {
	configuration := resolveConfiguration(request.configurationProvider)
	configuration.FailFast = flagutils.BoolOverride(command, flagutils.FailFastFlagName, configuration.FailFast)
	configuration.ManifestPath = repositoryPathExpander.Expand(
		flagutils.StringOverride(command, flagutils.ManifestFlagName, configuration.ManifestPath),
	)

	executorLogger := resolveLogger(request.loggerProvider)
	if configurationFilePath, recorded := commandContextAccessor.ConfigurationFilePath(command.Context()); recorded {
		executorLogger.Debug(workflowConfigurationMessageConstant, zap.String(configurationFileFieldConstant, configurationFilePath))
	}
	executorOptions := dependencies.ExecutorOptions{CommandTimeout: configuration.CommandTimeout}
	if humanReadableLoggingEnabled(request.humanReadableLoggingProvider) {
		consoleLogger := resolveLogger(request.consoleLoggerProvider)
		executorOptions.Observers = append(executorOptions.Observers, ui.NewConsoleCommandEventLogger(consoleLogger))
		executorLogger = zap.NewNop()
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(request.collaborators.GitExecutor, executorLogger, executorOptions)
	if executorError != nil {
		return workflowRuntime{}, executorError
	}

	gitManager, managerError := dependencies.ResolveGitRepositoryManager(request.collaborators.GitManager, gitExecutor)
	if managerError != nil {
		return workflowRuntime{}, managerError
	}

	return workflowRuntime{
		configuration: configuration,
		failurePolicy: shared.FailurePolicyFromBool(configuration.FailFast),
		discoverer:    dependencies.ResolveRepositoryDiscoverer(request.collaborators.Discoverer),
		gitManager:    gitManager,
		fileSystem:    dependencies.ResolveFileSystem(request.collaborators.FileSystem),
	}, nil
}

func resolveConfiguration(provider func() FleetConfiguration) FleetConfiguration {
	if provider == nil {
		return DefaultFleetConfiguration()
	}
	return provider().Sanitize()
}

func resolveRoots(arguments []string, configuredRoots []string) []string {
	if roots := repositoryPathExpander.ExpandAll(arguments); len(roots) > 0 {
		return roots
	}
	return configuredRoots
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func humanReadableLoggingEnabled(provider func() bool) bool {
	if provider == nil {
		return false
	}
	return provider()
}

// reportSummary prints the outcome table and converts failures into the command error.
// workflowError takes precedence so an aborted run reports why it stopped.
func reportSummary(command *cobra.Command, summary *shared.Summary, workflowError error) error {
	if summary != nil {
		ui.NewSummaryPrinter(command.OutOrStdout()).Print(summary)
	}
	if workflowError != nil {
		return workflowError
	}
	if summary == nil {
		return nil
	}
	return summary.Err()
}
