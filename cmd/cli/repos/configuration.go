package repos

import (
	"strings"
	"time"

	"github.com/temirov/repoman/internal/manifest"
	"github.com/temirov/repoman/internal/repos/shared"
)

const (
	configurationManifestKeyConstant       = "manifest"
	configurationRootsKeyConstant          = "roots"
	configurationRemoteKeyConstant         = "remote"
	configurationBranchKeyConstant         = "branch"
	configurationFailFastKeyConstant       = "fail_fast"
	configurationCommandTimeoutKeyConstant = "command_timeout"
	configurationCloneDestinationKey       = "clone.destination"
	configurationGrepHistoryKey            = "grep.history"
	configurationPullStashChangesKey       = "pull.stash_changes"
	defaultRepositoryRootConstant          = "."
	defaultCloneDestinationConstant        = "."
)

// FleetConfiguration describes the configuration shared by scan, clone, grep and pull.
type FleetConfiguration struct {
	ManifestPath    string             `mapstructure:"manifest"`
	RepositoryRoots []string           `mapstructure:"roots"`
	RemoteName      string             `mapstructure:"remote"`
	BranchName      string             `mapstructure:"branch"`
	FailFast        bool               `mapstructure:"fail_fast"`
	CommandTimeout  time.Duration      `mapstructure:"command_timeout"`
	Clone           CloneConfiguration `mapstructure:"clone"`
	Grep            GrepConfiguration  `mapstructure:"grep"`
	Pull            PullConfiguration  `mapstructure:"pull"`
}

// CloneConfiguration describes configuration values for clone.
type CloneConfiguration struct {
	Destination string `mapstructure:"destination"`
}

// GrepConfiguration describes configuration values for grep.
type GrepConfiguration struct {
	History bool `mapstructure:"history"`
}

// PullConfiguration describes configuration values for pull.
type PullConfiguration struct {
	StashChanges bool `mapstructure:"stash_changes"`
}

// DefaultFleetConfiguration returns baseline configuration values for the repository workflows.
func DefaultFleetConfiguration() FleetConfiguration {
	return FleetConfiguration{
		ManifestPath:    manifest.DefaultFileNameConstant,
		RepositoryRoots: []string{defaultRepositoryRootConstant},
		RemoteName:      shared.OriginRemoteNameConstant,
		BranchName:      shared.MasterBranchNameConstant,
		FailFast:        false,
		CommandTimeout:  0,
		Clone:           CloneConfiguration{Destination: defaultCloneDestinationConstant},
		Grep:            GrepConfiguration{History: false},
		Pull:            PullConfiguration{StashChanges: false},
	}
}

// DefaultConfigurationValues produces Viper defaults for the repository workflows under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultFleetConfiguration()
	return map[string]any{
		rootKey + "." + configurationManifestKeyConstant:       defaults.ManifestPath,
		rootKey + "." + configurationRootsKeyConstant:          defaults.RepositoryRoots,
		rootKey + "." + configurationRemoteKeyConstant:         defaults.RemoteName,
		rootKey + "." + configurationBranchKeyConstant:         defaults.BranchName,
		rootKey + "." + configurationFailFastKeyConstant:       defaults.FailFast,
		rootKey + "." + configurationCommandTimeoutKeyConstant: defaults.CommandTimeout,
		rootKey + "." + configurationCloneDestinationKey:       defaults.Clone.Destination,
		rootKey + "." + configurationGrepHistoryKey:            defaults.Grep.History,
		rootKey + "." + configurationPullStashChangesKey:       defaults.Pull.StashChanges,
	}
}

// Sanitize trims values, expands home-relative paths and restores defaults for blank entries.
func (configuration FleetConfiguration) Sanitize() FleetConfiguration {
	defaults := DefaultFleetConfiguration()
	sanitized := configuration

	sanitized.ManifestPath = repositoryPathExpander.Expand(configuration.ManifestPath)
	if len(sanitized.ManifestPath) == 0 {
		sanitized.ManifestPath = defaults.ManifestPath
	}

	sanitized.RepositoryRoots = repositoryPathExpander.ExpandAll(configuration.RepositoryRoots)
	if len(sanitized.RepositoryRoots) == 0 {
		sanitized.RepositoryRoots = append([]string{}, defaults.RepositoryRoots...)
	}

	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaults.RemoteName
	}

	sanitized.BranchName = strings.TrimSpace(configuration.BranchName)
	if len(sanitized.BranchName) == 0 {
		sanitized.BranchName = defaults.BranchName
	}

	if sanitized.CommandTimeout < 0 {
		sanitized.CommandTimeout = 0
	}

	sanitized.Clone.Destination = repositoryPathExpander.Expand(configuration.Clone.Destination)
	if len(sanitized.Clone.Destination) == 0 {
		sanitized.Clone.Destination = defaults.Clone.Destination
	}

	return sanitized
}
