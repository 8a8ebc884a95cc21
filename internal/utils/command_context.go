package utils

import "context"

type commandContextKey string

const configurationFilePathContextKey commandContextKey = "configurationFilePath"

// CommandContextAccessor stores invocation metadata on command contexts so subcommands
// can report where their configuration came from.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a child of parentContext carrying the configuration file the invocation loaded.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKey, configurationFilePath)
}

// ConfigurationFilePath returns the recorded configuration file. It reports false when the
// invocation ran on embedded defaults only.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, isString := executionContext.Value(configurationFilePathContextKey).(string)
	if !isString || len(configurationFilePath) == 0 {
		return "", false
	}
	return configurationFilePath, true
}
