// Package utils exposes reusable helpers consumed by the CLI commands.
//
// It houses the ConfigurationLoader, which layers embedded defaults, configuration
// files and REPOMAN_ environment variables through Viper, and the LoggerFactory,
// which builds the zap loggers for diagnostics and console output.
package utils
