// Package cli constructs the repoman command-line interface. It wires the Cobra
// command hierarchy to the Viper configuration loader and zap logging, and
// registers the scan, clone, grep and pull commands.
package cli
