// Package flags binds the flags shared by the repository workflow commands and
// resolves them against configured values.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	// ManifestFlagName exposes the shared manifest path flag name.
	ManifestFlagName = "manifest"
	// ManifestFlagUsage describes the shared manifest path flag purpose.
	ManifestFlagUsage = "Path to the repository manifest"
	// FailFastFlagName exposes the shared fail-fast flag name.
	FailFastFlagName = "fail-fast"
	// FailFastFlagUsage describes the shared fail-fast flag purpose.
	FailFastFlagUsage = "Stop at the first repository that fails"
	// RemoteFlagName exposes the shared remote flag name.
	RemoteFlagName = "remote"
	// RemoteFlagUsage describes the shared remote flag purpose.
	RemoteFlagUsage = "Remote name to query or pull from"
	// BranchFlagName exposes the shared branch flag name.
	BranchFlagName = "branch"
	// BranchFlagUsage describes the shared branch flag purpose.
	BranchFlagUsage = "Branch to check out and pull"

	choicePlaceholderTemplate = "<%s>"
	choiceSeparatorLiteral    = "|"
	choiceUsageTemplate       = "`%s` %s"
)

// FleetFlagDefinitions selects which shared flags a command exposes.
type FleetFlagDefinitions struct {
	Manifest bool
	FailFast bool
	Remote   bool
	Branch   bool
}

// FleetFlagValues stores the parsed shared flag values.
type FleetFlagValues struct {
	ManifestPath string
	FailFast     bool
	RemoteName   string
	BranchName   string
}

// BindFleetFlags attaches the selected shared flags to the command's local flag set.
// Defaults are shown in help output; configured values win unless the flag is set.
func BindFleetFlags(command *cobra.Command, defaults FleetFlagValues, definitions FleetFlagDefinitions) *FleetFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	flagSet := command.Flags()
	if definitions.Manifest && flagSet.Lookup(ManifestFlagName) == nil {
		flagSet.StringVar(&values.ManifestPath, ManifestFlagName, defaults.ManifestPath, ManifestFlagUsage)
	}
	if definitions.FailFast && flagSet.Lookup(FailFastFlagName) == nil {
		flagSet.BoolVar(&values.FailFast, FailFastFlagName, defaults.FailFast, FailFastFlagUsage)
	}
	if definitions.Remote && flagSet.Lookup(RemoteFlagName) == nil {
		flagSet.StringVar(&values.RemoteName, RemoteFlagName, defaults.RemoteName, RemoteFlagUsage)
	}
	if definitions.Branch && flagSet.Lookup(BranchFlagName) == nil {
		flagSet.StringVar(&values.BranchName, BranchFlagName, defaults.BranchName, BranchFlagUsage)
	}

	return &values
}

// StringOverride returns the flag value when the user set the flag and configuredValue otherwise.
func StringOverride(command *cobra.Command, flagName string, configuredValue string) string {
	if !flagChanged(command, flagName) {
		return configuredValue
	}
	flagValue, lookupError := command.Flags().GetString(flagName)
	if lookupError != nil {
		return configuredValue
	}
	return flagValue
}

// BoolOverride returns the flag value when the user set the flag and configuredValue otherwise.
func BoolOverride(command *cobra.Command, flagName string, configuredValue bool) bool {
	if !flagChanged(command, flagName) {
		return configuredValue
	}
	flagValue, lookupError := command.Flags().GetBool(flagName)
	if lookupError != nil {
		return configuredValue
	}
	return flagValue
}

// FormatChoiceUsage prefixes description with a placeholder listing the choices, the default in upper case.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	rendered := make([]string, 0, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		if strings.EqualFold(trimmedChoice, strings.TrimSpace(defaultChoice)) {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		rendered = append(rendered, trimmedChoice)
	}

	placeholder := fmt.Sprintf(choicePlaceholderTemplate, strings.Join(rendered, choiceSeparatorLiteral))
	return strings.TrimSpace(fmt.Sprintf(choiceUsageTemplate, placeholder, strings.TrimSpace(description)))
}

func flagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	flag := command.Flags().Lookup(flagName)
	return flag != nil && flag.Changed
}
