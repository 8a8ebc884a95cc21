package repos

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFleetConfigurationSanitize(testInstance *testing.T) {
	homeDirectory, homeError := os.UserHomeDir()
	require.NoError(testInstance, homeError)

	testCases := []struct {
		name     string
		input    FleetConfiguration
		expected FleetConfiguration
	}{
		{
			name:     "blank_values_restore_defaults",
			input:    FleetConfiguration{ManifestPath: "  ", RemoteName: " ", BranchName: "", CommandTimeout: -time.Second},
			expected: DefaultFleetConfiguration(),
		},
		{
			name: "values_are_trimmed_and_expanded",
			input: FleetConfiguration{
				ManifestPath:    "~/fleet.json",
				RepositoryRoots: []string{" ~/src ", "", "/srv/git"},
				RemoteName:      " upstream ",
				BranchName:      "main\n",
				FailFast:        true,
				CommandTimeout:  time.Minute,
				Clone:           CloneConfiguration{Destination: "~/clones"},
				Grep:            GrepConfiguration{History: true},
				Pull:            PullConfiguration{StashChanges: true},
			},
			expected: FleetConfiguration{
				ManifestPath:    filepath.Join(homeDirectory, "fleet.json"),
				RepositoryRoots: []string{filepath.Join(homeDirectory, "src"), "/srv/git"},
				RemoteName:      "upstream",
				BranchName:      "main",
				FailFast:        true,
				CommandTimeout:  time.Minute,
				Clone:           CloneConfiguration{Destination: filepath.Join(homeDirectory, "clones")},
				Grep:            GrepConfiguration{History: true},
				Pull:            PullConfiguration{StashChanges: true},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, testCase.input.Sanitize())
		})
	}
}

func TestDefaultConfigurationValuesUseRootKey(testInstance *testing.T) {
	values := DefaultConfigurationValues("tools.fleet")

	require.Equal(testInstance, ".git_projects.json", values["tools.fleet.manifest"])
	require.Equal(testInstance, "origin", values["tools.fleet.remote"])
	require.Equal(testInstance, "master", values["tools.fleet.branch"])
	require.Equal(testInstance, []string{"."}, values["tools.fleet.roots"])
	require.Equal(testInstance, false, values["tools.fleet.pull.stash_changes"])
	require.Len(testInstance, values, 9)
}

func TestResolveRootsPrefersArguments(testInstance *testing.T) {
	require.Equal(testInstance, []string{"/srv/a"}, resolveRoots([]string{" /srv/a "}, []string{"."}))
	require.Equal(testInstance, []string{"."}, resolveRoots([]string{"  "}, []string{"."}))
}
