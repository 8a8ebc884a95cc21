package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/temirov/repoman/internal/repos/discovery"
)

const (
	developerDirectoryName             = "Dev"
	engineeringGroupDirectoryName      = "Group1"
	applicationRepositoryDirectoryName = "Repo1"
	serviceRepositoryDirectoryName     = "Repo2"
	toolsRepositoryDirectoryName       = "Repo3"
	vendoredDirectoryName              = "vendor"
	nestedRepositoryDirectoryName      = "inner"
	linkedCheckoutDirectoryName        = "worktree"
	symbolicLinkName                   = "shortcut"
	gitMetadataDirectoryName           = ".git"
	singleRootSubtestTitle             = "discoversRepositoriesFromSingleRoot"
	combinedRootsSubtestTitle          = "discoversRepositoriesFromParentAndNestedRoots"
	repositoryDirectoryPermissions     = 0o755
	gitFilePermissions                 = 0o644
)

type repositoryDefinition struct {
	directorySegments []string
}

func (definition repositoryDefinition) repositoryPath(rootDirectory string) string {
	segments := append([]string{rootDirectory}, definition.directorySegments...)
	return filepath.Join(segments...)
}

func (definition repositoryDefinition) gitMetadataPath(rootDirectory string) string {
	return filepath.Join(definition.repositoryPath(rootDirectory), gitMetadataDirectoryName)
}

type filesystemDiscoveryTestScenario struct {
	title                      string
	rootDirectoriesConstructor func(string) []string
}

func buildDiscoveryLayout(testFramework *testing.T, repositoryDefinitions []repositoryDefinition) string {
	testFramework.Helper()

	temporaryRootDirectory := testFramework.TempDir()
	for _, repositoryDefinition := range repositoryDefinitions {
		require.NoError(testFramework, os.MkdirAll(repositoryDefinition.gitMetadataPath(temporaryRootDirectory), repositoryDirectoryPermissions))
	}

	linkedCheckoutPath := filepath.Join(temporaryRootDirectory, developerDirectoryName, linkedCheckoutDirectoryName)
	require.NoError(testFramework, os.MkdirAll(linkedCheckoutPath, repositoryDirectoryPermissions))
	require.NoError(testFramework, os.WriteFile(
		filepath.Join(linkedCheckoutPath, gitMetadataDirectoryName),
		[]byte("gitdir: ../Repo3/.git/worktrees/worktree\n"),
		gitFilePermissions,
	))

	require.NoError(testFramework, os.Symlink(
		filepath.Join(temporaryRootDirectory, developerDirectoryName),
		filepath.Join(temporaryRootDirectory, symbolicLinkName),
	))

	return temporaryRootDirectory
}

func TestFilesystemRepositoryDiscovererDiscoversNestedLayouts(testFramework *testing.T) {
	repositoryDefinitions := []repositoryDefinition{
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, applicationRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, applicationRepositoryDirectoryName, vendoredDirectoryName, nestedRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, serviceRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, toolsRepositoryDirectoryName}},
	}

	testScenarios := []filesystemDiscoveryTestScenario{
		{
			title: singleRootSubtestTitle,
			rootDirectoriesConstructor: func(rootDirectory string) []string {
				return []string{rootDirectory}
			},
		},
		{
			title: combinedRootsSubtestTitle,
			rootDirectoriesConstructor: func(rootDirectory string) []string {
				developerDirectoryPath := filepath.Join(rootDirectory, developerDirectoryName)
				engineeringGroupDirectoryPath := filepath.Join(developerDirectoryPath, engineeringGroupDirectoryName)
				return []string{rootDirectory, developerDirectoryPath, engineeringGroupDirectoryPath}
			},
		},
	}

	for _, testScenario := range testScenarios {
		testFramework.Run(testScenario.title, func(testFramework *testing.T) {
			temporaryRootDirectory := buildDiscoveryLayout(testFramework, repositoryDefinitions)

			repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer()
			discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories(
				testScenario.rootDirectoriesConstructor(temporaryRootDirectory),
			)
			require.NoError(testFramework, discoveryError)

			expectedRepositories := make([]string, 0, len(repositoryDefinitions))
			for _, repositoryDefinition := range repositoryDefinitions {
				expectedRepositories = append(expectedRepositories, repositoryDefinition.repositoryPath(temporaryRootDirectory))
			}

			if difference := cmp.Diff(expectedRepositories, discoveredRepositories); len(difference) > 0 {
				testFramework.Fatalf("discovered repositories mismatch (-want +got):\n%s", difference)
			}
		})
	}
}

func TestFilesystemRepositoryDiscovererSkipsMissingRoots(testFramework *testing.T) {
	repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer()
	discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories(
		[]string{filepath.Join(testFramework.TempDir(), "absent")},
	)
	require.NoError(testFramework, discoveryError)
	require.Empty(testFramework, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererRecognizesInitializedRepositories(testFramework *testing.T) {
	temporaryRootDirectory := testFramework.TempDir()
	workingRepositoryPath := filepath.Join(temporaryRootDirectory, "checkout")
	bareRepositoryPath := filepath.Join(temporaryRootDirectory, "mirror.git")

	_, workingInitError := git.PlainInit(workingRepositoryPath, false)
	require.NoError(testFramework, workingInitError)
	_, bareInitError := git.PlainInit(bareRepositoryPath, true)
	require.NoError(testFramework, bareInitError)

	repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer()
	discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories([]string{temporaryRootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, []string{workingRepositoryPath}, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererSkipsUnreadableDirectories(testFramework *testing.T) {
	if os.Geteuid() == 0 {
		testFramework.Skip("directory permissions are not enforced for root")
	}

	repositoryDefinitions := []repositoryDefinition{
		{directorySegments: []string{developerDirectoryName, applicationRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, serviceRepositoryDirectoryName}},
	}
	temporaryRootDirectory := testFramework.TempDir()
	for _, repositoryDefinition := range repositoryDefinitions {
		require.NoError(testFramework, os.MkdirAll(repositoryDefinition.gitMetadataPath(temporaryRootDirectory), repositoryDirectoryPermissions))
	}

	restrictedDirectoryPath := filepath.Join(temporaryRootDirectory, developerDirectoryName, "restricted")
	require.NoError(testFramework, os.MkdirAll(filepath.Join(restrictedDirectoryPath, toolsRepositoryDirectoryName, gitMetadataDirectoryName), repositoryDirectoryPermissions))
	require.NoError(testFramework, os.Chmod(restrictedDirectoryPath, 0o000))
	testFramework.Cleanup(func() {
		_ = os.Chmod(restrictedDirectoryPath, repositoryDirectoryPermissions)
	})

	repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer()
	discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories([]string{temporaryRootDirectory})
	require.NoError(testFramework, discoveryError)

	expectedRepositories := []string{
		repositoryDefinitions[0].repositoryPath(temporaryRootDirectory),
		repositoryDefinitions[1].repositoryPath(temporaryRootDirectory),
	}
	if difference := cmp.Diff(expectedRepositories, discoveredRepositories); len(difference) > 0 {
		testFramework.Fatalf("discovered repositories mismatch (-want +got):\n%s", difference)
	}
}
