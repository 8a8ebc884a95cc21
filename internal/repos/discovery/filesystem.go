package discovery

import (
	"io/fs"
	"path/filepath"
)

const gitMetadataDirectoryNameConstant = ".git"

// FilesystemRepositoryDiscoverer locates git repositories on disk.
type FilesystemRepositoryDiscoverer struct{}

// NewFilesystemRepositoryDiscoverer constructs a repository discoverer backed by filepath.WalkDir.
func NewFilesystemRepositoryDiscoverer() *FilesystemRepositoryDiscoverer {
	return &FilesystemRepositoryDiscoverer{}
}

// DiscoverRepositories walks the provided roots and returns every directory that directly
// contains a .git directory. Results follow walk order, roots in the order given; a
// repository reachable from several roots is reported once. Entries that cannot be read
// are skipped, symbolic links are not followed, and a .git file does not mark a repository.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	repositories := []string{}

	for _, root := range roots {
		walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return nil
			}

			if !directoryEntry.IsDir() || directoryEntry.Name() != gitMetadataDirectoryNameConstant {
				return nil
			}

			repositoryPath := filepath.Dir(path)
			identity := repositoryIdentity(repositoryPath)
			if _, alreadySeen := seen[identity]; !alreadySeen {
				seen[identity] = struct{}{}
				repositories = append(repositories, repositoryPath)
			}
			return fs.SkipDir
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	return repositories, nil
}

func repositoryIdentity(repositoryPath string) string {
	absolutePath, absoluteError := filepath.Abs(repositoryPath)
	if absoluteError != nil {
		return filepath.Clean(repositoryPath)
	}
	return absolutePath
}
