package gitrepo

import (
	"fmt"
	"path"
	"strings"
)

const (
	httpProtocolPrefixConstant          = "http"
	schemeSeparatorConstant             = "://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	parentDirectoryReferenceConstant    = ".."
	currentDirectoryReferenceConstant   = "."
	gitSuffixConstant                   = ".git"
	httpDiscardedSegmentCountConstant   = 3
	httpHostSegmentIndexConstant        = 2
	remoteURLParseErrorTemplateConstant = "%s: %q"
	unresolvableRemoteMessageConstant   = "cannot resolve repository path"
	missingGitSuffixMessageConstant     = "cannot resolve repository path: missing .git suffix"
	unsafeRepositoryPathMessageConstant = "cannot resolve repository path: path escapes destination"
)

// RemoteStyle enumerates the remote URL shapes the resolver understands.
type RemoteStyle string

// Supported remote styles.
const (
	RemoteStyleSSH  RemoteStyle = RemoteStyle("ssh")
	RemoteStyleHTTP RemoteStyle = RemoteStyle("http")
)

// RemoteURL is the structured form of a remote the resolver accepted.
type RemoteURL struct {
	Style RemoteStyle
	Host  string
	// Path is the repository path relative to the host with the .git suffix removed.
	Path string
}

// RemoteURLParseError indicates a remote string could not be turned into a repository path.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Message, parseError.Input)
}

// ParseRemoteURL classifies a remote as SSH-style (user@host:path.git) or HTTP-style
// (http[s]://host/path.git) and extracts its host and repository path.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)

	var parsed RemoteURL
	var parseError error
	switch {
	case strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		parsed, parseError = parseHTTPRemote(trimmedRemote)
	case isSSHStyleRemote(trimmedRemote):
		parsed, parseError = parseSSHRemote(trimmedRemote)
	default:
		parseError = RemoteURLParseError{Input: remote, Message: unresolvableRemoteMessageConstant}
	}
	if parseError != nil {
		return RemoteURL{}, parseError
	}

	if !isSafeRelativePath(parsed.Path) {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: unsafeRepositoryPathMessageConstant}
	}
	return parsed, nil
}

// ResolveRepositoryPath derives the relative filesystem path a remote is cloned into.
func ResolveRepositoryPath(remote string) (string, error) {
	parsed, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return "", parseError
	}
	return parsed.Path, nil
}

func isSSHStyleRemote(remote string) bool {
	if strings.Contains(remote, schemeSeparatorConstant) {
		return false
	}
	userIndex := strings.Index(remote, sshUserDelimiterConstant)
	pathIndex := strings.Index(remote, sshPathDelimiterConstant)
	return userIndex > 0 && pathIndex > userIndex
}

// parseSSHRemote takes the segment after the first colon, mirroring user@host:path.git.
func parseSSHRemote(remote string) (RemoteURL, error) {
	segments := strings.Split(remote, sshPathDelimiterConstant)
	if len(segments) < 2 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: unresolvableRemoteMessageConstant}
	}

	repositoryPath, hasSuffix := strings.CutSuffix(segments[1], gitSuffixConstant)
	if !hasSuffix {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: missingGitSuffixMessageConstant}
	}

	userAndHost := segments[0]
	host := userAndHost[strings.Index(userAndHost, sshUserDelimiterConstant)+1:]

	return RemoteURL{Style: RemoteStyleSSH, Host: host, Path: repositoryPath}, nil
}

// parseHTTPRemote drops scheme, empty authority separator and host, keeping the rest.
func parseHTTPRemote(remote string) (RemoteURL, error) {
	segments := strings.Split(remote, pathSeparatorConstant)

	host := ""
	if len(segments) > httpHostSegmentIndexConstant {
		host = segments[httpHostSegmentIndexConstant]
	}

	remaining := []string{}
	if len(segments) > httpDiscardedSegmentCountConstant {
		remaining = segments[httpDiscardedSegmentCountConstant:]
	}

	repositoryPath, hasSuffix := strings.CutSuffix(strings.Join(remaining, pathSeparatorConstant), gitSuffixConstant)
	if !hasSuffix {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: missingGitSuffixMessageConstant}
	}

	return RemoteURL{Style: RemoteStyleHTTP, Host: host, Path: repositoryPath}, nil
}

func isSafeRelativePath(repositoryPath string) bool {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return false
	}
	if strings.HasPrefix(repositoryPath, pathSeparatorConstant) {
		return false
	}
	cleanedPath := path.Clean(repositoryPath)
	if cleanedPath == currentDirectoryReferenceConstant {
		return false
	}
	for _, segment := range strings.Split(cleanedPath, pathSeparatorConstant) {
		if segment == parentDirectoryReferenceConstant {
			return false
		}
	}
	return true
}
