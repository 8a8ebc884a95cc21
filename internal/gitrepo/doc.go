// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for the remote, status, stash, checkout, pull, clone,
// and grep operations the repository workflows run, along with the remote resolver
// that maps a remote URL to the relative path a repository is cloned into.
package gitrepo
