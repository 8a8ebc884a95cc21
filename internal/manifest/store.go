// Package manifest persists the list of repository remotes recorded by scan and
// consumed by clone.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	// DefaultFileNameConstant is the manifest file name used when none is configured.
	DefaultFileNameConstant = ".git_projects.json"

	manifestNotFoundMessageConstant     = "manifest not found; run scan first"
	lockTimeoutMessageConstant          = "timeout acquiring manifest lock"
	manifestPathRequiredMessageConstant = "manifest path must be provided"
	manifestNotFoundTemplateConstant    = "%w: %s"
	manifestStatTemplateConstant        = "unable to inspect manifest %s: %w"
	manifestReadTemplateConstant        = "unable to read manifest %s: %w"
	manifestParseTemplateConstant       = "unable to parse manifest %s: %w"
	manifestEncodeTemplateConstant      = "unable to encode manifest %s: %w"
	manifestWriteTemplateConstant       = "unable to write manifest %s: %w"
	manifestDirectoryTemplateConstant   = "unable to create manifest directory %s: %w"
	readLockTemplateConstant            = "failed to acquire read lock on %s: %w"
	writeLockTemplateConstant           = "failed to acquire write lock on %s: %w"
	jsonIndentConstant                  = "  "
	jsonPrefixConstant                  = ""
	defaultLockTimeoutConstant          = 5 * time.Second
	lockRetryDelayConstant              = 100 * time.Millisecond
	manifestFilePermissionsConstant     = 0o644
	manifestDirectoryPermissionConstant = 0o755
)

// ErrManifestNotFound indicates the manifest file does not exist.
var ErrManifestNotFound = errors.New(manifestNotFoundMessageConstant)

// ErrLockTimeout indicates the manifest lock could not be acquired in time.
var ErrLockTimeout = errors.New(lockTimeoutMessageConstant)

// ErrManifestPathRequired indicates the store was constructed with an empty path.
var ErrManifestPathRequired = errors.New(manifestPathRequiredMessageConstant)

// Record is one manifest entry.
type Record struct {
	Remote string `json:"remote"`
}

// Store reads and writes a JSON manifest guarded by an advisory file lock.
type Store struct {
	path        string
	lockTimeout time.Duration
}

// NewStore constructs a Store for the manifest at path.
func NewStore(path string) (*Store, error) {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return nil, ErrManifestPathRequired
	}
	return &Store{path: trimmedPath, lockTimeout: defaultLockTimeoutConstant}, nil
}

// WithLockTimeout overrides how long Read and Write wait for the file lock.
func (store *Store) WithLockTimeout(timeout time.Duration) *Store {
	if timeout > 0 {
		store.lockTimeout = timeout
	}
	return store
}

// Path returns the manifest location.
func (store *Store) Path() string {
	return store.path
}

// Read loads every record in file order. A missing manifest yields ErrManifestNotFound
// without creating anything on disk.
func (store *Store) Read(executionContext context.Context) ([]Record, error) {
	if _, statError := os.Stat(store.path); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, fmt.Errorf(manifestNotFoundTemplateConstant, ErrManifestNotFound, store.path)
		}
		return nil, fmt.Errorf(manifestStatTemplateConstant, store.path, statError)
	}

	fileLock := flock.New(store.path)
	lockContext, cancel := context.WithTimeout(executionContext, store.lockTimeout)
	defer cancel()

	locked, lockError := fileLock.TryRLockContext(lockContext, lockRetryDelayConstant)
	if lockError != nil {
		return nil, fmt.Errorf(readLockTemplateConstant, store.path, lockError)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	defer func() { _ = fileLock.Unlock() }()

	contents, readError := os.ReadFile(store.path)
	if readError != nil {
		return nil, fmt.Errorf(manifestReadTemplateConstant, store.path, readError)
	}

	records := []Record{}
	if decodeError := json.Unmarshal(contents, &records); decodeError != nil {
		return nil, fmt.Errorf(manifestParseTemplateConstant, store.path, decodeError)
	}
	return records, nil
}

// Write replaces the manifest with records, pretty-printed with a trailing newline.
func (store *Store) Write(executionContext context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	encoded, encodeError := json.MarshalIndent(records, jsonPrefixConstant, jsonIndentConstant)
	if encodeError != nil {
		return fmt.Errorf(manifestEncodeTemplateConstant, store.path, encodeError)
	}
	var buffer bytes.Buffer
	buffer.Write(encoded)
	buffer.WriteByte('\n')

	manifestDirectory := filepath.Dir(store.path)
	if directoryError := os.MkdirAll(manifestDirectory, manifestDirectoryPermissionConstant); directoryError != nil {
		return fmt.Errorf(manifestDirectoryTemplateConstant, manifestDirectory, directoryError)
	}

	fileLock := flock.New(store.path)
	lockContext, cancel := context.WithTimeout(executionContext, store.lockTimeout)
	defer cancel()

	locked, lockError := fileLock.TryLockContext(lockContext, lockRetryDelayConstant)
	if lockError != nil {
		return fmt.Errorf(writeLockTemplateConstant, store.path, lockError)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() { _ = fileLock.Unlock() }()

	if writeError := os.WriteFile(store.path, buffer.Bytes(), manifestFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(manifestWriteTemplateConstant, store.path, writeError)
	}
	return nil
}
