package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/temirov/repoman/internal/manifest"
)

const (
	testManifestFileNameConstant = "projects.json"
	testSSHRemoteConstant        = "git@example.com:teamA/svc.git"
	testHTTPSRemoteConstant      = "https://example.com/teamB/lib.git"
)

func TestNewStoreRequiresPath(testInstance *testing.T) {
	store, creationError := manifest.NewStore("  ")
	require.Nil(testInstance, store)
	require.ErrorIs(testInstance, creationError, manifest.ErrManifestPathRequired)
}

func TestStoreWriteProducesIndentedJSON(testInstance *testing.T) {
	manifestPath := filepath.Join(testInstance.TempDir(), testManifestFileNameConstant)
	store, creationError := manifest.NewStore(manifestPath)
	require.NoError(testInstance, creationError)

	writeError := store.Write(context.Background(), []manifest.Record{{Remote: testSSHRemoteConstant}, {Remote: testHTTPSRemoteConstant}})
	require.NoError(testInstance, writeError)

	contents, readError := os.ReadFile(manifestPath)
	require.NoError(testInstance, readError)
	expected := "[\n" +
		"  {\n    \"remote\": \"" + testSSHRemoteConstant + "\"\n  },\n" +
		"  {\n    \"remote\": \"" + testHTTPSRemoteConstant + "\"\n  }\n" +
		"]\n"
	require.Equal(testInstance, expected, string(contents))
}

func TestStoreRoundTripPreservesOrderAndDuplicates(testInstance *testing.T) {
	manifestPath := filepath.Join(testInstance.TempDir(), "nested", testManifestFileNameConstant)
	store, creationError := manifest.NewStore(manifestPath)
	require.NoError(testInstance, creationError)

	records := []manifest.Record{
		{Remote: testHTTPSRemoteConstant},
		{Remote: testSSHRemoteConstant},
		{Remote: testHTTPSRemoteConstant},
	}
	require.NoError(testInstance, store.Write(context.Background(), records))

	loaded, loadError := store.Read(context.Background())
	require.NoError(testInstance, loadError)
	if difference := cmp.Diff(records, loaded); len(difference) > 0 {
		testInstance.Fatalf("manifest round trip mismatch (-want +got):\n%s", difference)
	}
}

func TestStoreWriteEmptyManifest(testInstance *testing.T) {
	manifestPath := filepath.Join(testInstance.TempDir(), testManifestFileNameConstant)
	store, creationError := manifest.NewStore(manifestPath)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, store.Write(context.Background(), nil))
	contents, readError := os.ReadFile(manifestPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "[]\n", string(contents))

	loaded, loadError := store.Read(context.Background())
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, loaded)
}

func TestStoreReadMissingManifest(testInstance *testing.T) {
	manifestDirectory := testInstance.TempDir()
	manifestPath := filepath.Join(manifestDirectory, testManifestFileNameConstant)
	store, creationError := manifest.NewStore(manifestPath)
	require.NoError(testInstance, creationError)

	records, readError := store.Read(context.Background())
	require.Nil(testInstance, records)
	require.ErrorIs(testInstance, readError, manifest.ErrManifestNotFound)
	require.ErrorContains(testInstance, readError, "run scan first")

	entries, listError := os.ReadDir(manifestDirectory)
	require.NoError(testInstance, listError)
	require.Empty(testInstance, entries)
}

func TestStoreReadMalformedManifest(testInstance *testing.T) {
	manifestPath := filepath.Join(testInstance.TempDir(), testManifestFileNameConstant)
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(`[{"remote": `), 0o644))
	store, creationError := manifest.NewStore(manifestPath)
	require.NoError(testInstance, creationError)

	_, readError := store.Read(context.Background())
	require.Error(testInstance, readError)
	require.NotErrorIs(testInstance, readError, manifest.ErrManifestNotFound)
	require.ErrorContains(testInstance, readError, manifestPath)
}

func TestStoreWriteTimesOutWhileLocked(testInstance *testing.T) {
	manifestPath := filepath.Join(testInstance.TempDir(), testManifestFileNameConstant)
	holder := flock.New(manifestPath)
	locked, lockError := holder.TryLock()
	require.NoError(testInstance, lockError)
	require.True(testInstance, locked)
	defer func() { _ = holder.Unlock() }()

	store, creationError := manifest.NewStore(manifestPath)
	require.NoError(testInstance, creationError)
	store.WithLockTimeout(200 * time.Millisecond)

	writeError := store.Write(context.Background(), []manifest.Record{{Remote: testSSHRemoteConstant}})
	require.Error(testInstance, writeError)
}
