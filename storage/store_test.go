package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vexlabs/device-agent/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// storeRoundtrip exercises the CredentialStore contract against any
// backend.
func storeRoundtrip(t *testing.T, store interfaces.CredentialStore) {
	t.Helper()

	assert.False(t, store.HasDefaultNetwork())
	assert.False(t, store.HasDeviceCredentials())

	_, err := store.DefaultNetwork()
	assert.ErrorIs(t, err, interfaces.ErrCredentialsNotFound)
	_, err = store.DeviceCredentials()
	assert.ErrorIs(t, err, interfaces.ErrCredentialsNotFound)

	// Partial network pairs must be rejected before they hit the medium.
	err = store.StoreDefaultNetwork("only-ssid", "")
	assert.ErrorIs(t, err, interfaces.ErrPartialCredentials)
	assert.False(t, store.HasDefaultNetwork())

	require.NoError(t, store.StoreDefaultNetwork("shop-floor", "hunter2"))
	assert.True(t, store.HasDefaultNetwork())

	network, err := store.DefaultNetwork()
	require.NoError(t, err)
	assert.Equal(t, "shop-floor", network.SSID)
	assert.Equal(t, "hunter2", network.Password)

	device, err := interfaces.NewDeviceCredentials("dev-1", "s3cret", "https://app.example.com")
	require.NoError(t, err)
	require.NoError(t, store.StoreDeviceCredentials(device))
	assert.True(t, store.HasDeviceCredentials())

	loaded, err := store.DeviceCredentials()
	require.NoError(t, err)
	assert.Equal(t, device.ID, loaded.ID)
	assert.Equal(t, device.Secret, loaded.Secret)
	assert.Equal(t, device.AppAddress.String(), loaded.AppAddress.String())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	defer store.Close()

	storeRoundtrip(t, store)
}

func TestFileStoreCorruptRecordCountsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, testLogger())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "network.cbor"), []byte("not cbor"), 0600))
	assert.False(t, store.HasDefaultNetwork())
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.StoreDefaultNetwork("shop-floor", "hunter2"))
	require.NoError(t, store.Close())

	reopened, err := NewFileStore(dir, testLogger())
	require.NoError(t, err)
	defer reopened.Close()
	assert.True(t, reopened.HasDefaultNetwork())
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "credentials.db"), testLogger())
	require.NoError(t, err)
	defer store.Close()

	storeRoundtrip(t, store)
}

func TestSQLiteStoreOverwriteKeepsSingleRecord(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "credentials.db"), testLogger())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.StoreDefaultNetwork("first", "pass1"))
	require.NoError(t, store.StoreDefaultNetwork("second", "pass2"))

	network, err := store.DefaultNetwork()
	require.NoError(t, err)
	assert.Equal(t, "second", network.SSID)
}

func TestMemStore(t *testing.T) {
	storeRoundtrip(t, NewMemStore())
}

func TestStoreFactory(t *testing.T) {
	factory := NewStoreFactory(testLogger())

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "file scheme", uri: "file://" + t.TempDir(), want: "file"},
		{name: "sqlite scheme", uri: "sqlite://" + filepath.Join(t.TempDir(), "c.db"), want: "sqlite"},
		{name: "mem scheme", uri: "mem://", want: "mem"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loc, err := interfaces.NewStoreLocation(tc.uri)
			require.NoError(t, err)

			store, err := factory.StoreFor(loc)
			require.NoError(t, err)
			defer store.Close()
			assert.Equal(t, tc.want, store.Name())
		})
	}
}
