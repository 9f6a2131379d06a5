package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNetworkCredentials(t *testing.T) {
	tests := []struct {
		name     string
		ssid     string
		password string
		wantErr  error
	}{
		{
			name:     "complete pair",
			ssid:     "shop-floor",
			password: "hunter2",
		},
		{
			name:    "missing password",
			ssid:    "shop-floor",
			wantErr: ErrPartialCredentials,
		},
		{
			name:     "missing ssid",
			password: "hunter2",
			wantErr:  ErrPartialCredentials,
		},
		{
			name:    "both empty",
			wantErr: ErrPartialCredentials,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creds, err := NewNetworkCredentials(tc.ssid, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.ssid, creds.SSID)
			assert.Equal(t, tc.password, creds.Password)
		})
	}
}

func TestNewDeviceCredentials(t *testing.T) {
	creds, err := NewDeviceCredentials("dev-1", "s3cret", "https://app.example.com:443")
	require.NoError(t, err)
	assert.Equal(t, "dev-1", creds.ID)
	assert.Equal(t, "s3cret", creds.Secret)
	assert.Equal(t, "app.example.com:443", creds.AppAddress.Host)

	_, err = NewDeviceCredentials("dev-1", "s3cret", "")
	assert.ErrorIs(t, err, ErrPartialCredentials)

	_, err = NewDeviceCredentials("dev-1", "", "https://app.example.com")
	assert.ErrorIs(t, err, ErrPartialCredentials)

	// Relative addresses have no scheme or host and must be rejected.
	_, err = NewDeviceCredentials("dev-1", "s3cret", "app.example.com/path")
	assert.ErrorIs(t, err, ErrInvalidAppAddress)

	_, err = NewDeviceCredentials("dev-1", "s3cret", "://bad")
	assert.ErrorIs(t, err, ErrInvalidAppAddress)
}

func TestNewStoreLocation(t *testing.T) {
	loc, err := NewStoreLocation("file:///var/lib/device-agent/")
	require.NoError(t, err)
	assert.Equal(t, "file", loc.Scheme)
	assert.Equal(t, "/var/lib/device-agent/", loc.Path)

	loc, err = NewStoreLocation("sqlite:///tmp/creds.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", loc.Scheme)
	assert.Equal(t, "/tmp/creds.db", loc.Path)

	_, err = NewStoreLocation("s3://bucket/creds")
	assert.ErrorIs(t, err, ErrInvalidStoreLocation)
}
