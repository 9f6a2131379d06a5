package storage

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vexlabs/device-agent/interfaces"
)

// Credential categories, used as file names and table keys.
const (
	categoryNetwork = "network"
	categoryDevice  = "device"
)

// networkRecord is the serialized form of a default-network pair.
type networkRecord struct {
	SSID     string `cbor:"ssid"`
	Password string `cbor:"password"`
}

// deviceRecord is the serialized form of a device identity.
type deviceRecord struct {
	ID         string `cbor:"id"`
	Secret     string `cbor:"secret"`
	AppAddress string `cbor:"app_address"`
}

func encodeNetwork(creds interfaces.NetworkCredentials) ([]byte, error) {
	return cbor.Marshal(networkRecord{SSID: creds.SSID, Password: creds.Password})
}

// decodeNetwork deserializes and revalidates a network record. A
// record that no longer satisfies the all-or-nothing invariant is
// treated as corrupt.
func decodeNetwork(data []byte) (interfaces.NetworkCredentials, error) {
	var rec networkRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return interfaces.NetworkCredentials{}, fmt.Errorf("corrupt network record: %w", err)
	}
	return interfaces.NewNetworkCredentials(rec.SSID, rec.Password)
}

func encodeDevice(creds interfaces.DeviceCredentials) ([]byte, error) {
	return cbor.Marshal(deviceRecord{
		ID:         creds.ID,
		Secret:     creds.Secret,
		AppAddress: creds.AppAddress.String(),
	})
}

func decodeDevice(data []byte) (interfaces.DeviceCredentials, error) {
	var rec deviceRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return interfaces.DeviceCredentials{}, fmt.Errorf("corrupt device record: %w", err)
	}
	return interfaces.NewDeviceCredentials(rec.ID, rec.Secret, rec.AppAddress)
}
