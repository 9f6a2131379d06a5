package server

// ProvisioningInfo describes the device to the provisioning flow. It
// is built fresh each boot and never persisted.
type ProvisioningInfo struct {
	Manufacturer string
	Model        string
}

// NewProvisioningInfo creates the boot descriptor.
func NewProvisioningInfo(manufacturer, model string) ProvisioningInfo {
	return ProvisioningInfo{Manufacturer: manufacturer, Model: model}
}
