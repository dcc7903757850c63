package adb

import (
	"fmt"
	"strconv"
	"strings"
)

// Device property keys read from `getprop`.
const (
	PropSDK          = "ro.build.version.sdk"
	PropRelease      = "ro.build.version.release"
	PropManufacturer = "ro.product.manufacturer"
	PropModel        = "ro.product.model"
	PropABI          = "ro.product.cpu.abi"
)

// Transport indicates how a device is connected.
type Transport string

const (
	USB  Transport = "usb"
	WiFi Transport = "wifi"
)

// Device is a read-only view over a connected device's build properties.
type Device struct {
	ID         string
	Properties map[string]string
}

// SDKVersion returns the device API level.
func (d *Device) SDKVersion() (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(d.Properties[PropSDK]))
	if err != nil {
		return 0, fmt.Errorf("parse %s of %s: %w", PropSDK, d.ID, err)
	}
	return v, nil
}

// Manufacturer returns ro.product.manufacturer.
func (d *Device) Manufacturer() string { return d.Properties[PropManufacturer] }

// Model returns ro.product.model.
func (d *Device) Model() string { return d.Properties[PropModel] }

// OSVersion returns the Android release, ro.build.version.release.
func (d *Device) OSVersion() string { return d.Properties[PropRelease] }

// ABI returns the primary CPU ABI, ro.product.cpu.abi.
func (d *Device) ABI() string { return d.Properties[PropABI] }

// Transport reports WiFi for host:port ids, USB otherwise.
func (d *Device) Transport() Transport {
	if strings.Contains(d.ID, ":") {
		return WiFi
	}
	return USB
}

// Details formats a one-line description of the device. When d is nil the
// id is returned unchanged.
func Details(d *Device, id string) string {
	if d == nil {
		return id
	}
	return fmt.Sprintf("%s %s (version: %s, sdk: %s, id: %s)",
		d.Manufacturer(), d.Model(), d.OSVersion(), d.Properties[PropSDK], id)
}
