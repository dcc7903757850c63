// Package settings holds the persisted session state: the selected device
// and package, log priority, known packages per device, tag and text
// filters, and the memory viewer state.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FluidXR/droidlog/internal/adb"
	"github.com/FluidXR/droidlog/internal/logging"
)

// ErrNilSettings is returned by Save when called without settings.
var ErrNilSettings = errors.New("settings: nil settings")

// Settings is the session snapshot persisted as one JSON document.
type Settings struct {
	SelectedDeviceID          string          `json:"selectedDeviceId"`
	SelectedPackage           *PackageInfo    `json:"selectedPackage"`
	SelectedPriority          Priority        `json:"selectedPriority"`
	KnownPackages             PackageSet      `json:"knownPackages"`
	Tags                      Tags            `json:"tags"`
	MemoryViewer              json.RawMessage `json:"memoryViewerState"`
	Filter                    string          `json:"filter"`
	FilterIsRegularExpression bool            `json:"filterIsRegularExpression"`
}

// Default returns the documented defaults: no device or package selected,
// Verbose priority, no known packages or tags, an empty memory viewer state
// and no filter.
func Default() *Settings {
	s := &Settings{}
	s.Reset()
	return s
}

// Reset restores s to Default.
func (s *Settings) Reset() {
	*s = Settings{
		SelectedPriority: Verbose,
		Tags:             Tags{},
		MemoryViewer:     json.RawMessage(`{}`),
	}
}

// SelectedDeviceValid reports whether a device id has been selected.
func (s *Settings) SelectedDeviceValid() bool {
	return s.SelectedDeviceID != ""
}

// SelectedPackageValid reports whether the selected package names a device
// and a live process.
func (s *Settings) SelectedPackageValid() bool {
	return s.SelectedPackage.Valid()
}

// DeviceQuery exposes the device currently selected by the caller.
type DeviceQuery interface {
	SelectedDevice() *adb.Device
}

// Load reads settings from path. It returns false when the file is missing,
// empty or cannot be decoded; the caller falls back to Default. Fields absent
// from the document keep their default values.
func Load(path string) (*Settings, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("settings").Err(err).Str("path", path).Msg("read settings")
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		logging.Warn("settings").Err(err).Str("path", path).Msg("load settings from json failed")
		return nil, false
	}
	if len(s.MemoryViewer) == 0 || string(s.MemoryViewer) == "null" {
		s.MemoryViewer = json.RawMessage(`{}`)
	}
	if s.Tags == nil {
		s.Tags = Tags{}
	}
	return s, true
}

// Save records the selected device from query into s and writes s to path
// as indented JSON.
func Save(s *Settings, path string, query DeviceQuery) error {
	if s == nil {
		return ErrNilSettings
	}

	s.SelectedDeviceID = ""
	if query != nil {
		if d := query.SelectedDevice(); d != nil {
			s.SelectedDeviceID = d.ID
		}
	}

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	logging.Debug("settings").Str("path", path).Msg("saved")
	return nil
}
