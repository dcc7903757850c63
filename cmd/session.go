package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/FluidXR/droidlog/internal/adb"
	"github.com/FluidXR/droidlog/internal/config"
	"github.com/FluidXR/droidlog/internal/history"
	"github.com/FluidXR/droidlog/internal/logging"
	"github.com/FluidXR/droidlog/internal/settings"
)

var errNoDevice = errors.New("no connected devices")

// session bundles the state a command works on: the adb client, the loaded
// settings snapshot and the device the command targets.
type session struct {
	adb      *adb.Client
	settings *settings.Settings
	path     string
	device   *adb.Device
}

// SelectedDevice implements settings.DeviceQuery.
func (s *session) SelectedDevice() *adb.Device {
	return s.device
}

func newADBClient() *adb.Client {
	c := adb.NewClient(adb.NewExecRunner(cfg.ADBPath, cfg.CommandTimeout))
	c.PidofMinSDK = cfg.PidofMinSDK
	if cfg.ScreenshotDir != "" {
		c.ScreenshotDir = config.ExpandPath(cfg.ScreenshotDir)
	}
	return c
}

// openSession loads the settings file, falling back to defaults when it is
// missing or unreadable.
func openSession() *session {
	path := resolvedSettingsPath()
	s, ok := settings.Load(path)
	if !ok {
		logging.Debug("cli").Str("path", path).Msg("no saved settings, using defaults")
		s = settings.Default()
	}
	return &session{adb: newADBClient(), settings: s, path: path}
}

// selectDevice picks the target device: the explicit name (serial or
// nickname), else the saved device if still connected, else the first
// connected device.
func (s *session) selectDevice(ctx context.Context, name string) (*adb.Device, error) {
	id := cfg.ResolveDevice(name)
	if id == "" {
		ids, err := s.adb.ConnectedDeviceIDs(ctx)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, errNoDevice
		}
		id = ids[0]
		if saved := s.settings.SelectedDeviceID; saved != "" && slices.Contains(ids, saved) {
			id = saved
		}
	}
	d, err := s.adb.Device(ctx, id)
	if err != nil {
		return nil, err
	}
	s.device = d
	return d, nil
}

// keepSavedDevice carries the saved selection forward for commands that do
// not talk to a device, so saving does not clear it.
func (s *session) keepSavedDevice() {
	if s.device == nil && s.settings.SelectedDeviceValid() {
		s.device = &adb.Device{ID: s.settings.SelectedDeviceID}
	}
}

func (s *session) save() error {
	if err := settings.Save(s.settings, s.path, s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// openHistory opens the history database, logging instead of failing so
// device commands still work without it.
func openHistory() *history.DB {
	h, err := history.Open(config.ConfigDir())
	if err != nil {
		logging.Warn("cli").Err(err).Msg("history unavailable")
		return nil
	}
	return h
}
