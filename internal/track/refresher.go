package track

import (
	"context"
	"fmt"

	"github.com/FluidXR/droidlog/internal/adb"
	"github.com/FluidXR/droidlog/internal/history"
	"github.com/FluidXR/droidlog/internal/logging"
	"github.com/FluidXR/droidlog/internal/settings"
)

// Refresher re-resolves the process ids of known packages.
type Refresher struct {
	ADB      *adb.Client
	Settings *settings.Settings
	History  *history.DB // optional
}

// Result summarizes a refresh of one device.
type Result struct {
	DeviceID string
	Alive    int
	Exited   []string
	Errors   []string
}

// RefreshAll refreshes every connected device that has known packages.
func (r *Refresher) RefreshAll(ctx context.Context) ([]Result, error) {
	ids, err := r.ADB.ConnectedDeviceIDs(ctx)
	if err != nil {
		return nil, err
	}
	var results []Result
	for _, id := range ids {
		if len(r.Settings.KnownPackages.ForDevice(id)) == 0 {
			continue
		}
		res, err := r.RefreshDevice(ctx, id)
		if err != nil {
			results = append(results, Result{
				DeviceID: id,
				Errors:   []string{err.Error()},
			})
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

// RefreshDevice updates the pid of every known package on one device.
// Packages that are no longer running keep their record with pid -1.
func (r *Refresher) RefreshDevice(ctx context.Context, deviceID string) (Result, error) {
	result := Result{DeviceID: deviceID}

	device, err := r.ADB.Device(ctx, deviceID)
	if err != nil {
		return result, fmt.Errorf("refresh %s: %w", deviceID, err)
	}

	for _, p := range r.Settings.KnownPackages.ForDevice(deviceID) {
		pid := r.ADB.PidFromPackage(ctx, device, p.Name)
		logging.Debug("track").Str("device", deviceID).Str("package", p.Name).Int("pid", pid).Msg("refreshed")

		if pid > 0 {
			result.Alive++
		} else {
			pid = -1
			result.Exited = append(result.Exited, p.Name)
		}
		p.ProcessID = pid
		r.Settings.KnownPackages.Add(p)

		if sel := r.Settings.SelectedPackage; sel != nil && sel.DeviceID == deviceID && sel.Name == p.Name {
			sel.ProcessID = pid
		}

		if r.History != nil {
			if err := r.History.RecordPid(deviceID, p.Name, pid); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("record %s: %v", p.Name, err))
			}
		}
	}
	return result, nil
}
