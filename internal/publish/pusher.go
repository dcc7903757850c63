package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FluidXR/droidlog/internal/config"
	"github.com/FluidXR/droidlog/internal/history"
	"github.com/FluidXR/droidlog/internal/logging"
	"github.com/FluidXR/droidlog/internal/rclone"
)

// Pusher uploads captured screenshots to rclone destinations.
type Pusher struct {
	Rclone  *rclone.Client
	History *history.DB
	Config  *config.Config
}

// PushResult summarizes a push to one destination.
type PushResult struct {
	Destination  string
	FilesPushed  int
	FilesSkipped int
	Errors       []string
}

// PushAll uploads pending captures to every configured destination.
func (p *Pusher) PushAll(ctx context.Context) []PushResult {
	var results []PushResult
	for _, dest := range p.Config.Destinations {
		if !p.Rclone.IsReachable(ctx, dest.RcloneRemote) {
			logging.Warn("publish").Str("destination", dest.Name).Msg("unreachable, skipping")
			results = append(results, PushResult{
				Destination: dest.Name,
				Errors:      []string{"destination unreachable"},
			})
			continue
		}
		r, err := p.PushToDest(ctx, dest)
		if err != nil {
			results = append(results, PushResult{
				Destination: dest.Name,
				Errors:      []string{err.Error()},
			})
			continue
		}
		results = append(results, r)
	}
	return results
}

// PushToDest uploads captures not yet recorded for dest. Captures whose
// local file is gone are skipped.
func (p *Pusher) PushToDest(ctx context.Context, dest config.Destination) (PushResult, error) {
	result := PushResult{Destination: dest.Name}

	pending, err := p.History.PendingUploads(dest.Name)
	if err != nil {
		return result, err
	}
	for _, c := range pending {
		if _, err := os.Stat(c.LocalPath); err != nil {
			result.FilesSkipped++
			continue
		}
		remote := RemotePath(dest, c)
		logging.Info("publish").Str("file", c.LocalPath).Str("remote", remote).Msg("uploading")
		if err := p.Rclone.Copy(ctx, c.LocalPath, remote); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("push %s: %v", c.LocalPath, err))
			continue
		}
		if err := p.History.RecordUpload(c.ID, dest.Name); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record upload %s: %v", c.LocalPath, err))
			continue
		}
		result.FilesPushed++
	}
	return result, nil
}

// RemotePath places a capture under <remote>/<device id>/<file name>.
func RemotePath(dest config.Destination, c history.Capture) string {
	return rclone.JoinRemote(dest.RcloneRemote, c.DeviceID+"/"+filepath.Base(c.LocalPath))
}
