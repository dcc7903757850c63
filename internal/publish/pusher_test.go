package publish

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/FluidXR/droidlog/internal/config"
	"github.com/FluidXR/droidlog/internal/history"
	"github.com/FluidXR/droidlog/internal/rclone"
)

func TestRemotePath(t *testing.T) {
	dest := config.Destination{Name: "nas", RcloneRemote: "nas:droidlog"}
	c := history.Capture{DeviceID: "emulator-5554", LocalPath: filepath.Join("/tmp", "screen_2024.png")}
	if got := RemotePath(dest, c); got != "nas:droidlog/emulator-5554/screen_2024.png" {
		t.Errorf("RemotePath() = %q", got)
	}
}

func TestPushAllUnreachable(t *testing.T) {
	h, err := history.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	cfg := config.DefaultConfig()
	cfg.Destinations = []config.Destination{{Name: "nas", RcloneRemote: "nas:"}}
	p := &Pusher{
		Rclone:  &rclone.Client{Path: "rclone-definitely-not-installed"},
		History: h,
		Config:  cfg,
	}
	results := p.PushAll(context.Background())
	if len(results) != 1 || len(results[0].Errors) != 1 || results[0].Errors[0] != "destination unreachable" {
		t.Errorf("results = %+v", results)
	}
}

func TestPushToDestSkipsMissingFiles(t *testing.T) {
	h, err := history.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if _, err := h.RecordCapture("dev", filepath.Join(t.TempDir(), "gone.png"), time.Now()); err != nil {
		t.Fatal(err)
	}

	p := &Pusher{Rclone: rclone.NewClient(), History: h, Config: config.DefaultConfig()}
	res, err := p.PushToDest(context.Background(), config.Destination{Name: "nas", RcloneRemote: "nas:"})
	if err != nil {
		t.Fatalf("PushToDest: %v", err)
	}
	if res.FilesSkipped != 1 || res.FilesPushed != 0 {
		t.Errorf("result = %+v", res)
	}
}
