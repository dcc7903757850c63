package track

import (
	"context"
	"strings"
	"testing"

	"github.com/FluidXR/droidlog/internal/adb"
	"github.com/FluidXR/droidlog/internal/history"
	"github.com/FluidXR/droidlog/internal/settings"
)

type scriptedRunner map[string]string

func (s scriptedRunner) Run(ctx context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	out, ok := s[key]
	if !ok {
		return "", &adb.CommandError{Kind: adb.ErrExit, Args: args}
	}
	return out, nil
}

func newSettings() *settings.Settings {
	s := settings.Default()
	s.KnownPackages.Add(settings.PackageInfo{DeviceID: "dev", Name: "com.alive", ProcessID: 10})
	s.KnownPackages.Add(settings.PackageInfo{DeviceID: "dev", Name: "com.gone", ProcessID: 11})
	s.KnownPackages.Add(settings.PackageInfo{DeviceID: "other", Name: "com.alive", ProcessID: 12})
	s.SelectedPackage = &settings.PackageInfo{DeviceID: "dev", Name: "com.alive", ProcessID: 10}
	return s
}

func TestRefreshDevice(t *testing.T) {
	runner := scriptedRunner{
		"-s dev shell getprop":            "[ro.build.version.sdk]: [30]\n",
		"-s dev shell pidof -s com.alive": "4321\n",
		"-s dev shell pidof -s com.gone":  "",
	}
	h, err := history.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	s := newSettings()
	r := &Refresher{ADB: adb.NewClient(runner), Settings: s, History: h}
	res, err := r.RefreshDevice(context.Background(), "dev")
	if err != nil {
		t.Fatalf("RefreshDevice: %v", err)
	}
	if res.Alive != 1 || len(res.Exited) != 1 || res.Exited[0] != "com.gone" {
		t.Errorf("result = %+v", res)
	}
	if p, _ := s.KnownPackages.Find("dev", "com.alive"); p.ProcessID != 4321 {
		t.Errorf("com.alive pid = %d", p.ProcessID)
	}
	if p, _ := s.KnownPackages.Find("dev", "com.gone"); p.ProcessID != -1 {
		t.Errorf("com.gone pid = %d", p.ProcessID)
	}
	if p, _ := s.KnownPackages.Find("other", "com.alive"); p.ProcessID != 12 {
		t.Errorf("other device must be untouched, pid = %d", p.ProcessID)
	}
	if s.SelectedPackage.ProcessID != 4321 {
		t.Errorf("selected pid = %d", s.SelectedPackage.ProcessID)
	}
	if l, ok, err := h.LastPid("dev", "com.gone"); err != nil || !ok || l.PID != -1 {
		t.Errorf("history = %+v %v %v", l, ok, err)
	}
}

func TestRefreshAll(t *testing.T) {
	runner := scriptedRunner{
		"devices":              "List of devices attached\ndev\tdevice\nidle\tdevice\nother\tdevice\n",
		"-s dev shell getprop": "[ro.build.version.sdk]: [21]\n",
		"-s dev shell ps":      "u0_a1 900 1 com.alive\n",
	}
	s := newSettings()
	r := &Refresher{ADB: adb.NewClient(runner), Settings: s}
	results, err := r.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].DeviceID != "dev" || results[0].Alive != 1 {
		t.Errorf("dev result = %+v", results[0])
	}
	// "other" has no getprop answer, so it reports an error instead of failing the batch.
	if results[1].DeviceID != "other" || len(results[1].Errors) != 1 {
		t.Errorf("other result = %+v", results[1])
	}
}
