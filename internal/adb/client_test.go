package adb

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeRunner answers adb invocations from a table keyed by the joined args.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return f.outputs[key], err
	}
	return f.outputs[key], nil
}

func exitErr(args ...string) error {
	return &CommandError{Kind: ErrExit, Args: args, Output: "error: device offline"}
}

func newTestClient(r Runner) *Client {
	c := NewClient(r)
	c.Now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }
	return c
}

func TestCaptureScreen(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{}
	c := newTestClient(r)
	c.ScreenshotDir = dir

	path, err := c.CaptureScreen(context.Background(), "emulator-5554")
	if err != nil {
		t.Fatalf("CaptureScreen: %v", err)
	}
	want := filepath.Join(dir, "screen_2024-03-05-14-07-09.png")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected 2 adb calls, got %v", r.calls)
	}
	if r.calls[0] != "-s emulator-5554 shell screencap /sdcard/screen.png" {
		t.Errorf("unexpected screencap call %q", r.calls[0])
	}
	if r.calls[1] != "-s emulator-5554 pull /sdcard/screen.png "+want {
		t.Errorf("unexpected pull call %q", r.calls[1])
	}
}

func TestCaptureScreenFailure(t *testing.T) {
	key := "-s dev shell screencap /sdcard/screen.png"
	r := &fakeRunner{errs: map[string]error{key: exitErr(key)}}
	c := newTestClient(r)
	c.ScreenshotDir = t.TempDir()

	path, err := c.CaptureScreen(context.Background(), "dev")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrExit) {
		t.Errorf("expected ErrExit, got %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if len(r.calls) != 1 {
		t.Errorf("pull should not run after failed capture: %v", r.calls)
	}
}

func TestCaptureScreenNoDevice(t *testing.T) {
	r := &fakeRunner{}
	if _, err := newTestClient(r).CaptureScreen(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty device id")
	}
	if len(r.calls) != 0 {
		t.Errorf("no adb call expected, got %v", r.calls)
	}
}

func TestConnectErr(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		err     error
		wantErr bool
	}{
		{"connected", "connected to 10.0.0.5:5555", nil, false},
		{"already", "already connected to 10.0.0.5:5555", nil, false},
		{"refused", "failed to connect to '10.0.0.5:5555': Connection refused", nil, true},
		{"exit", "", exitErr("connect", "10.0.0.5:5555"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "connect 10.0.0.5:5555"
			r := &fakeRunner{outputs: map[string]string{key: tt.out}, errs: map[string]error{}}
			if tt.err != nil {
				r.errs[key] = tt.err
			}
			err := newTestClient(r).ConnectErr(context.Background(), "10.0.0.5:5555")
			if (err != nil) != tt.wantErr {
				t.Errorf("ConnectErr() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTopActivity(t *testing.T) {
	key := "-s dev shell dumpsys activity"
	r := &fakeRunner{outputs: map[string]string{
		key: "  Proc # 0: fore T/A/TOP LCMN t: 0 4242:com.example.app/u0a12 (top-activity)\n",
	}}
	name, pid, ok := newTestClient(r).TopActivity(context.Background(), "dev")
	if !ok || name != "com.example.app" || pid != 4242 {
		t.Errorf("TopActivity() = (%q, %d, %v)", name, pid, ok)
	}

	r.errs = map[string]error{key: exitErr(key)}
	if _, pid, ok := newTestClient(r).TopActivity(context.Background(), "dev"); ok || pid != -1 {
		t.Errorf("TopActivity() on failure = (%d, %v)", pid, ok)
	}
}

func TestPidFromPackage(t *testing.T) {
	modern := &Device{ID: "dev", Properties: map[string]string{PropSDK: "30"}}
	legacy := &Device{ID: "dev", Properties: map[string]string{PropSDK: "23"}}

	tests := []struct {
		name    string
		device  *Device
		minSDK  int
		outputs map[string]string
		errs    map[string]error
		want    int
	}{
		{
			name:    "pidof",
			device:  modern,
			outputs: map[string]string{"-s dev shell pidof -s com.example.app": "5123\n"},
			want:    5123,
		},
		{
			name:    "ps fallback",
			device:  legacy,
			outputs: map[string]string{"-s dev shell ps": psOutput},
			want:    5123,
		},
		{
			name:    "configurable threshold",
			device:  modern,
			minSDK:  31,
			outputs: map[string]string{"-s dev shell ps": psOutput},
			want:    5123,
		},
		{
			name:   "not running",
			device: modern,
			want:   -1,
		},
		{
			name:    "garbage pidof",
			device:  modern,
			outputs: map[string]string{"-s dev shell pidof -s com.example.app": "5123 5124"},
			want:    -1,
		},
		{
			name:   "adb failure",
			device: modern,
			errs:   map[string]error{"-s dev shell pidof -s com.example.app": exitErr()},
			want:   -1,
		},
		{
			name:   "unknown sdk",
			device: &Device{ID: "dev", Properties: map[string]string{}},
			want:   -1,
		},
		{
			name: "nil device",
			want: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{outputs: tt.outputs, errs: tt.errs}
			c := newTestClient(r)
			c.PidofMinSDK = tt.minSDK
			if got := c.PidFromPackage(context.Background(), tt.device, "com.example.app"); got != tt.want {
				t.Errorf("PidFromPackage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConnectedDeviceIDs(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"devices": "List of devices attached\nemulator-5554\tdevice\nabc\toffline\n",
	}}
	ids, err := newTestClient(r).ConnectedDeviceIDs(context.Background())
	if err != nil {
		t.Fatalf("ConnectedDeviceIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "emulator-5554" {
		t.Errorf("ids = %v", ids)
	}

	r.errs = map[string]error{"devices": &CommandError{Kind: ErrNotInstalled}}
	if _, err := newTestClient(r).ConnectedDeviceIDs(context.Background()); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("expected ErrNotInstalled, got %v", err)
	}
}

func TestDevice(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"-s dev shell getprop": "[ro.build.version.sdk]: [33]\n[ro.product.manufacturer]: [Google]\n",
	}}
	d, err := newTestClient(r).Device(context.Background(), "dev")
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if d.ID != "dev" || d.Manufacturer() != "Google" {
		t.Errorf("unexpected device %+v", d)
	}
	if sdk, err := d.SDKVersion(); err != nil || sdk != 33 {
		t.Errorf("SDKVersion() = %d, %v", sdk, err)
	}
}
