package adb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/FluidXR/droidlog/internal/logging"
)

// DefaultPidofMinSDK is the first API level (Android 7) whose toolbox ships `pidof`.
const DefaultPidofMinSDK = 24

const screenshotPathOnDevice = "/sdcard/screen.png"

// Client issues device queries through a Runner.
type Client struct {
	Runner        Runner
	PidofMinSDK   int
	ScreenshotDir string
	Now           func() time.Time
}

// NewClient creates a client with default settings around r.
func NewClient(r Runner) *Client {
	return &Client{
		Runner:        r,
		PidofMinSDK:   DefaultPidofMinSDK,
		ScreenshotDir: os.TempDir(),
		Now:           time.Now,
	}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	logging.Debug("adb").Strs("args", args).Msg("run")
	return c.Runner.Run(ctx, args...)
}

// CaptureScreen takes a screenshot on the device and pulls it to a
// timestamped file in ScreenshotDir, returning the local path.
func (c *Client) CaptureScreen(ctx context.Context, deviceID string) (string, error) {
	if deviceID == "" {
		return "", errors.New("capture screen: no device")
	}
	if _, err := c.run(ctx, "-s", deviceID, "shell", "screencap", screenshotPathOnDevice); err != nil {
		logging.Error("adb").Err(err).Str("device", deviceID).Msg("unable to capture the screen")
		return "", fmt.Errorf("capture screen on %s: %w", deviceID, err)
	}

	dir := c.ScreenshotDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	localPath := filepath.Join(dir, "screen_"+c.now().Format("2006-01-02-15-04-05")+".png")

	if _, err := c.run(ctx, "-s", deviceID, "pull", screenshotPathOnDevice, localPath); err != nil {
		logging.Error("adb").Err(err).Str("device", deviceID).Msg("unable to pull the screenshot")
		return "", fmt.Errorf("pull screenshot from %s: %w", deviceID, err)
	}
	return localPath, nil
}

// Connect connects to a device over the network. Failures are logged only.
func (c *Client) Connect(ctx context.Context, address string) {
	if err := c.ConnectErr(ctx, address); err != nil {
		logging.Error("adb").Err(err).Str("address", address).Msg("unable to connect")
	}
}

// ConnectErr connects to a device over the network. address may include a
// port ("ip:port"); IPv4 and IPv6 are both accepted by adb.
func (c *Client) ConnectErr(ctx context.Context, address string) error {
	out, err := c.run(ctx, "connect", address)
	if err != nil {
		return fmt.Errorf("adb connect %s: %w", address, err)
	}
	// adb exits 0 on "failed to connect" too.
	if !strings.Contains(out, "connected") || strings.Contains(out, "failed") {
		return fmt.Errorf("adb connect %s: %s", address, strings.TrimSpace(out))
	}
	return nil
}

// TopActivity returns the package and pid of the foreground activity.
func (c *Client) TopActivity(ctx context.Context, deviceID string) (string, int, bool) {
	if deviceID == "" {
		return "", -1, false
	}
	out, err := c.run(ctx, "-s", deviceID, "shell", "dumpsys activity")
	if err != nil {
		logging.Error("adb").Err(err).Str("device", deviceID).Msg("unable to get the top activity")
		return "", -1, false
	}
	pid, name := ParseTopActivityPackageInfo(out)
	return name, pid, pid != -1
}

// PidFromPackage returns the pid of packageName on device, or -1. Devices at
// or above PidofMinSDK are queried with `pidof`, older ones by scanning `ps`.
func (c *Client) PidFromPackage(ctx context.Context, device *Device, packageName string) int {
	if device == nil || device.ID == "" {
		return -1
	}
	sdk, err := device.SDKVersion()
	if err != nil {
		logging.Debug("adb").Err(err).Msg("pid lookup")
		return -1
	}

	pidof := sdk >= c.minSDK()
	args := []string{"-s", device.ID, "shell", "ps"}
	if pidof {
		args = []string{"-s", device.ID, "shell", "pidof", "-s", packageName}
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		logging.Debug("adb").Err(err).Str("package", packageName).Msg("unable to get the pid")
		return -1
	}
	if strings.TrimSpace(out) == "" {
		return -1
	}

	if pidof {
		logging.Debug("adb").Str("output", out).Msg("pidof")
		pid, err := strconv.Atoi(strings.TrimSpace(out))
		if err != nil {
			logging.Debug("adb").Err(err).Str("package", packageName).Msg("unable to parse pidof output")
			return -1
		}
		return pid
	}
	return ParsePidInfo(packageName, out)
}

// ConnectedDeviceIDs lists the ids of devices ready for use.
func (c *Client) ConnectedDeviceIDs(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "devices")
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return ParseDeviceIDs(out), nil
}

// Device reads the build properties of the device with the given id.
func (c *Client) Device(ctx context.Context, id string) (*Device, error) {
	if id == "" {
		return nil, errors.New("device: empty id")
	}
	out, err := c.run(ctx, "-s", id, "shell", "getprop")
	if err != nil {
		return nil, fmt.Errorf("getprop %s: %w", id, err)
	}
	return &Device{ID: id, Properties: ParseProperties(out)}, nil
}

func (c *Client) minSDK() int {
	if c.PidofMinSDK > 0 {
		return c.PidofMinSDK
	}
	return DefaultPidofMinSDK
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
