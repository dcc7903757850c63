package cmd

import (
	"bufio"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/FluidXR/droidlog/internal/history"
	"github.com/FluidXR/droidlog/internal/settings"
)

func TestTagOps(t *testing.T) {
	var tags settings.Tags

	if _, err := addTag(&tags, "Unity"); err != nil {
		t.Fatalf("addTag: %v", err)
	}
	if _, err := addTag(&tags, "Unity"); err == nil {
		t.Error("adding a duplicate tag should fail")
	}
	msg, err := toggleTag(&tags, "Unity")
	if err != nil || msg != "Tag Unity deselected" {
		t.Errorf("toggleTag = %q, %v", msg, err)
	}
	if _, err := toggleTag(&tags, "missing"); err == nil {
		t.Error("toggling an unknown tag should fail")
	}
	if _, err := removeTag(&tags, "Unity"); err != nil {
		t.Errorf("removeTag: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags = %+v", tags)
	}
}

func TestSelectPackage(t *testing.T) {
	st := settings.Default()
	selectPackage(st, settings.PackageInfo{DeviceID: "dev", Name: "com.a", ProcessID: 42})

	if !st.SelectedPackageValid() || st.SelectedPackage.Name != "com.a" {
		t.Errorf("SelectedPackage = %+v", st.SelectedPackage)
	}
	if _, ok := st.KnownPackages.Find("dev", "com.a"); !ok {
		t.Error("selected package not remembered")
	}
}

func TestCapturesForDevice(t *testing.T) {
	in := []history.Capture{{ID: 1, DeviceID: "a"}, {ID: 2, DeviceID: "b"}, {ID: 3, DeviceID: "a"}}
	got := capturesForDevice(in, "a")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("capturesForDevice = %+v", got)
	}
}

func TestShellCommandRunsPipelines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	out, err := shellCommand("linux", "echo rclone | tr r R").Output()
	if err != nil {
		t.Fatalf("shellCommand: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "Rclone" {
		t.Errorf("output = %q, want Rclone", got)
	}

	win := shellCommand("windows", "winget install Rclone.Rclone")
	if want := []string{"cmd", "/C", "winget install Rclone.Rclone"}; !slices.Equal(win.Args, want) {
		t.Errorf("windows args = %q, want %q", win.Args, want)
	}
}

func TestConfirmed(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no", false},
		{"", true},
	}
	for _, tt := range tests {
		if got := confirmed(bufio.NewReader(strings.NewReader(tt.in))); got != tt.want {
			t.Errorf("confirmed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLastSeen(t *testing.T) {
	h, err := history.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	if got := lastSeen(h, "dev", "com.a"); got != "" {
		t.Errorf("lastSeen on empty history = %q", got)
	}
	if err := h.RecordPid("dev", "com.a", 4321); err != nil {
		t.Fatal(err)
	}
	if got := lastSeen(h, "dev", "com.a"); !strings.Contains(got, "pid 4321") {
		t.Errorf("lastSeen = %q, want pid 4321", got)
	}
	if err := h.RecordPid("dev", "com.a", -1); err != nil {
		t.Fatal(err)
	}
	if got := lastSeen(h, "dev", "com.a"); got != "" {
		t.Errorf("lastSeen after failed lookup = %q, want empty", got)
	}
}
