package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	h, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestOpenCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	h, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()
	if h.Path() != filepath.Join(dir, "history.db") {
		t.Errorf("Path() = %q", h.Path())
	}
}

func TestCapturesAndUploads(t *testing.T) {
	h := openTest(t)
	base := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	id1, err := h.RecordCapture("dev1", "/tmp/screen_1.png", base)
	if err != nil {
		t.Fatalf("RecordCapture: %v", err)
	}
	id2, err := h.RecordCapture("dev2", "/tmp/screen_2.png", base.Add(time.Minute))
	if err != nil {
		t.Fatalf("RecordCapture: %v", err)
	}
	again, err := h.RecordCapture("dev1", "/tmp/screen_1.png", base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("RecordCapture again: %v", err)
	}
	if again != id1 {
		t.Errorf("re-recording the same path changed id: %d != %d", again, id1)
	}

	all, err := h.ListCaptures("")
	if err != nil {
		t.Fatalf("ListCaptures: %v", err)
	}
	if len(all) != 2 || all[0].ID != id1 {
		t.Fatalf("ListCaptures() = %+v", all)
	}

	only, err := h.ListCaptures("dev2")
	if err != nil {
		t.Fatal(err)
	}
	if len(only) != 1 || only[0].ID != id2 {
		t.Errorf("ListCaptures(dev2) = %+v", only)
	}

	if err := h.RecordUpload(id2, "nas"); err != nil {
		t.Fatalf("RecordUpload: %v", err)
	}
	if err := h.RecordUpload(id2, "nas"); err != nil {
		t.Fatalf("RecordUpload twice: %v", err)
	}
	pending, err := h.PendingUploads("nas")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != id1 {
		t.Errorf("PendingUploads(nas) = %+v", pending)
	}
	pending, err = h.PendingUploads("gdrive")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Errorf("PendingUploads(gdrive) = %+v", pending)
	}

	only, err = h.ListCaptures("dev2")
	if err != nil {
		t.Fatal(err)
	}
	if only[0].Uploads != 1 {
		t.Errorf("uploads = %d, want 1", only[0].Uploads)
	}
}

func TestPidLookups(t *testing.T) {
	h := openTest(t)

	if _, ok, err := h.LastPid("dev", "com.a"); err != nil || ok {
		t.Fatalf("LastPid on empty db = %v, %v", ok, err)
	}
	if err := h.RecordPid("dev", "com.a", 100); err != nil {
		t.Fatal(err)
	}
	if err := h.RecordPid("dev", "com.a", -1); err != nil {
		t.Fatal(err)
	}
	l, ok, err := h.LastPid("dev", "com.a")
	if err != nil || !ok {
		t.Fatalf("LastPid = %v, %v", ok, err)
	}
	if l.PID != -1 {
		t.Errorf("PID = %d, want latest -1", l.PID)
	}
}

func TestFullyUploadedAndDelete(t *testing.T) {
	h := openTest(t)
	now := time.Now()
	a, _ := h.RecordCapture("dev", "/tmp/a.png", now)
	b, _ := h.RecordCapture("dev", "/tmp/b.png", now.Add(time.Second))

	for _, dest := range []string{"nas", "gdrive"} {
		if err := h.RecordUpload(a, dest); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.RecordUpload(b, "nas"); err != nil {
		t.Fatal(err)
	}

	done, err := h.FullyUploaded([]string{"nas", "gdrive"})
	if err != nil {
		t.Fatalf("FullyUploaded: %v", err)
	}
	if len(done) != 1 || done[0].ID != a {
		t.Fatalf("FullyUploaded() = %+v", done)
	}
	if none, _ := h.FullyUploaded(nil); none != nil {
		t.Errorf("FullyUploaded(nil) = %+v", none)
	}

	if err := h.DeleteCapture(a); err != nil {
		t.Fatalf("DeleteCapture: %v", err)
	}
	all, err := h.ListCaptures("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].ID != b {
		t.Errorf("after delete = %+v", all)
	}
}
