package history

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Capture is a screenshot pulled from a device.
type Capture struct {
	ID         int64
	DeviceID   string
	LocalPath  string
	CapturedAt time.Time
	Uploads    int
}

// PidLookup records a resolved process id.
type PidLookup struct {
	DeviceID   string
	Package    string
	PID        int
	ResolvedAt time.Time
}

// RecordCapture inserts a capture, or refreshes it if the path is known.
func (h *DB) RecordCapture(deviceID, localPath string, at time.Time) (int64, error) {
	_, err := h.db.Exec(
		`INSERT INTO captures (device_id, local_path, captured_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(local_path) DO UPDATE SET
		   device_id = excluded.device_id,
		   captured_at = excluded.captured_at`,
		deviceID, localPath, at.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("record capture: %w", err)
	}
	return h.captureID(localPath)
}

// RecordUpload marks a capture as uploaded to a destination.
func (h *DB) RecordUpload(captureID int64, destination string) error {
	_, err := h.db.Exec(
		`INSERT INTO capture_uploads (capture_id, destination, uploaded_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(capture_id, destination) DO UPDATE SET uploaded_at = excluded.uploaded_at`,
		captureID, destination, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

func (h *DB) captureID(localPath string) (int64, error) {
	var id int64
	err := h.db.QueryRow(`SELECT id FROM captures WHERE local_path = ?`, localPath).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("capture %s not found", localPath)
		}
		return 0, err
	}
	return id, nil
}

// ListCaptures returns captures newest first, optionally limited to one device.
func (h *DB) ListCaptures(deviceID string) ([]Capture, error) {
	query := `SELECT c.id, c.device_id, c.local_path, c.captured_at,
		(SELECT COUNT(*) FROM capture_uploads u WHERE u.capture_id = c.id)
		FROM captures c`
	var args []any
	if deviceID != "" {
		query += ` WHERE c.device_id = ?`
		args = append(args, deviceID)
	}
	query += ` ORDER BY c.captured_at DESC, c.id DESC`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		if err := rows.Scan(&c.ID, &c.DeviceID, &c.LocalPath, &c.CapturedAt, &c.Uploads); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

// PendingUploads returns captures not yet uploaded to destination, oldest first.
func (h *DB) PendingUploads(destination string) ([]Capture, error) {
	rows, err := h.db.Query(
		`SELECT c.id, c.device_id, c.local_path, c.captured_at
		 FROM captures c
		 WHERE c.id NOT IN (SELECT capture_id FROM capture_uploads WHERE destination = ?)
		 ORDER BY c.captured_at, c.id`,
		destination,
	)
	if err != nil {
		return nil, fmt.Errorf("get pending uploads: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		if err := rows.Scan(&c.ID, &c.DeviceID, &c.LocalPath, &c.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan pending upload: %w", err)
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

// RecordPid logs a pid resolution. Failed lookups are stored with pid -1.
func (h *DB) RecordPid(deviceID, pkg string, pid int) error {
	_, err := h.db.Exec(
		`INSERT INTO pid_lookups (device_id, package, pid, resolved_at) VALUES (?, ?, ?, ?)`,
		deviceID, pkg, pid, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record pid: %w", err)
	}
	return nil
}

// LastPid returns the most recent lookup for a package on a device.
func (h *DB) LastPid(deviceID, pkg string) (PidLookup, bool, error) {
	l := PidLookup{DeviceID: deviceID, Package: pkg}
	err := h.db.QueryRow(
		`SELECT pid, resolved_at FROM pid_lookups
		 WHERE device_id = ? AND package = ?
		 ORDER BY id DESC LIMIT 1`,
		deviceID, pkg,
	).Scan(&l.PID, &l.ResolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return l, false, nil
		}
		return l, false, fmt.Errorf("last pid: %w", err)
	}
	return l, true, nil
}

// FullyUploaded returns captures uploaded to every one of destinations.
func (h *DB) FullyUploaded(destinations []string) ([]Capture, error) {
	if len(destinations) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(destinations)), ",")
	args := make([]any, 0, len(destinations)+1)
	for _, d := range destinations {
		args = append(args, d)
	}
	args = append(args, len(destinations))

	rows, err := h.db.Query(
		`SELECT c.id, c.device_id, c.local_path, c.captured_at
		 FROM captures c
		 WHERE (SELECT COUNT(DISTINCT u.destination) FROM capture_uploads u
		        WHERE u.capture_id = c.id AND u.destination IN (`+placeholders+`)) >= ?
		 ORDER BY c.captured_at, c.id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("get fully uploaded: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		if err := rows.Scan(&c.ID, &c.DeviceID, &c.LocalPath, &c.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan fully uploaded: %w", err)
		}
		c.Uploads = len(destinations)
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

// DeleteCapture forgets a capture and its upload records.
func (h *DB) DeleteCapture(id int64) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("delete capture: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM capture_uploads WHERE capture_id = ?`, id); err != nil {
		return fmt.Errorf("delete capture uploads: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM captures WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete capture: %w", err)
	}
	return tx.Commit()
}
