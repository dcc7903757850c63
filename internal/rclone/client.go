package rclone

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Client wraps rclone command-line calls.
type Client struct {
	Path string
}

// NewClient creates a new rclone client.
func NewClient() *Client {
	return &Client{Path: "rclone"}
}

func (c *Client) command(ctx context.Context, args ...string) *exec.Cmd {
	path := c.Path
	if path == "" {
		path = "rclone"
	}
	return exec.CommandContext(ctx, path, args...)
}

// Copy uploads a local file to an rclone remote path such as
// "gdrive:Screenshots/emulator-5554/screen.png".
func (c *Client) Copy(ctx context.Context, localPath, dest string) error {
	out, err := c.command(ctx, "copyto", localPath, dest).CombinedOutput()
	if err != nil {
		return fmt.Errorf("rclone copyto %s -> %s: %w\n%s", localPath, dest, err, out)
	}
	return nil
}

// IsReachable reports whether the remote answers a shallow listing within 15s.
func (c *Client) IsReachable(ctx context.Context, remote string) bool {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return c.command(ctx, "lsf", "--max-depth", "1", remote).Run() == nil
}

// JoinRemote appends a slash-separated path to a remote root.
func JoinRemote(remote, rel string) string {
	if !strings.HasSuffix(remote, "/") && !strings.HasSuffix(remote, ":") {
		remote += "/"
	}
	return remote + strings.TrimPrefix(rel, "/")
}
