package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/history"
)

var (
	cleanConfirm bool
	cleanDryRun  bool
)

var screenshotCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete local screenshots already pushed everywhere",
	Long: `Removes local screenshot files that have been uploaded to ALL configured destinations.
Shows a summary and asks first unless --confirm is passed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Destinations) == 0 {
			return fmt.Errorf("no destinations configured, nothing is considered fully pushed")
		}
		h := openHistory()
		if h == nil {
			return fmt.Errorf("history unavailable")
		}
		defer h.Close()

		destNames := make([]string, len(cfg.Destinations))
		for i, d := range cfg.Destinations {
			destNames[i] = d.Name
		}
		captures, err := h.FullyUploaded(destNames)
		if err != nil {
			return err
		}
		if device := cfg.ResolveDevice(screenshotDevice); device != "" {
			captures = capturesForDevice(captures, device)
		}
		if len(captures) == 0 {
			fmt.Println("No screenshots eligible for cleanup.")
			return nil
		}

		fmt.Printf("%d screenshots eligible for cleanup:\n", len(captures))
		for _, c := range captures {
			fmt.Printf("  %s\n", c.LocalPath)
		}

		if cleanDryRun {
			fmt.Println("  (dry run, no files deleted)")
			return nil
		}
		if !cleanConfirm {
			fmt.Print("\nDelete these files? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Skipped.")
				return nil
			}
		}

		deleted := 0
		for _, c := range captures {
			if err := os.Remove(c.LocalPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "  Error deleting %s: %v\n", c.LocalPath, err)
				continue
			}
			if err := h.DeleteCapture(c.ID); err != nil {
				fmt.Fprintf(os.Stderr, "  Error forgetting %s: %v\n", c.LocalPath, err)
				continue
			}
			deleted++
		}
		fmt.Printf("Deleted %d screenshots\n", deleted)
		return nil
	},
}

func capturesForDevice(captures []history.Capture, device string) []history.Capture {
	var out []history.Capture
	for _, c := range captures {
		if c.DeviceID == device {
			out = append(out, c)
		}
	}
	return out
}

func init() {
	screenshotCleanCmd.Flags().BoolVar(&cleanConfirm, "confirm", false, "Skip confirmation prompt")
	screenshotCleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Show what would be deleted without deleting")
	screenshotCmd.AddCommand(screenshotCleanCmd)
}
