package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/logging"
	"github.com/FluidXR/droidlog/internal/publish"
	"github.com/FluidXR/droidlog/internal/rclone"
)

var (
	screenshotDevice string
	screenshotAll    bool
)

var screenshotCmd = &cobra.Command{
	Use:     "screenshot",
	Short:   "Capture the screen of a device",
	Long:    `Captures the screen to a PNG in the screenshot directory and prints its path.`,
	Args:    cobra.NoArgs,
	PreRunE: requireDeps(adbDependency),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := openSession()
		d, err := s.selectDevice(ctx, screenshotDevice)
		if err != nil {
			return err
		}

		path, err := s.adb.CaptureScreen(ctx, d.ID)
		if err != nil {
			return err
		}
		fmt.Println(path)

		if h := openHistory(); h != nil {
			defer h.Close()
			if _, err := h.RecordCapture(d.ID, path, time.Now()); err != nil {
				logging.Warn("cli").Err(err).Str("path", path).Msg("record capture")
			}
		}
		return s.save()
	},
}

var screenshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded screenshots of the selected device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h := openHistory()
		if h == nil {
			return fmt.Errorf("history unavailable")
		}
		defer h.Close()

		device := ""
		if !screenshotAll {
			device = cfg.ResolveDevice(screenshotDevice)
			if device == "" {
				device = openSession().settings.SelectedDeviceID
			}
		}
		captures, err := h.ListCaptures(device)
		if err != nil {
			return err
		}
		if len(captures) == 0 {
			fmt.Println("No screenshots recorded.")
			return nil
		}
		for _, c := range captures {
			missing := ""
			if _, err := os.Stat(c.LocalPath); err != nil {
				missing = " (missing)"
			}
			fmt.Printf("%s  %-20s %s%s  uploads: %d/%d\n",
				c.CapturedAt.Local().Format("2006-01-02 15:04:05"), c.DeviceID, c.LocalPath, missing,
				c.Uploads, len(cfg.Destinations))
		}
		return nil
	},
}

var screenshotPushCmd = &cobra.Command{
	Use:   "push [destination]",
	Short: "Upload screenshots to rclone destinations",
	Long: `Uploads recorded screenshots that have not yet been pushed.
With no argument every configured destination is used.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: requireDeps(rcloneDependency),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Destinations) == 0 {
			return fmt.Errorf("no destinations configured, add one with 'droidlog config add-dest'")
		}
		h := openHistory()
		if h == nil {
			return fmt.Errorf("history unavailable")
		}
		defer h.Close()

		p := &publish.Pusher{Rclone: rclone.NewClient(), History: h, Config: cfg}

		var results []publish.PushResult
		if len(args) == 1 {
			dest, ok := cfg.FindDestination(args[0])
			if !ok {
				return fmt.Errorf("destination %q not found", args[0])
			}
			r, err := p.PushToDest(cmd.Context(), dest)
			if err != nil {
				return err
			}
			results = append(results, r)
		} else {
			results = p.PushAll(cmd.Context())
		}

		failed := false
		for _, r := range results {
			fmt.Printf("%s: %d pushed, %d skipped\n", r.Destination, r.FilesPushed, r.FilesSkipped)
			for _, e := range r.Errors {
				fmt.Fprintf(os.Stderr, "  Error: %s\n", e)
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("push finished with errors")
		}
		return nil
	},
}

func init() {
	screenshotCmd.PersistentFlags().StringVarP(&screenshotDevice, "device", "d", "", "Device serial or nickname")
	screenshotListCmd.Flags().BoolVar(&screenshotAll, "all", false, "List screenshots from every device")
	screenshotCmd.AddCommand(screenshotListCmd)
	screenshotCmd.AddCommand(screenshotPushCmd)
	rootCmd.AddCommand(screenshotCmd)
}
