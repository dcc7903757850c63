package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/history"
	"github.com/FluidXR/droidlog/internal/logging"
)

var pidDevice string

var pidCmd = &cobra.Command{
	Use:   "pid <package>",
	Short: "Print the process id of a package",
	Long: `Resolves the process id of a running package on the selected device.
Prints -1 when the package is not running or the lookup fails, along with
the last pid seen for it, if any.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: requireDeps(adbDependency),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := openSession()
		d, err := s.selectDevice(ctx, pidDevice)
		if err != nil {
			return err
		}

		pkg := args[0]
		pid := s.adb.PidFromPackage(ctx, d, pkg)
		fmt.Println(pid)

		if h := openHistory(); h != nil {
			defer h.Close()
			if pid < 0 {
				if seen := lastSeen(h, d.ID, pkg); seen != "" {
					fmt.Fprintln(os.Stderr, seen)
				}
			}
			if err := h.RecordPid(d.ID, pkg, pid); err != nil {
				logging.Warn("cli").Err(err).Str("package", pkg).Msg("record pid")
			}
		}
		return s.save()
	},
}

// lastSeen describes the most recent successful lookup recorded for pkg,
// or returns "" when there is none.
func lastSeen(h *history.DB, deviceID, pkg string) string {
	l, ok, err := h.LastPid(deviceID, pkg)
	if err != nil {
		logging.Warn("cli").Err(err).Str("package", pkg).Msg("read last pid")
		return ""
	}
	if !ok || l.PID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s was last seen as pid %d at %s", pkg, l.PID, l.ResolvedAt.Local().Format("2006-01-02 15:04:05"))
}

func init() {
	pidCmd.Flags().StringVarP(&pidDevice, "device", "d", "", "Device serial or nickname")
	rootCmd.AddCommand(pidCmd)
}
