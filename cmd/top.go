package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/settings"
)

var (
	topDevice string
	topSelect bool
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the package in the foreground",
	Long: `Reads the top activity of the selected device and prints its package and pid.
With --select the package becomes the selected package and is remembered.`,
	Args:    cobra.NoArgs,
	PreRunE: requireDeps(adbDependency),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := openSession()
		d, err := s.selectDevice(ctx, topDevice)
		if err != nil {
			return err
		}

		pkg, pid, ok := s.adb.TopActivity(ctx, d.ID)
		if !ok {
			return fmt.Errorf("no top activity found on %s", d.ID)
		}
		fmt.Printf("%s %d\n", pkg, pid)

		if topSelect {
			selectPackage(s.settings, settings.PackageInfo{DeviceID: d.ID, Name: pkg, ProcessID: pid})
		}
		return s.save()
	},
}

// selectPackage remembers p and makes it the selected package.
func selectPackage(st *settings.Settings, p settings.PackageInfo) {
	st.KnownPackages.Add(p)
	st.SelectedPackage = &p
}

func init() {
	topCmd.Flags().StringVarP(&topDevice, "device", "d", "", "Device serial or nickname")
	topCmd.Flags().BoolVar(&topSelect, "select", false, "Select the foreground package")
	rootCmd.AddCommand(topCmd)
}
