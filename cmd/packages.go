package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/settings"
	"github.com/FluidXR/droidlog/internal/track"
)

var packagesDevice string

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List known packages per device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openSession()
		known := s.settings.KnownPackages
		if known.Len() == 0 {
			fmt.Println("No known packages.")
			return nil
		}
		for _, id := range known.Devices() {
			if packagesDevice != "" && id != cfg.ResolveDevice(packagesDevice) {
				continue
			}
			title := id
			if n := cfg.Nickname(id); n != "" {
				title = fmt.Sprintf("%s (%s)", id, n)
			}
			fmt.Println(title)
			for _, p := range known.ForDevice(id) {
				marker := " "
				if sel := s.settings.SelectedPackage; sel != nil && sel.DeviceID == id && sel.Name == p.Name {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, p)
			}
		}
		return nil
	},
}

var packagesAddCmd = &cobra.Command{
	Use:     "add <package>",
	Short:   "Remember a package on the selected device",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireDeps(adbDependency),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := openSession()
		d, err := s.selectDevice(ctx, packagesDevice)
		if err != nil {
			return err
		}
		p := settings.PackageInfo{DeviceID: d.ID, Name: args[0], ProcessID: s.adb.PidFromPackage(ctx, d, args[0])}
		s.settings.KnownPackages.Add(p)
		fmt.Printf("Added %s on %s\n", p, d.ID)
		return s.save()
	},
}

var packagesRemoveCmd = &cobra.Command{
	Use:   "remove <package>",
	Short: "Forget a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openSession()
		s.keepSavedDevice()
		id := cfg.ResolveDevice(packagesDevice)
		if id == "" {
			id = s.settings.SelectedDeviceID
		}
		name := args[0]
		if !s.settings.KnownPackages.Remove(id, name) {
			return fmt.Errorf("package %q not known on %q", name, id)
		}
		if sel := s.settings.SelectedPackage; sel != nil && sel.DeviceID == id && sel.Name == name {
			s.settings.SelectedPackage = nil
		}
		fmt.Printf("Removed %s from %s\n", name, id)
		return s.save()
	},
}

var packagesSelectCmd = &cobra.Command{
	Use:   "select <package>",
	Short: "Select a known package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openSession()
		s.keepSavedDevice()
		id := cfg.ResolveDevice(packagesDevice)
		if id == "" {
			id = s.settings.SelectedDeviceID
		}
		p, ok := s.settings.KnownPackages.Find(id, args[0])
		if !ok {
			return fmt.Errorf("package %q not known on %q, add it first", args[0], id)
		}
		selectPackage(s.settings, p)
		if !s.settings.SelectedPackageValid() {
			fmt.Fprintf(os.Stderr, "Warning: %s is not running, run 'droidlog packages refresh'\n", p.Name)
		}
		fmt.Printf("Selected %s\n", p)
		return s.save()
	},
}

var packagesRefreshCmd = &cobra.Command{
	Use:     "refresh",
	Short:   "Re-resolve process ids of known packages",
	Args:    cobra.NoArgs,
	PreRunE: requireDeps(adbDependency),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s := openSession()
		s.keepSavedDevice()

		r := &track.Refresher{ADB: s.adb, Settings: s.settings}
		if h := openHistory(); h != nil {
			defer h.Close()
			r.History = h
		}

		var results []track.Result
		if packagesDevice != "" {
			res, err := r.RefreshDevice(ctx, cfg.ResolveDevice(packagesDevice))
			if err != nil {
				return err
			}
			results = append(results, res)
		} else {
			all, err := r.RefreshAll(ctx)
			if err != nil {
				return err
			}
			results = all
		}

		if len(results) == 0 {
			fmt.Println("No connected devices with known packages.")
		}
		for _, res := range results {
			fmt.Printf("%s: %d running, %d exited\n", res.DeviceID, res.Alive, len(res.Exited))
			for _, name := range res.Exited {
				fmt.Printf("  exited: %s\n", name)
			}
			for _, e := range res.Errors {
				fmt.Fprintf(os.Stderr, "  Error: %s\n", e)
			}
		}
		return s.save()
	},
}

func init() {
	packagesCmd.PersistentFlags().StringVarP(&packagesDevice, "device", "d", "", "Device serial or nickname")
	packagesCmd.AddCommand(packagesAddCmd)
	packagesCmd.AddCommand(packagesRemoveCmd)
	packagesCmd.AddCommand(packagesSelectCmd)
	packagesCmd.AddCommand(packagesRefreshCmd)
	rootCmd.AddCommand(packagesCmd)
}
