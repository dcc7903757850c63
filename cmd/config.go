package cmd

import (
	"fmt"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage droidlog configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config file: %s\n\n", config.ConfigPath())
		fmt.Printf("adb: %s (timeout %s)\n", cfg.ADBPath, cfg.CommandTimeout)
		fmt.Printf("pidof from sdk: %d\n", cfg.PidofMinSDK)
		fmt.Printf("Screenshot directory: %s\n", cfg.ScreenshotDir)
		fmt.Printf("Settings file: %s\n", resolvedSettingsPath())
		fmt.Printf("Log level: %s\n", cfg.LogLevel)
		if h := openHistory(); h != nil {
			fmt.Printf("History: %s\n", h.Path())
			h.Close()
		}

		fmt.Printf("\nDestinations:\n")
		if len(cfg.Destinations) == 0 {
			fmt.Println("  (none configured)")
		}
		for _, d := range cfg.Destinations {
			fmt.Printf("  - %s: %s\n", d.Name, d.RcloneRemote)
		}

		fmt.Printf("\nDevices:\n")
		if len(cfg.Devices) == 0 {
			fmt.Println("  (none configured)")
		}
		serials := make([]string, 0, len(cfg.Devices))
		for serial := range cfg.Devices {
			serials = append(serials, serial)
		}
		sort.Strings(serials)
		for _, serial := range serials {
			dc := cfg.Devices[serial]
			fmt.Printf("  - %s", serial)
			if dc.Nickname != "" {
				fmt.Printf(" (%s)", dc.Nickname)
			}
			if dc.Address != "" {
				fmt.Printf(" [address: %s]", dc.Address)
			}
			fmt.Println()
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("Config created at %s\n", config.ConfigPath())
		return nil
	},
}

var configNicknameCmd = &cobra.Command{
	Use:   "nickname <serial> <name>",
	Short: "Set a nickname for a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial, name := args[0], args[1]
		if other := cfg.ResolveDevice(name); other != name && other != serial {
			return fmt.Errorf("nickname %q is already used by %s", name, other)
		}
		dc := cfg.Devices[serial]
		dc.Nickname = name
		cfg.Devices[serial] = dc
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Set nickname for %s: %s\n", serial, name)
		return nil
	},
}

var configSetAddressCmd = &cobra.Command{
	Use:   "set-address <serial|nickname> <address>",
	Short: "Set the network address of a device (for 'droidlog connect')",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial, address := cfg.ResolveDevice(args[0]), args[1]
		dc := cfg.Devices[serial]
		dc.Address = address
		cfg.Devices[serial] = dc
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Set address for %s: %s\n", serial, address)
		return nil
	},
}

var configAddDestCmd = &cobra.Command{
	Use:   "add-dest <name> <rclone_remote>",
	Short: "Add an rclone destination",
	Long:  `Example: droidlog config add-dest google-drive "gdrive:Screenshots"`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, remote := args[0], args[1]
		if _, ok := cfg.FindDestination(name); ok {
			return fmt.Errorf("destination %q already exists", name)
		}
		cfg.Destinations = append(cfg.Destinations, config.Destination{
			Name:         name,
			RcloneRemote: remote,
		})
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Added destination: %s -> %s\n", name, remote)
		return nil
	},
}

var configRemoveDestCmd = &cobra.Command{
	Use:   "remove-dest <name>",
	Short: "Remove an rclone destination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		i := slices.IndexFunc(cfg.Destinations, func(d config.Destination) bool { return d.Name == name })
		if i < 0 {
			return fmt.Errorf("destination %q not found", name)
		}
		cfg.Destinations = slices.Delete(cfg.Destinations, i, i+1)
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Removed destination: %s\n", name)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configNicknameCmd)
	configCmd.AddCommand(configSetAddressCmd)
	configCmd.AddCommand(configAddDestCmd)
	configCmd.AddCommand(configRemoveDestCmd)
	rootCmd.AddCommand(configCmd)
}
