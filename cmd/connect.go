package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var connectAll bool

var connectCmd = &cobra.Command{
	Use:   "connect [address|nickname]",
	Short: "Connect to a device over the network",
	Long: `Connects adb to a device by network address (ip or ip:port, IPv4 or IPv6).
A device nickname is accepted when its address was set with 'droidlog config set-address'.
With --all, every configured device address is tried and failures are only logged.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: requireDeps(adbDependency),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newADBClient()

		if connectAll {
			n := 0
			for serial, dc := range cfg.Devices {
				if dc.Address == "" {
					continue
				}
				fmt.Printf("Connecting %s (%s)...\n", serial, dc.Address)
				client.Connect(cmd.Context(), dc.Address)
				n++
			}
			if n == 0 {
				fmt.Println("No device addresses configured.")
			}
			return nil
		}

		if len(args) == 0 {
			return errors.New("connect: address or nickname required (or --all)")
		}
		address := args[0]
		serial := cfg.ResolveDevice(address)
		if dc, ok := cfg.Devices[serial]; ok && dc.Address != "" {
			address = dc.Address
		}

		if err := client.ConnectErr(cmd.Context(), address); err != nil {
			return err
		}
		fmt.Printf("Connected to %s\n", address)
		return nil
	},
}

func init() {
	connectCmd.Flags().BoolVar(&connectAll, "all", false, "Connect every device with a configured address")
	rootCmd.AddCommand(connectCmd)
}
