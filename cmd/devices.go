package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/adb"
	"github.com/FluidXR/droidlog/internal/logging"
)

var devicesCmd = &cobra.Command{
	Use:     "devices",
	Short:   "List connected devices",
	PreRunE: requireDeps(adbDependency),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openSession()
		ctx := cmd.Context()

		ids, err := s.adb.ConnectedDeviceIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No devices connected.")
			return nil
		}

		for _, id := range ids {
			d, err := s.adb.Device(ctx, id)
			if err != nil {
				logging.Warn("cli").Err(err).Str("device", id).Msg("read device properties")
			}

			marker := " "
			if id == s.settings.SelectedDeviceID {
				marker = "*"
			}
			nickname := ""
			if n := cfg.Nickname(id); n != "" {
				nickname = fmt.Sprintf(" (%s)", n)
			}
			transport := (&adb.Device{ID: id}).Transport()
			abi := ""
			if d != nil && d.ABI() != "" {
				abi = " " + d.ABI()
			}
			fmt.Printf("%s %s  [%s%s]%s\n", marker, adb.Details(d, id), transport, abi, nickname)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
