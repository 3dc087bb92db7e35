package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tellocontrol/tellocontrol/internal/config"
	"github.com/tellocontrol/tellocontrol/internal/handshake"
)

func newWaitCmd() *cobra.Command {
	waitCmd := &cobra.Command{
		Use:   "wait",
		Short: "Send 'command' and wait until the drone echoes it back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := handshake.NewClient(&config.C, cmd.OutOrStdout())
			printStartMessage(client)

			_, err := client.ConnectAndWait(cmd.Context())
			return err
		},
	}

	waitCmd.Flags().Duration("timeout", 0, "per-receive timeout, 0 waits forever")
	viper.BindPFlag("handshake.timeout", waitCmd.Flags().Lookup("timeout"))

	return waitCmd
}
