package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tellocontrol/tellocontrol/internal/config"
	"github.com/tellocontrol/tellocontrol/internal/simulator"
)

func newSimulateCmd() *cobra.Command {
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a local UDP responder that answers like a Tello",
		Long: `simulate listens for the "command" datagram and answers every sender with
the configured replies followed by "command". Point tello.host and
tello.port at it to try the handshake without a drone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulator.NewServer(&config.C).ListenAndServe(cmd.Context())
		},
	}

	simulateCmd.Flags().String("bind", config.DefaultBind, "ip:port to listen on")
	simulateCmd.Flags().StringSlice("reply", nil, "datagram to send before the echoed command (repeatable)")
	viper.BindPFlag("simulator.bind", simulateCmd.Flags().Lookup("bind"))
	viper.BindPFlag("simulator.replies", simulateCmd.Flags().Lookup("reply"))

	return simulateCmd
}
