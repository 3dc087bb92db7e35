package cmd

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tellocontrol/tellocontrol/internal/config"
	"github.com/tellocontrol/tellocontrol/internal/handshake"
)

func run(cmd *cobra.Command, args []string) error {
	client := handshake.NewClient(&config.C, cmd.OutOrStdout())
	printStartMessage(client)

	_, err := client.ConnectAndSend(cmd.Context())
	return err
}

func printStartMessage(client *handshake.Client) {
	log.WithFields(log.Fields{
		"version": version,
		"tello":   client.Endpoint().String(),
	}).Debug("starting tellocontrol")
}

// reportError writes a one-line description of a failed command to the log.
func reportError(err error) {
	var msg string
	switch {
	case errors.Is(err, handshake.ErrSocketCreation):
		msg = "error opening socket"
	case errors.Is(err, handshake.ErrSend):
		msg = "error sending command"
	case errors.Is(err, handshake.ErrReceive):
		msg = "error receiving response"
	default:
		msg = "tellocontrol error"
	}
	log.WithError(err).Error(msg)
}
