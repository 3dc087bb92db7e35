package cmd

import (
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tellocontrol/tellocontrol/internal/config"
)

const configTemplate = `[general]
# Log level
#
# debug=5, info=4, warning=3, error=2, fatal=1, panic=0
log_level={{ .General.LogLevel }}


# Tello control endpoint.
[tello]
# IPv4 address of the drone.
host="{{ .Tello.Host }}"

# UDP control port.
port={{ .Tello.Port }}


[handshake]
# Datagram sent to the drone, and expected back by "wait".
payload="{{ .Handshake.Payload }}"

# Receive buffer size in bytes. Longer datagrams are truncated.
buffer_size={{ .Handshake.BufferSize }}

# Per-receive timeout used by "wait". 0s blocks until the echo arrives.
timeout="{{ .Handshake.Timeout }}"


# Local responder used by "simulate".
[simulator]
bind="{{ .Simulator.Bind }}"

# Datagrams sent before the echoed command.
replies=[{{ range $i, $r := .Simulator.Replies }}{{ if $i }}, {{ end }}"{{ $r }}"{{ end }}]
`

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configfile",
		Short: "Print the tellocontrol configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := template.Must(template.New("config").Parse(configTemplate))
			if err := t.Execute(cmd.OutOrStdout(), &config.C); err != nil {
				return errors.Wrap(err, "execute config template error")
			}
			return nil
		},
	}
}
