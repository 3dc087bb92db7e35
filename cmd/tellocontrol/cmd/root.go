package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tellocontrol/tellocontrol/internal/config"
)

var (
	cfgFile string
	version string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tellocontrol",
		Short: "Send the Tello SDK 'command' handshake",
		Long: `tellocontrol puts a Tello drone into SDK mode by sending the "command"
datagram to its control endpoint. Without a sub-command it sends and exits;
"wait" additionally blocks until the drone echoes the command back.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
		RunE:              run,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.PersistentFlags().Int("log-level", config.DefaultLogLevel, "debug=5, info=4, error=2, fatal=1, panic=0")

	rootCmd.AddCommand(newWaitCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute executes the root command.
func Execute(ctx context.Context, v string) error {
	version = v

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		reportError(err)
		return err
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	config.Version = version
	config.C = config.Config{}
	log.SetOutput(cmd.ErrOrStderr())

	setDefaults(config.Defaults())
	viper.BindPFlag("general.log_level", cmd.Root().PersistentFlags().Lookup("log-level"))

	if cfgFile != "" {
		b, err := os.ReadFile(cfgFile)
		if err != nil {
			return errors.Wrapf(err, "error loading config file %s", cfgFile)
		}
		viper.SetConfigType("toml")
		if err := viper.ReadConfig(bytes.NewBuffer(b)); err != nil {
			return errors.Wrapf(err, "error loading config file %s", cfgFile)
		}
	} else {
		viper.SetConfigName("tellocontrol")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/tellocontrol")
		if err := viper.ReadInConfig(); err != nil {
			switch err.(type) {
			case viper.ConfigFileNotFoundError:
			default:
				return errors.Wrap(err, "read configuration file error")
			}
		}
	}

	viperBindEnvs(config.C)

	viperHooks := mapstructure.ComposeDecodeHookFunc(
		viperDecodeJSONSlice,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := viper.Unmarshal(&config.C, viper.DecodeHook(viperHooks)); err != nil {
		return errors.Wrap(err, "unmarshal config error")
	}

	if err := config.C.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	log.SetLevel(log.Level(uint8(config.C.General.LogLevel)))
	return nil
}

func setDefaults(c config.Config) {
	viper.SetDefault("general.log_level", c.General.LogLevel)
	viper.SetDefault("tello.host", c.Tello.Host)
	viper.SetDefault("tello.port", c.Tello.Port)
	viper.SetDefault("handshake.payload", c.Handshake.Payload)
	viper.SetDefault("handshake.buffer_size", c.Handshake.BufferSize)
	viper.SetDefault("handshake.timeout", c.Handshake.Timeout)
	viper.SetDefault("simulator.bind", c.Simulator.Bind)
	viper.SetDefault("simulator.replies", []string{})
}

func viperBindEnvs(iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			tv = strings.ToLower(t.Name)
		}
		if tv == "-" {
			continue
		}

		switch v.Kind() {
		case reflect.Struct:
			viperBindEnvs(v.Interface(), append(parts, tv)...)
		default:
			// Bash doesn't allow env variable names with a dot so
			// bind the double underscore version.
			keyDot := strings.Join(append(parts, tv), ".")
			keyUnderscore := strings.Join(append(parts, tv), "__")
			viper.BindEnv(keyDot, strings.ToUpper(keyUnderscore))
		}
	}
}

// viperDecodeJSONSlice decodes a JSON list of strings, e.g.
// SIMULATOR__REPLIES='["ok","error"]'.
func viperDecodeJSONSlice(rf reflect.Kind, rt reflect.Kind, data interface{}) (interface{}, error) {
	if rf != reflect.String || rt != reflect.Slice {
		return data, nil
	}

	raw := data.(string)
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return data, nil
	}

	var out []string
	err := json.Unmarshal([]byte(raw), &out)

	return out, err
}
