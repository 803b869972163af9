package main

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/young-creators/studio/pkg/flags"
	"github.com/young-creators/studio/pkg/flags/configflags"
	"github.com/young-creators/studio/pkg/gallery"
	"github.com/young-creators/studio/pkg/server"
)

type ServerFlags struct {
	APIFlags    *flags.APIFlags
	AIFlags     *flags.AIFlags
	AdminFlags  *flags.AdminFlags
	KVFlags     *flags.KVFlags
	ConfigFlags *configflags.ConfigFlags
}

func NewServerFlags() *ServerFlags {
	return &ServerFlags{
		APIFlags:    flags.NewAPIFlags(),
		AIFlags:     flags.NewAIFlags(),
		AdminFlags:  flags.NewAdminFlags(),
		KVFlags:     flags.NewKVFlags(),
		ConfigFlags: configflags.NewConfigFlags(),
	}
}

func (f *ServerFlags) BindFlags(flagSet *pflag.FlagSet) {
	f.APIFlags.BindFlags(flagSet)
	f.AIFlags.BindFlags(flagSet)
	f.AdminFlags.BindFlags(flagSet)
	f.KVFlags.BindFlags(flagSet)
	f.ConfigFlags.BindFlags(flagSet)
}

// applyConfig fills in flag values left unset from the config file.
func (f *ServerFlags) applyConfig() error {
	config, err := f.ConfigFlags.GetConfig()
	if err != nil {
		return err
	}

	if config.Server.ListenAddr != "" && f.APIFlags.ListenAddr == ":8080" {
		f.APIFlags.ListenAddr = config.Server.ListenAddr
	}
	if config.Server.MetricsAddr != "" && f.APIFlags.MetricsAddr == ":2112" {
		f.APIFlags.MetricsAddr = config.Server.MetricsAddr
	}
	if config.Server.RedisURL != "" && f.KVFlags.RedisURL == "" {
		f.KVFlags.RedisURL = config.Server.RedisURL
	}
	if config.AI.DialogueEndpoint != "" && f.AIFlags.DialogueEndpoint == "" {
		f.AIFlags.DialogueEndpoint = config.AI.DialogueEndpoint
	}
	if config.AI.DialogueModel != "" && f.AIFlags.DialogueModel == "" {
		f.AIFlags.DialogueModel = config.AI.DialogueModel
	}
	if config.AI.GeneratorModel != "" && f.AIFlags.GeneratorModel == "" {
		f.AIFlags.GeneratorModel = config.AI.GeneratorModel
	}

	return nil
}

func NewServeCommand() *cobra.Command {
	f := NewServerFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the studio API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.applyConfig(); err != nil {
				return errors.WithMessage(err, "error loading config")
			}

			store, err := f.KVFlags.GetKVStore()
			if err != nil {
				return errors.WithMessage(err, "couldn't get kv store")
			}

			srv := server.NewServer(
				f.APIFlags.ListenAddr,
				f.AIFlags.GetDialogueClient(),
				f.AIFlags.GetSpeechClient(),
				f.AIFlags.GetGenerator(),
				gallery.NewStore(store),
				f.AdminFlags.Password,
			)

			if f.APIFlags.MetricsAddr != "" {
				// Serve our metrics endpoint for prometheus to scrape
				go func() {
					http.Handle("/metrics", promhttp.Handler())
					err := http.ListenAndServe(f.APIFlags.MetricsAddr, nil) //nolint
					if err != nil {
						panic(err)
					}
				}()
			}

			srv.Serve()
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
