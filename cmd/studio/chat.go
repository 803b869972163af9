package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/young-creators/studio/pkg/creation"
	"github.com/young-creators/studio/pkg/studioclient"
	"github.com/young-creators/studio/pkg/ui"
)

type ChatFlags struct {
	ServerURL string
	SessionDB string
}

func NewChatFlags() *ChatFlags {
	return &ChatFlags{
		ServerURL: studioclient.DefaultServerURL,
		SessionDB: "studio-session.db",
	}
}

func (f *ChatFlags) BindFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.ServerURL, "server-url", f.ServerURL, "URL of the studio API server")
	flagSet.StringVar(&f.SessionDB, "session-db", f.SessionDB, "Path to the session database. Empty disables persistence.")
}

func NewChatCommand() *cobra.Command {
	f := NewChatFlags()

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run a creation session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := studioclient.New(studioclient.WithServerURL(f.ServerURL))

			var store creation.SessionStore
			if f.SessionDB != "" {
				sqlStore, err := creation.NewSQLiteSessionStore(f.SessionDB)
				if err != nil {
					return errors.WithMessage(err, "couldn't open session store")
				}
				defer sqlStore.Close()
				store = sqlStore
			}

			// The program is created after the orchestrator, so the
			// hook captures it through a pointer. Nothing fires until
			// the first keypress, by which time p is set.
			var p *tea.Program
			orchestrator := creation.New(creation.Config{
				Transcriber: client,
				Dialoguer:   client,
				Generator:   client,
				Store:       store,
				OnChange: func(state creation.State) {
					if p != nil {
						p.Send(ui.StateMsg(state))
					}
				},
			})

			p = tea.NewProgram(
				ui.NewApp(orchestrator, client),
				tea.WithAltScreen(),
			)

			if _, err := p.Run(); err != nil {
				return errors.WithMessage(err, "chat session failed")
			}

			log.Debug("chat session ended")
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
