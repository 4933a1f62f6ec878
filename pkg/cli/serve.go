package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/null-create/toolwatch/pkg/auth"
	"github.com/null-create/toolwatch/pkg/config"
	"github.com/null-create/toolwatch/pkg/db"
	"github.com/null-create/toolwatch/pkg/server"
	"github.com/null-create/toolwatch/pkg/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the watch API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			st := store.NewStore(stateDir(cmd))
			reg, err := st.LoadRegistry()
			if err != nil {
				return err
			}

			var archive *db.AlertArchive
			if cfg.MongoURI != "" {
				archive, err = db.NewAlertArchive(cfg.MongoURI, "toolwatch", "alerts")
				if err != nil {
					return fmt.Errorf("alert archive unavailable: %w", err)
				}
				defer archive.Close()
			}

			handler := server.NewHandler(reg, st, archive)
			requireAuth := auth.RetrieveJWTSecret() != ""
			router := server.NewRouter(handler, requireAuth)

			if cfg.TLSEnabled {
				return server.StartSecureServer(server.TLSOptions{
					CertFile: cfg.TLSCertFile,
					KeyFile:  cfg.TLSKeyFile,
					Addr:     ":" + cfg.ServerPort,
				}, router)
			}

			srv := server.NewServer("localhost:"+cfg.ServerPort, router)
			srv.Run()
			return nil
		},
	}

	return cmd
}
