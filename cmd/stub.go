package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/slikemedia/publishbot/config"
	"github.com/slikemedia/publishbot/service"
)

var (
	stubPort     int
	stubCertFile string
	stubKeyFile  string
)

func init() {
	stubCmd.Flags().IntVar(&stubPort, "port", 8443, "port to listen on")
	stubCmd.Flags().StringVar(&stubCertFile, "cert", "", "TLS certificate file (serves plain HTTP if omitted)")
	stubCmd.Flags().StringVar(&stubKeyFile, "key", "", "TLS key file")
	rootCmd.AddCommand(stubCmd)
}

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Runs a local stand-in for the development RPC endpoint",
	Long:  `Runs a local stand-in for the development RPC endpoint, accepting media.publish calls and returning fabricated media IDs`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg := config.FromEnvfile()

		log.SetLevel(cfg.LogLevel)

		switch cfg.LogFormat {
		case config.LogFormatJSON:
			log.SetFormatter(&log.JSONFormatter{})
		default:
			log.SetFormatter(&log.TextFormatter{})
		}

		ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer done()
		g, gCtx := errgroup.WithContext(ctx)

		stubServer := service.NewStubServer(stubPort, stubCertFile, stubKeyFile)

		g.Go(func() error {
			log.Infof("stub RPC server listening on %s", stubServer.Server.Addr)
			if err := stubServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		// ...and shut down the server if the process needs to terminate
		g.Go(func() error {
			<-gCtx.Done()
			defer log.Info("exiting stub server")
			return stubServer.Server.Shutdown(context.Background())
		})

		err := g.Wait()
		if err != nil {
			log.Errorf("caught error: %v", err)
		}
	},
}
