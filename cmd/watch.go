package cmd

import (
	"context"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/slikemedia/publishbot/config"
	"github.com/slikemedia/publishbot/publisher"
	"github.com/slikemedia/publishbot/service"
	"github.com/slikemedia/publishbot/watcher"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watches a drop directory and publishes manifests as they appear",
	Long:  `Watches a drop directory and publishes manifests as they appear`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg := config.FromEnvfile()

		log.SetLevel(cfg.LogLevel)

		switch cfg.LogFormat {
		case config.LogFormatJSON:
			log.SetFormatter(&log.JSONFormatter{})
		default:
			log.SetFormatter(&log.TextFormatter{})
		}

		if cfg.TestModeEnabled {
			log.Info("TEST MODE ENABLED")
		}

		if cfg.Watch.Dir == "" {
			log.Fatal("watch directory not configured")
		}

		awsConfig, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		secretsManagerClient := secretsmanager.NewFromConfig(awsConfig)

		/*
			Graceful shutdown is possible with errgroup + signal.NotifyContext
			NotifyContext returns a context that will close on OS signals to terminate the process
			errgroup uses that context, and also closes it in case a goroutine errors out
		*/
		ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer done()
		g, gCtx := errgroup.WithContext(ctx)

		slikeService := service.NewSlikeService(cfg, secretsManagerClient)
		batchPublisher := publisher.NewPublisher(slikeService, cfg.Slike.Concurrency, cfg.TestModeEnabled)
		manifestWatcher := watcher.NewWatcher(batchPublisher, cfg.Watch.Dir, cfg.Watch.Interval)

		g.Go(func() error {
			defer log.Info("exiting watcher")
			return manifestWatcher.Watch(gCtx)
		})

		err = g.Wait()
		if err != nil {
			log.Errorf("caught error: %v", err)
		}
	},
}
