package cmd

import (
	"context"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/slikemedia/publishbot/config"
	"github.com/slikemedia/publishbot/manifest"
	"github.com/slikemedia/publishbot/mediaurl"
	"github.com/slikemedia/publishbot/model"
	"github.com/slikemedia/publishbot/publisher"
	"github.com/slikemedia/publishbot/service"
)

var (
	publishManifest    string
	publishURL         string
	publishTitle       string
	publishDesc        string
	publishType        string
	publishTags        []string
	publishPresetMeta  string
	publishAssetType   string
	publishAutoPublish bool
)

func init() {
	publishCmd.Flags().StringVar(&publishManifest, "manifest", "", "path to a JSON manifest of assets to publish")
	publishCmd.Flags().StringVar(&publishURL, "url", "", "URL of the media to publish")
	publishCmd.Flags().StringVar(&publishTitle, "title", "", "title of the media")
	publishCmd.Flags().StringVar(&publishDesc, "desc", "", "description of the media")
	publishCmd.Flags().StringVar(&publishType, "type", "", "media type (gdrive, youtube); inferred from the URL if omitted")
	publishCmd.Flags().StringSliceVar(&publishTags, "tags", nil, "tags to attach to the media")
	publishCmd.Flags().StringVar(&publishPresetMeta, "preset-meta", "", "preset metadata ID")
	publishCmd.Flags().StringVar(&publishAssetType, "asset-type", "", "asset type (video, shorts)")
	publishCmd.Flags().BoolVar(&publishAutoPublish, "auto-publish", true, "publish the media automatically after ingest")
	rootCmd.AddCommand(publishCmd)
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publishes one asset or a manifest of assets to Slike",
	Long:  `Publishes one asset (described by flags) or a manifest of assets (--manifest) to Slike`,
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

		assets := collectAssets()

		awsConfig, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		secretsManagerClient := secretsmanager.NewFromConfig(awsConfig)

		slikeService := service.NewSlikeService(cfg, secretsManagerClient)

		batchPublisher := publisher.NewPublisher(slikeService, cfg.Slike.Concurrency, cfg.TestModeEnabled)
		outcomes := batchPublisher.PublishAll(context.Background(), assets)

		if failed := publisher.FailedCount(outcomes); failed > 0 {
			log.Errorf("%d of %d assets failed to publish", failed, len(outcomes))
			os.Exit(1)
		}
	},
}

func collectAssets() []model.Asset {
	if publishManifest != "" {
		assets, err := manifest.Load(publishManifest)
		if err != nil {
			log.Fatalf("error loading manifest: %v", err)
		}
		return assets
	}

	if publishURL == "" {
		log.Fatal("either --manifest or --url must be given")
	}

	var mediaType model.MediaType
	var err error
	if publishType == "" {
		mediaType, err = mediaurl.InferMediaType(publishURL)
		if err != nil {
			log.Fatalf("cannot infer media type, pass --type: %v", err)
		}
	} else {
		mediaType, err = model.ParseMediaType(publishType)
		if err != nil {
			log.Fatalf("error parsing media type: %v", err)
		}
	}

	var assetType model.AssetType
	if publishAssetType != "" {
		assetType, err = model.ParseAssetType(publishAssetType)
		if err != nil {
			log.Fatalf("error parsing asset type: %v", err)
		}
	}

	return []model.Asset{{
		URL:         publishURL,
		Title:       publishTitle,
		Description: publishDesc,
		Type:        mediaType,
		Tags:        publishTags,
		PresetMeta:  publishPresetMeta,
		AssetType:   assetType,
		AutoPublish: &publishAutoPublish,
	}}
}
