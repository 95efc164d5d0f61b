package service

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	log "github.com/sirupsen/logrus"

	"github.com/slikemedia/publishbot/config"
	"github.com/slikemedia/publishbot/model"
	"github.com/slikemedia/publishbot/slike"
)

type SlikeService struct {
	config config.SlikeConfig
	client *slike.Client
}

func NewSlikeService(cfg config.Config, secretsManagerClient *secretsmanager.Client) *SlikeService {
	slikeCfg := cfg.Slike

	if slikeCfg.Token == "" {
		// Get the Slike tokens from AWS Secrets Manager
		result, err := secretsManagerClient.GetSecretValue(
			context.Background(),
			&secretsmanager.GetSecretValueInput{
				SecretId: aws.String(slikeCfg.SecretPath),
			},
		)
		if err != nil {
			log.Fatal(err.Error())
		}
		var slikeSecrets config.SlikeSecretData
		err = json.Unmarshal([]byte(*result.SecretString), &slikeSecrets)
		if err != nil {
			log.Panicf("slike secrets read error: %v", err)
		}
		slikeCfg.Token = slikeSecrets.Token
		if slikeCfg.TokenDev == "" {
			slikeCfg.TokenDev = slikeSecrets.TokenDev
		}
	}

	client := slike.NewClientWithEndpoints(slikeCfg.ProductionURL, slikeCfg.DevelopmentURL)
	log.Infof("Slike client initialized. Production host: %s", slikeCfg.ProductionURL.String())

	return &SlikeService{
		config: slikeCfg,
		client: client,
	}
}

// PublishAsset publishes one asset, filling in the credentials and
// environment from config so callers only describe the media.
func (s *SlikeService) PublishAsset(asset model.Asset) (slike.Response, error) {
	return s.client.PublishMedia(slike.PublishRequest{
		URL:         asset.URL,
		Title:       asset.Title,
		Description: asset.Description,
		Type:        string(asset.Type),
		Token:       s.config.Token,
		TokenDev:    s.config.TokenDev,
		Environment: s.config.Environment,
		PresetMeta:  asset.PresetMeta,
		Tags:        asset.Tags,
		AssetType:   string(asset.AssetType),
		AutoPublish: asset.AutoPublish,
	})
}

func (s *SlikeService) Concurrency() int {
	return s.config.Concurrency
}
