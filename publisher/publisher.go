package publisher

import (
	"context"
	"errors"
	"sort"

	"github.com/lucsky/cuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"

	"github.com/slikemedia/publishbot/model"
	"github.com/slikemedia/publishbot/slike"
)

type MediaPublisher interface {
	PublishAsset(asset model.Asset) (slike.Response, error)
}

// Outcome records what happened to one asset in a batch. Exactly one of
// MediaID and Err is meaningful.
type Outcome struct {
	Asset   model.Asset
	MediaID string
	Err     error
}

type Publisher struct {
	slikeService    MediaPublisher
	concurrency     int
	testModeEnabled bool
}

func NewPublisher(slikeService MediaPublisher, concurrency int, isTestMode bool) *Publisher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Publisher{
		slikeService:    slikeService,
		concurrency:     concurrency,
		testModeEnabled: isTestMode,
	}
}

/*
PublishAll publishes every asset, at most p.concurrency at a time, and
returns one Outcome per asset in input order. The publish call itself is
a single synchronous request, so concurrency lives here on the caller
side. A failed asset never stops the rest of the batch; cancelling the
context stops assets that haven't started yet.
*/
func (p *Publisher) PublishAll(ctx context.Context, assets []model.Asset) []Outcome {
	outcomes := make([]Outcome, len(assets))

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			outcomes[i] = p.publishOne(ctx, asset)
			return nil
		})
	}
	// the goroutines only report through outcomes
	_ = g.Wait()

	p.logSummary(outcomes)
	return outcomes
}

func (p *Publisher) publishOne(ctx context.Context, asset model.Asset) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Asset: asset, Err: err}
	}

	if p.testModeEnabled {
		mediaID := cuid.New()
		log.WithField("url", asset.URL).WithField("title", asset.Title).Infof("Simulating publish with media ID %s", mediaID)
		return Outcome{Asset: asset, MediaID: mediaID}
	}

	resp, err := p.slikeService.PublishAsset(asset)
	if err != nil {
		p.handlePublishError(asset, err)
		return Outcome{Asset: asset, Err: err}
	}

	mediaID := resp.MediaID()
	if mediaID == "" {
		// The platform accepted the publish but didn't hand back an id;
		// nothing actionable, so just note it.
		log.WithField("url", asset.URL).Warn("publish succeeded but response carried no media ID")
	} else {
		log.WithField("url", asset.URL).WithField("mediaID", mediaID).Info("published media")
	}
	return Outcome{Asset: asset, MediaID: mediaID}
}

func (p *Publisher) handlePublishError(asset model.Asset, err error) {
	var invalidInput *slike.InvalidInputError
	var apiError *slike.APIError
	if errors.As(err, &invalidInput) {
		log.WithField("url", asset.URL).WithField("param", invalidInput.Param).Errorf("publish input rejected: %v", invalidInput.Message)
	} else if errors.As(err, &apiError) {
		log.WithField("url", asset.URL).WithField("statusCode", apiError.StatusCode).Errorf("API error publishing media: %v", apiError.Message)
	} else {
		log.WithField("url", asset.URL).Errorf("error publishing media: %v", err)
	}
}

func (p *Publisher) logSummary(outcomes []Outcome) {
	counts := summarize(outcomes)
	labels := maps.Keys(counts)
	sort.Strings(labels)
	for _, label := range labels {
		log.Infof("batch summary: %s=%d", label, counts[label])
	}
}

func summarize(outcomes []Outcome) map[string]int {
	counts := make(map[string]int)
	for _, outcome := range outcomes {
		counts[classify(outcome)]++
	}
	return counts
}

func classify(outcome Outcome) string {
	if outcome.Err == nil {
		return "published"
	}
	var invalidInput *slike.InvalidInputError
	if errors.As(outcome.Err, &invalidInput) {
		return "rejected"
	}
	var apiError *slike.APIError
	if errors.As(outcome.Err, &apiError) {
		return "api-error"
	}
	return "failed"
}

// FailedCount reports how many outcomes in a batch carry an error,
// which drives the process exit code.
func FailedCount(outcomes []Outcome) int {
	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}
	return failed
}
