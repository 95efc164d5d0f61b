package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/slikemedia/publishbot/manifest"
	"github.com/slikemedia/publishbot/model"
	"github.com/slikemedia/publishbot/publisher"
)

const (
	publishedDir = "published"
	failedDir    = "failed"
)

type BatchPublisher interface {
	PublishAll(ctx context.Context, assets []model.Asset) []publisher.Outcome
}

// Watcher polls a drop directory for manifest files and publishes each
// batch it finds. The directory is the queue: a processed manifest is
// moved into published/ or failed/ so it's never picked up twice.
type Watcher struct {
	publisher BatchPublisher
	dir       string
	interval  time.Duration
}

func NewWatcher(batchPublisher BatchPublisher, dir string, interval time.Duration) *Watcher {
	return &Watcher{
		publisher: batchPublisher,
		dir:       dir,
		interval:  interval,
	}
}

func (w *Watcher) Watch(ctx context.Context) error {
	log.WithField("dir", w.dir).WithField("interval", w.interval).Info("watching for manifests")
	for {
		select {
		case <-ctx.Done():
			log.Debug("exiting Watcher by closing channel")
			return nil
		case <-time.After(w.interval):
			if err := w.scan(ctx); err != nil {
				// Context canceled errors are expected if the program is terminating, so stop the loop in that case
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (w *Watcher) scan(ctx context.Context) error {
	paths, err := filepath.Glob(filepath.Join(w.dir, "*.json"))
	if err != nil {
		return errors.Wrapf(err, "scanning %s", w.dir)
	}
	if len(paths) > 0 {
		log.Infof("found %d manifests to publish", len(paths))
	}
	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.processManifest(ctx, path)
	}
	return nil
}

func (w *Watcher) processManifest(ctx context.Context, path string) {
	assets, err := manifest.Load(path)
	if err != nil {
		log.WithField("manifest", path).Errorf("error loading manifest: %v", err)
		w.archive(path, failedDir)
		return
	}

	log.WithField("manifest", path).Infof("publishing %d assets", len(assets))
	outcomes := w.publisher.PublishAll(ctx, assets)
	if failed := publisher.FailedCount(outcomes); failed > 0 {
		log.WithField("manifest", path).Errorf("%d of %d assets failed", failed, len(outcomes))
		w.archive(path, failedDir)
		return
	}
	w.archive(path, publishedDir)
}

func (w *Watcher) archive(path string, subdir string) {
	target := filepath.Join(w.dir, subdir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		log.WithField("manifest", path).Errorf("error creating %s: %v", target, err)
		return
	}
	if err := os.Rename(path, filepath.Join(target, filepath.Base(path))); err != nil {
		// The manifest stays put and will be retried next scan.
		log.WithField("manifest", path).Errorf("error archiving manifest: %v", err)
	}
}
