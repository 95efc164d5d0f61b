package manifest

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/slikemedia/publishbot/mediaurl"
	"github.com/slikemedia/publishbot/model"
)

// ErrEmpty is returned when a manifest file decodes fine but lists no
// assets. Watch mode treats this as a failed file rather than silently
// archiving it.
var ErrEmpty = errors.New("manifest lists no assets")

/*
Load reads a manifest file: a JSON array of assets, each carrying the
same fields the publish call sends. Every entry must have a url, title
and description; tags must be strings (anything else fails JSON
decoding). An entry missing its type gets one inferred from the URL, so
hand-written manifests only need a type for hosts the URL patterns don't
recognize.
*/
func Load(path string) ([]model.Asset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}

	var assets []model.Asset
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, errors.Wrapf(err, "decoding manifest %s", path)
	}
	if len(assets) == 0 {
		return nil, errors.Wrapf(ErrEmpty, "manifest %s", path)
	}

	for i := range assets {
		if err := validate(&assets[i]); err != nil {
			return nil, errors.Wrapf(err, "manifest %s entry %d", path, i)
		}
	}
	return assets, nil
}

func validate(asset *model.Asset) error {
	if asset.URL == "" {
		return errors.New("missing url")
	}
	if asset.Title == "" {
		return errors.New("missing title")
	}
	if asset.Description == "" {
		return errors.New("missing desc")
	}
	if asset.Type == "" {
		inferred, err := mediaurl.InferMediaType(asset.URL)
		if err != nil {
			return errors.Wrap(err, "missing type")
		}
		asset.Type = inferred
	} else {
		parsed, err := model.ParseMediaType(string(asset.Type))
		if err != nil {
			return err
		}
		asset.Type = parsed
	}
	if asset.AssetType != "" {
		parsed, err := model.ParseAssetType(string(asset.AssetType))
		if err != nil {
			return err
		}
		asset.AssetType = parsed
	}
	return nil
}
