package model

import (
	"fmt"
	"strings"
)

// MediaType is the source platform hosting the media, sent as the wire
// "type" param.
type MediaType string

const (
	MediaTypeGdrive  MediaType = "gdrive"
	MediaTypeYoutube MediaType = "youtube"
	// TODO: Round out the list
)

func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(s) {
	case string(MediaTypeGdrive):
		return MediaTypeGdrive, nil
	case string(MediaTypeYoutube):
		return MediaTypeYoutube, nil
	default:
		return MediaTypeGdrive, fmt.Errorf("unknown media type: %s", s)
	}
}

// AssetType is the optional publish target format on the platform side.
type AssetType string

const (
	AssetTypeVideo  AssetType = "video"
	AssetTypeShorts AssetType = "shorts"
)

func ParseAssetType(s string) (AssetType, error) {
	switch strings.ToLower(s) {
	case string(AssetTypeVideo):
		return AssetTypeVideo, nil
	case string(AssetTypeShorts):
		return AssetTypeShorts, nil
	default:
		return AssetTypeVideo, fmt.Errorf("unknown asset type: %s", s)
	}
}
