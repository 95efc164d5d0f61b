package model

// Asset describes one media item to publish. JSON tags match the manifest
// file format, which itself mirrors the wire params so manifests can be
// written from the platform docs.
type Asset struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"desc"`
	Type        MediaType `json:"type,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PresetMeta  string    `json:"preset_meta,omitempty"`
	AssetType   AssetType `json:"asset_type,omitempty"`
	AutoPublish *bool     `json:"auto_publish,omitempty"`
}
