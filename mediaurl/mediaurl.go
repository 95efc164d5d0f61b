package mediaurl

import (
	"fmt"
	"regexp"

	"github.com/slikemedia/publishbot/model"
)

// regexps to recognize the media hosts the platform knows how to ingest
var (
	gdriveRe  = regexp.MustCompile(`^https?://(?:drive|docs)\.google\.com/(?:file/d/|open\?id=|uc\?id=)(?P<FileID>[\w-]+)`)
	youtubeRe = regexp.MustCompile(`^https?://(?:(?:www\.|m\.)?youtube\.com/(?:watch\?v=|shorts/|embed/)|youtu\.be/)(?P<VideoID>[\w-]+)`)
)

// InferMediaType infers the wire "type" param from a media URL. Unknown
// hosts are an error so callers have to supply an explicit type instead
// of the platform rejecting the publish later.
func InferMediaType(mediaURL string) (model.MediaType, error) {
	if gdriveRe.MatchString(mediaURL) {
		return model.MediaTypeGdrive, nil
	}
	if youtubeRe.MatchString(mediaURL) {
		return model.MediaTypeYoutube, nil
	}
	return "", fmt.Errorf("cannot infer media type from URL: %s", mediaURL)
}

// DeconstructGdriveURL extracts the file ID out of a Google Drive link.
func DeconstructGdriveURL(mediaURL string) (string, error) {
	matches := gdriveRe.FindStringSubmatch(mediaURL)
	if matches == nil {
		return "", fmt.Errorf("not a Google Drive URL: %s", mediaURL)
	}
	return matches[1], nil
}

// DeconstructYoutubeURL extracts the video ID out of a YouTube link,
// covering watch, shorts, embed and youtu.be forms.
func DeconstructYoutubeURL(mediaURL string) (string, error) {
	matches := youtubeRe.FindStringSubmatch(mediaURL)
	if matches == nil {
		return "", fmt.Errorf("not a YouTube URL: %s", mediaURL)
	}
	return matches[1], nil
}
