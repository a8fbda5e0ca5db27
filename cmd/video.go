package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/upform/internal/extractor"
	"github.com/desertthunder/upform/internal/shared"
	"github.com/urfave/cli/v3"
)

// VideoIDResult is the JSON shape printed by `video-id --json`.
type VideoIDResult struct {
	URL             string `json:"url"`
	VideoID         string `json:"video_id"`
	Thumbnail       string `json:"thumbnail"`
	MaxResThumbnail string `json:"thumbnail_maxres"`
}

// VideoID prints the video id and thumbnail URL for a YouTube link or a bare id.
func (r *Runner) VideoID(ctx context.Context, cmd *cli.Command) error {
	link := cmd.Args().First()
	if link == "" {
		return fmt.Errorf("%w: URL", shared.ErrMissingArgument)
	}

	id, err := extractor.RegexExtractor{AllowBareID: true}.ExtractVideoIDFromURL(link)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	thumb := extractor.ThumbnailURL(id)

	if cmd.Bool("open") {
		r.logger.Info("opening thumbnail", "url", thumb)
		if err := r.openBrowser(thumb); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(VideoIDResult{
			URL:             link,
			VideoID:         id,
			Thumbnail:       thumb,
			MaxResThumbnail: extractor.MaxResThumbnailURL(id),
		}, true)
	}
	return r.writePlain("%s\n%s\n", id, thumb)
}
