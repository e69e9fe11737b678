// Package ingest pulls video metadata for tracked channels from the Data
// API and merges it into the store. It owns the two fetch strategies and
// the per-run coordination between them.
package ingest

import (
	"github.com/senseyeio/duration"
	"mkuznets.com/go/ytingest/internal/store"
	"mkuznets.com/go/ytingest/internal/youtube"
)

// Videos strictly shorter than this are Shorts; exactly 180s is long-form.
const shortMaxSeconds = 180

// DurationSeconds parses an ISO-8601 duration (`PT#H#M#S`) into seconds.
// Unparseable input counts as 0 seconds, which classifies as a Short.
func DurationSeconds(iso string) int {
	d, err := duration.ParseISO8601(iso)
	if err != nil {
		return 0
	}
	return d.TS + d.TM*60 + d.TH*3600 + d.D*86400 + d.W*7*86400
}

func newRecord(detail *youtube.VideoDetail) *store.Video {
	seconds := DurationSeconds(detail.Duration)
	return &store.Video{
		ID:              detail.ID,
		ChannelID:       detail.ChannelID,
		Title:           detail.Title,
		Thumbnail:       detail.Thumbnail,
		ViewCount:       detail.ViewCount,
		LikeCount:       detail.LikeCount,
		CommentCount:    detail.CommentCount,
		PublishTime:     detail.PublishedAt,
		DurationSeconds: seconds,
		IsShort:         seconds < shortMaxSeconds,
	}
}
