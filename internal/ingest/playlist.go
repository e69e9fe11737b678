package ingest

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"mkuznets.com/go/ytingest/internal/credentials"
	"mkuznets.com/go/ytingest/internal/youtube"
)

const maxPlaylistPages = 5

// PlaylistFetcher backfills through the channel's canonical uploads listing,
// for windows the search endpoint cannot reliably reach.
type PlaylistFetcher struct {
	exec *youtube.Executor
}

func NewPlaylistFetcher(exec *youtube.Executor) *PlaylistFetcher {
	return &PlaylistFetcher{exec: exec}
}

func (f *PlaylistFetcher) Fetch(ctx context.Context, channelID string, after time.Time, order []credentials.Class) *FetchResult {
	var playlistID string
	lastAttempt, err := f.exec.Do(ctx, order, func(api youtube.API) error {
		var err error
		playlistID, err = api.UploadsPlaylistID(ctx, channelID)
		return err
	})
	if err != nil {
		return failedResult(err)
	}

	items := make([]youtube.PlaylistItem, 0, 64)
	pageToken := ""

	for page := 0; page < maxPlaylistPages; page++ {
		var pp *youtube.PlaylistPage
		attempt, err := f.exec.Do(ctx, order, func(api youtube.API) error {
			var err error
			pp, err = api.PlaylistPage(ctx, playlistID, pageToken)
			return err
		})
		if err != nil {
			return failedResult(err)
		}
		lastAttempt = attempt

		if len(pp.Items) == 0 {
			break
		}

		oldest := pp.Items[0].PublishedAt
		for _, item := range pp.Items {
			if item.PublishedAt.Before(oldest) {
				oldest = item.PublishedAt
			}
		}
		items = append(items, pp.Items...)

		// The uploads listing is date-ordered: once a page reaches past
		// the cutoff, no further page can contain in-range items.
		if oldest.Before(after) {
			break
		}
		if pp.NextPageToken == "" {
			break
		}
		pageToken = pp.NextPageToken
	}

	ids := make([]string, 0, len(items))
	owners := make(map[string]string)
	for _, item := range items {
		if item.PublishedAt.Before(after) {
			continue
		}
		if _, ok := owners[item.VideoID]; ok {
			continue
		}
		owners[item.VideoID] = item.ChannelID
		ids = append(ids, item.VideoID)
	}

	log.Debug().Str("channel", channelID).Int("candidates", len(ids)).Msg("Uploads listing collected")

	videos, attempt, err := fetchDetails(ctx, f.exec, order, channelID, ids, owners, true)
	if err != nil {
		return failedResult(err)
	}
	if attempt != nil {
		lastAttempt = attempt
	}

	sort.Slice(videos, func(i, j int) bool {
		return videos[i].PublishTime.After(videos[j].PublishTime)
	})

	result := &FetchResult{Videos: videos}
	if lastAttempt != nil {
		result.ClassUsed = lastAttempt.Class
	}
	return result
}
