package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"mkuznets.com/go/ytingest/internal/credentials"
	"mkuznets.com/go/ytingest/internal/youtube"
)

// maxSearchPages caps pagination so a very active channel cannot make a
// single run unbounded.
const maxSearchPages = 5

// SearchFetcher covers the recent window through the search endpoint.
// Search results occasionally surface cross-channel matches, so the channel
// id the provider attributes to each result is recorded and used to filter
// the batch-detail output.
type SearchFetcher struct {
	exec *youtube.Executor
}

func NewSearchFetcher(exec *youtube.Executor) *SearchFetcher {
	return &SearchFetcher{exec: exec}
}

func (f *SearchFetcher) Fetch(ctx context.Context, channelID string, after time.Time, order []credentials.Class) *FetchResult {
	ids := make([]string, 0, 64)
	owners := make(map[string]string)

	var lastAttempt *youtube.Attempt
	pageToken := ""

	for page := 0; page < maxSearchPages; page++ {
		var sp *youtube.SearchPage
		attempt, err := f.exec.Do(ctx, order, func(api youtube.API) error {
			var err error
			sp, err = api.SearchVideos(ctx, channelID, after, pageToken)
			return err
		})
		if err != nil {
			return failedResult(err)
		}
		lastAttempt = attempt

		if len(sp.Items) == 0 {
			break
		}
		for _, item := range sp.Items {
			if _, ok := owners[item.VideoID]; ok {
				continue
			}
			owners[item.VideoID] = item.ChannelID
			ids = append(ids, item.VideoID)
		}

		if sp.NextPageToken == "" {
			break
		}
		pageToken = sp.NextPageToken
	}

	log.Debug().Str("channel", channelID).Int("candidates", len(ids)).Msg("Search pages collected")

	videos, attempt, err := fetchDetails(ctx, f.exec, order, channelID, ids, owners, false)
	if err != nil {
		return failedResult(err)
	}
	if attempt != nil {
		lastAttempt = attempt
	}

	result := &FetchResult{Videos: videos}
	if lastAttempt != nil {
		result.ClassUsed = lastAttempt.Class
	}
	return result
}
