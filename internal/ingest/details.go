package ingest

import (
	"context"

	"mkuznets.com/go/ytingest/internal/credentials"
	"mkuznets.com/go/ytingest/internal/store"
	"mkuznets.com/go/ytingest/internal/youtube"
)

// fetchDetails turns candidate ids into full records, chunked by the
// provider's per-request id limit. owners maps a video id to the channel the
// listing attributed it to; any id whose attribution does not match
// channelID is dropped before it can reach storage. With strict set, the
// detail's own reported channel must agree as well; when the provider
// disagrees with itself the video is excluded rather than guessed at.
func fetchDetails(
	ctx context.Context,
	exec *youtube.Executor,
	order []credentials.Class,
	channelID string,
	ids []string,
	owners map[string]string,
	strict bool,
) ([]*store.Video, *youtube.Attempt, error) {
	videos := make([]*store.Video, 0, len(ids))
	var lastAttempt *youtube.Attempt

	for start := 0; start < len(ids); start += youtube.DetailsBatchSize {
		end := min(start+youtube.DetailsBatchSize, len(ids))

		var details []*youtube.VideoDetail
		attempt, err := exec.Do(ctx, order, func(api youtube.API) error {
			var err error
			details, err = api.VideoDetails(ctx, ids[start:end])
			return err
		})
		if err != nil {
			return nil, lastAttempt, err
		}
		lastAttempt = attempt

		for _, detail := range details {
			if owners[detail.ID] != channelID {
				continue
			}
			if strict && detail.ChannelID != channelID {
				continue
			}
			videos = append(videos, newRecord(detail))
		}
	}

	return videos, lastAttempt, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
