package ingest

import (
	"context"
	"time"

	"mkuznets.com/go/ytingest/internal/credentials"
	"mkuznets.com/go/ytingest/internal/store"
	"mkuznets.com/go/ytingest/internal/youtube"
)

// FetchResult is the uniform return contract of both fetch strategies.
type FetchResult struct {
	Videos            []*store.Video
	Err               error
	QuotaExceeded     bool
	InvalidCredential bool
	ClassUsed         credentials.Class
}

// Fetcher is one strategy for pulling a channel's videos published after a
// cutoff, trying credential classes in the given order.
type Fetcher interface {
	Fetch(ctx context.Context, channelID string, after time.Time, order []credentials.Class) *FetchResult
}

func failedResult(err error) *FetchResult {
	outcome := youtube.OutcomeOf(err)
	return &FetchResult{
		Err:               err,
		QuotaExceeded:     outcome == youtube.OutcomeQuotaExceeded,
		InvalidCredential: outcome == youtube.OutcomeInvalidCredential,
	}
}
