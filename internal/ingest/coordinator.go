package ingest

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"mkuznets.com/go/ytingest/internal/credentials"
	"mkuznets.com/go/ytingest/internal/store"
)

// Beyond this window the search endpoint gets unreliable and a manual
// refresh goes through the uploads listing instead.
const searchWindowMonths = 3

type Channel struct {
	ID    string
	Title string
}

type RunOptions struct {
	// Manual re-covers the whole lookback window and overwrites stored
	// statistics; automatic runs start from the watermark and only insert
	// previously-unseen ids.
	Manual         bool
	LookbackMonths int
}

type ChannelError struct {
	ChannelID         string `json:"channel_id"`
	Err               string `json:"error"`
	QuotaExceeded     bool   `json:"quota_exceeded,omitempty"`
	InvalidCredential bool   `json:"invalid_credential,omitempty"`
}

type Report struct {
	RunID               string            `json:"run_id"`
	Success             bool              `json:"success"`
	VideosAdded         int               `json:"videos_added"`
	VideosUpdated       int               `json:"videos_updated"`
	Errors              []ChannelError    `json:"errors,omitempty"`
	CredentialClassUsed credentials.Class `json:"credential_class_used,omitempty"`
	Started             time.Time         `json:"started"`
	Finished            time.Time         `json:"finished"`
}

// Coordinator processes tracked channels sequentially: the credential pool
// is shared mutable state, and serial execution keeps its access trivially
// safe. Everything else is local to a channel's processing.
type Coordinator struct {
	store    store.Store
	pool     *credentials.Pool
	search   Fetcher
	playlist Fetcher
	now      func() time.Time
}

type CoordinatorOption func(*Coordinator)

func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		c.now = now
	}
}

func NewCoordinator(st store.Store, pool *credentials.Pool, search, playlist Fetcher, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:    st,
		pool:     pool,
		search:   search,
		playlist: playlist,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Run(ctx context.Context, channels []Channel, opts RunOptions) *Report {
	report := &Report{
		RunID:   uuid.Must(uuid.NewV4()).String(),
		Success: true,
		Started: c.now(),
	}
	if opts.LookbackMonths < 1 {
		opts.LookbackMonths = 1
	}

	for i, channel := range channels {
		if !c.pool.HasUsable(credentials.ClassAPIKey, credentials.ClassOAuth) {
			log.Warn().Str("run_id", report.RunID).Msg("All credentials exhausted, aborting run")
			for _, rest := range channels[i:] {
				report.Errors = append(report.Errors, ChannelError{
					ChannelID:     rest.ID,
					Err:           "all credentials exhausted",
					QuotaExceeded: true,
				})
			}
			report.Success = false
			break
		}

		result := c.runChannel(ctx, channel, opts)
		if result.Err != nil {
			log.Err(result.Err).Str("channel", channel.ID).Msg("Channel failed")
			report.Success = false
			report.Errors = append(report.Errors, ChannelError{
				ChannelID:         channel.ID,
				Err:               result.Err.Error(),
				QuotaExceeded:     result.QuotaExceeded,
				InvalidCredential: result.InvalidCredential,
			})
			continue
		}

		if result.ClassUsed != "" {
			report.CredentialClassUsed = result.ClassUsed
		}

		added, updated := c.merge(channel, result.Videos, opts.Manual)
		report.VideosAdded += added
		report.VideosUpdated += updated

		log.Info().
			Str("channel", channel.ID).
			Int("fetched", len(result.Videos)).
			Int("added", added).
			Int("updated", updated).
			Msg("Channel done")
	}

	report.Finished = c.now()
	return report
}

func (c *Coordinator) runChannel(ctx context.Context, channel Channel, opts RunOptions) *FetchResult {
	cutoff := c.cutoff(channel.ID, opts)

	primary, secondary := c.search, c.playlist
	if opts.Manual && opts.LookbackMonths > searchWindowMonths {
		primary, secondary = c.playlist, c.search
	}

	result := primary.Fetch(ctx, channel.ID, cutoff, c.classOrder())
	if result.Err != nil && !result.QuotaExceeded && !result.InvalidCredential {
		// The two strategies probe different endpoints; one is sometimes
		// healthy while the other errors.
		log.Warn().Err(result.Err).Str("channel", channel.ID).Msg("Fetch failed, trying the other strategy")
		result = secondary.Fetch(ctx, channel.ID, cutoff, c.classOrder())
	}
	return result
}

// classOrder prefers the OAuth credential while it is usable and falls back
// to key rotation once it is spent; both orders keep the other class as a
// second choice so a single bad class never blocks ingestion on its own.
func (c *Coordinator) classOrder() []credentials.Class {
	if c.pool.HasUsable(credentials.ClassOAuth) {
		return []credentials.Class{credentials.ClassOAuth, credentials.ClassAPIKey}
	}
	return []credentials.Class{credentials.ClassAPIKey, credentials.ClassOAuth}
}

func (c *Coordinator) cutoff(channelID string, opts RunOptions) time.Time {
	now := c.now()
	floor := now.AddDate(0, -opts.LookbackMonths, 0)

	if opts.Manual {
		// Manual refresh re-covers the whole window to pick up stat
		// updates on older videos.
		return floor
	}

	watermark, err := c.store.LatestPublishTime(channelID)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelID).Msg("Could not read watermark")
		return floor
	}
	if watermark.IsZero() || watermark.After(now) {
		return floor
	}
	if watermark.After(floor) {
		return watermark
	}
	return floor
}

func (c *Coordinator) merge(channel Channel, videos []*store.Video, overwrite bool) (added, updated int) {
	for _, video := range videos {
		if video.ChannelID != channel.ID {
			continue
		}
		outcome, err := c.store.Upsert(video, overwrite)
		if err != nil {
			log.Err(err).Str("video", video.ID).Msg("Upsert failed")
			continue
		}
		switch outcome {
		case store.UpsertInserted:
			added++
		case store.UpsertUpdated:
			updated++
		}
	}
	return added, updated
}
