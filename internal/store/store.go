// Package store persists ingested video metadata. The ingestion core only
// ever touches the three operations of the Store interface; everything else
// is for the CLI listing commands.
package store

import "time"

type UpsertOutcome int

const (
	UpsertSkipped UpsertOutcome = iota
	UpsertInserted
	UpsertUpdated
)

type Store interface {
	// LatestPublishTime returns the channel's watermark, or the zero time
	// if nothing is stored for it yet.
	LatestPublishTime(channelID string) (time.Time, error)

	// Upsert writes a video keyed by its id. With overwrite unset an
	// existing row is left untouched and the call reports UpsertSkipped.
	Upsert(video *Video, overwrite bool) (UpsertOutcome, error)

	// ByID returns the stored video, or nil if the id is unknown.
	ByID(id string) (*Video, error)

	// ListChannel calls f for every stored video of the channel,
	// ordered by publish time ascending.
	ListChannel(channelID string, f func(*Video) error) error
}
