package store_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"mkuznets.com/go/ytingest/internal/store"
)

func newTestStore(t *testing.T) *store.Bolt {
	t.Helper()

	dir, err := ioutil.TempDir("", "ytingest-store")
	require.NoError(t, err)
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	st, err := store.Open(context.Background(), filepath.Join(dir, "videos.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		st.Close()
	})

	return st
}

func video(id, channelID string, published time.Time, views int64) *store.Video {
	return &store.Video{
		ID:          id,
		ChannelID:   channelID,
		Title:       "video " + id,
		ViewCount:   views,
		PublishTime: published,
	}
}

func TestUpsertInsertAndSkip(t *testing.T) {
	st := newTestStore(t)
	published := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)

	outcome, err := st.Upsert(video("v1", "UC1", published, 100), false)
	require.NoError(t, err)
	require.Equal(t, store.UpsertInserted, outcome)

	// Append-only mode never touches existing rows.
	outcome, err = st.Upsert(video("v1", "UC1", published, 999), false)
	require.NoError(t, err)
	require.Equal(t, store.UpsertSkipped, outcome)

	got, err := st.ByID("v1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(100), got.ViewCount)
}

func TestUpsertOverwrite(t *testing.T) {
	st := newTestStore(t)
	published := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := st.Upsert(video("v1", "UC1", published, 100), true)
	require.NoError(t, err)

	outcome, err := st.Upsert(video("v1", "UC1", published, 250), true)
	require.NoError(t, err)
	require.Equal(t, store.UpsertUpdated, outcome)

	got, err := st.ByID("v1")
	require.NoError(t, err)
	require.Equal(t, int64(250), got.ViewCount)

	// The channel index must not accumulate stale entries.
	count := 0
	err = st.ListChannel("UC1", func(*store.Video) error {
		count++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestLatestPublishTime(t *testing.T) {
	st := newTestStore(t)

	latest, err := st.LatestPublishTime("UC1")
	require.NoError(t, err)
	require.True(t, latest.IsZero())

	times := []time.Time{
		time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, ts := range times {
		_, err := st.Upsert(video(string(rune('a'+i)), "UC1", ts, 0), false)
		require.NoError(t, err)
	}
	_, err = st.Upsert(video("other", "UC2", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 0), false)
	require.NoError(t, err)

	latest, err = st.LatestPublishTime("UC1")
	require.NoError(t, err)
	require.True(t, latest.Equal(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestListChannelOrder(t *testing.T) {
	st := newTestStore(t)

	for i, ts := range []time.Time{
		time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
	} {
		_, err := st.Upsert(video(string(rune('a'+i)), "UC1", ts, 0), false)
		require.NoError(t, err)
	}

	ids := make([]string, 0, 3)
	err := st.ListChannel("UC1", func(v *store.Video) error {
		ids = append(ids, v.ID)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c", "a"}, ids)
}
