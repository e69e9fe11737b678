package ingest_test

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"mkuznets.com/go/ytingest/internal/credentials"
	"mkuznets.com/go/ytingest/internal/ingest"
	"mkuznets.com/go/ytingest/internal/store"
	"mkuznets.com/go/ytingest/internal/youtube"
)

// fakeAPI serves canned pages and details, recording call counts.
type fakeAPI struct {
	err error // when set, every method fails with it

	searchPages []*youtube.SearchPage
	searchCalls int

	uploadsPlaylist string
	playlistPages   []*youtube.PlaylistPage
	playlistCalls   int

	details      map[string]*youtube.VideoDetail
	detailsCalls int
}

func (a *fakeAPI) SearchVideos(_ context.Context, _ string, _ time.Time, _ string) (*youtube.SearchPage, error) {
	if a.err != nil {
		return nil, a.err
	}
	page := &youtube.SearchPage{}
	if a.searchCalls < len(a.searchPages) {
		page = a.searchPages[a.searchCalls]
	}
	a.searchCalls++
	return page, nil
}

func (a *fakeAPI) VideoDetails(_ context.Context, ids []string) ([]*youtube.VideoDetail, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.detailsCalls++
	details := make([]*youtube.VideoDetail, 0, len(ids))
	for _, id := range ids {
		if detail, ok := a.details[id]; ok {
			details = append(details, detail)
		}
	}
	return details, nil
}

func (a *fakeAPI) UploadsPlaylistID(_ context.Context, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return a.uploadsPlaylist, nil
}

func (a *fakeAPI) PlaylistPage(_ context.Context, _ string, _ string) (*youtube.PlaylistPage, error) {
	if a.err != nil {
		return nil, a.err
	}
	page := &youtube.PlaylistPage{}
	if a.playlistCalls < len(a.playlistPages) {
		page = a.playlistPages[a.playlistCalls]
	}
	a.playlistCalls++
	return page, nil
}

func singleKeyExecutor(api youtube.API) *youtube.Executor {
	pool := credentials.NewPool([]string{"aaa"}, false)
	connect := func(ctx context.Context, cred *credentials.Credential) (youtube.API, error) {
		return api, nil
	}
	return youtube.NewExecutor(pool, connect, youtube.WithLimiter(rate.NewLimiter(rate.Inf, 1)))
}

var keysOnly = []credentials.Class{credentials.ClassAPIKey}

// memStore is an in-memory Store with bolt-compatible upsert semantics.
type memStore struct {
	mu     sync.Mutex
	videos map[string]*store.Video
}

func newMemStore() *memStore {
	return &memStore{videos: make(map[string]*store.Video)}
}

func (m *memStore) LatestPublishTime(channelID string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest time.Time
	for _, v := range m.videos {
		if v.ChannelID == channelID && v.PublishTime.After(latest) {
			latest = v.PublishTime
		}
	}
	return latest, nil
}

func (m *memStore) Upsert(video *store.Video, overwrite bool) (store.UpsertOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *video
	if _, ok := m.videos[video.ID]; ok {
		if !overwrite {
			return store.UpsertSkipped, nil
		}
		m.videos[video.ID] = &cp
		return store.UpsertUpdated, nil
	}
	m.videos[video.ID] = &cp
	return store.UpsertInserted, nil
}

func (m *memStore) ByID(id string) (*store.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.videos[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) ListChannel(channelID string, f func(*store.Video) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range m.videos {
		if v.ChannelID != channelID {
			continue
		}
		if err := f(v); err != nil {
			return err
		}
	}
	return nil
}

// stubFetcher returns queued results and records what it was asked for.
type stubFetcher struct {
	results []*ingest.FetchResult
	calls   int

	channels []string
	cutoffs  []time.Time
	onFetch  func()
}

func (s *stubFetcher) Fetch(_ context.Context, channelID string, after time.Time, _ []credentials.Class) *ingest.FetchResult {
	s.channels = append(s.channels, channelID)
	s.cutoffs = append(s.cutoffs, after)
	if s.onFetch != nil {
		s.onFetch()
	}

	result := &ingest.FetchResult{ClassUsed: credentials.ClassAPIKey}
	if s.calls < len(s.results) {
		result = s.results[s.calls]
	}
	s.calls++
	return result
}
