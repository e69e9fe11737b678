package youtube

import (
	"context"
	"strings"
	"time"

	"google.golang.org/api/youtube/v3"
)

// DetailsBatchSize is the provider's per-request limit on the number of
// video ids in a single details lookup.
const DetailsBatchSize = 50

type SearchItem struct {
	VideoID   string
	ChannelID string
}

type SearchPage struct {
	Items         []SearchItem
	NextPageToken string
}

type PlaylistItem struct {
	VideoID     string
	ChannelID   string
	PublishedAt time.Time
}

type PlaylistPage struct {
	Items         []PlaylistItem
	NextPageToken string
}

type VideoDetail struct {
	ID           string
	ChannelID    string
	Title        string
	Thumbnail    string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	PublishedAt  time.Time
	Duration     string // ISO-8601 as reported by the provider
}

// API is the typed surface of the four provider endpoints the ingestion
// core uses. One implementation wraps a youtube.Service authenticated with
// a single credential; tests substitute fakes.
type API interface {
	SearchVideos(ctx context.Context, channelID string, publishedAfter time.Time, pageToken string) (*SearchPage, error)
	VideoDetails(ctx context.Context, ids []string) ([]*VideoDetail, error)
	UploadsPlaylistID(ctx context.Context, channelID string) (string, error)
	PlaylistPage(ctx context.Context, playlistID string, pageToken string) (*PlaylistPage, error)
}

type apiClient struct {
	service *youtube.Service
}

func (c *apiClient) SearchVideos(ctx context.Context, channelID string, publishedAfter time.Time, pageToken string) (*SearchPage, error) {
	call := c.service.Search.List("id,snippet").
		ChannelId(channelID).
		PublishedAfter(publishedAfter.UTC().Format(time.RFC3339)).
		Order("date").
		Type("video").
		MaxResults(50).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, err
	}

	page := &SearchPage{NextPageToken: response.NextPageToken}
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		page.Items = append(page.Items, SearchItem{
			VideoID:   item.Id.VideoId,
			ChannelID: item.Snippet.ChannelId,
		})
	}
	return page, nil
}

func (c *apiClient) VideoDetails(ctx context.Context, ids []string) ([]*VideoDetail, error) {
	response, err := c.service.Videos.List("snippet,contentDetails,statistics").
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	details := make([]*VideoDetail, 0, len(response.Items))
	for _, item := range response.Items {
		detail := &VideoDetail{
			ID:        item.Id,
			ChannelID: item.Snippet.ChannelId,
			Title:     item.Snippet.Title,
			Thumbnail: thumbnailURL(item.Snippet.Thumbnails),
			Duration:  item.ContentDetails.Duration,
		}
		if item.Statistics != nil {
			detail.ViewCount = int64(item.Statistics.ViewCount)
			detail.LikeCount = int64(item.Statistics.LikeCount)
			detail.CommentCount = int64(item.Statistics.CommentCount)
		}
		if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			detail.PublishedAt = ts
		}
		details = append(details, detail)
	}
	return details, nil
}

func (c *apiClient) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	response, err := c.service.Channels.List("contentDetails").
		Id(channelID).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(response.Items) == 0 {
		return "", errChannelNotFound(channelID)
	}
	return response.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

func (c *apiClient) PlaylistPage(ctx context.Context, playlistID string, pageToken string) (*PlaylistPage, error) {
	call := c.service.PlaylistItems.List("snippet,contentDetails").
		PlaylistId(playlistID).
		MaxResults(50).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, err
	}

	page := &PlaylistPage{NextPageToken: response.NextPageToken}
	for _, item := range response.Items {
		entry := PlaylistItem{
			VideoID:   item.ContentDetails.VideoId,
			ChannelID: item.Snippet.ChannelId,
		}
		ts := item.ContentDetails.VideoPublishedAt
		if ts == "" {
			ts = item.Snippet.PublishedAt
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.PublishedAt = parsed
		}
		page.Items = append(page.Items, entry)
	}
	return page, nil
}

func thumbnailURL(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbnails.Medium, thumbnails.High, thumbnails.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

type errChannelNotFound string

func (e errChannelNotFound) Error() string {
	return "channel not found: " + string(e)
}
