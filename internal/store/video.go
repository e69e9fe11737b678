package store

import (
	"fmt"
	"time"
)

// Video is one stored metadata row. ID is the provider-assigned video id
// and the natural key for upserts.
type Video struct {
	ID              string    `json:"id"`
	ChannelID       string    `json:"channel_id"`
	Title           string    `json:"title"`
	Thumbnail       string    `json:"thumbnail,omitempty"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	PublishTime     time.Time `json:"publish_time"`
	DurationSeconds int       `json:"duration_seconds"`
	IsShort         bool      `json:"is_short"`
}

func (v *Video) Key() []byte {
	return []byte(v.ID)
}

// channelKey orders a channel's videos by publish time within the index
// bucket. RFC3339 in UTC sorts lexicographically.
func (v *Video) channelKey() []byte {
	return []byte(fmt.Sprintf("%s::%s::%s", v.ChannelID, v.PublishTime.UTC().Format(time.RFC3339), v.ID))
}

func (v *Video) Row() string {
	return fmt.Sprintf("%s\t%s\t%d\t%d\t%s",
		v.ID, v.PublishTime.Format("2006-01-02"), v.DurationSeconds, v.ViewCount, v.Title)
}
