package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketVideos    = []byte("VIDEOS")
	bucketByChannel = []byte("BY_CHANNEL")
	allBuckets      = [2][]byte{bucketVideos, bucketByChannel}
)

type Bolt struct {
	db *bolt.DB
}

// Open creates or opens the database file. Opening is retried for a few
// seconds in case another process still holds the file lock.
func Open(ctx context.Context, path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "could not create store directory")
	}

	var db *bolt.DB
	err := repeater.NewDefault(5, time.Second).Do(ctx, func() error {
		var err error
		db, err = bolt.Open(path, os.FileMode(0644), &bolt.Options{Timeout: time.Second})
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not open database")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "create bucket %s", name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (st *Bolt) Close() error {
	if st.db == nil {
		return nil
	}
	if err := st.db.Close(); err != nil {
		return err
	}
	log.Debug().Msg("Store closed")
	return nil
}

func (st *Bolt) Upsert(video *Video, overwrite bool) (UpsertOutcome, error) {
	outcome := UpsertSkipped

	err := st.db.Update(func(tx *bolt.Tx) error {
		videos := tx.Bucket(bucketVideos)
		byChannel := tx.Bucket(bucketByChannel)

		prev := videos.Get(video.Key())
		if prev != nil {
			if !overwrite {
				return nil
			}
			var old Video
			if err := json.Unmarshal(prev, &old); err != nil {
				return errors.Wrap(err, "corrupt stored video")
			}
			if err := byChannel.Delete(old.channelKey()); err != nil {
				return err
			}
			outcome = UpsertUpdated
		} else {
			outcome = UpsertInserted
		}

		value, err := json.Marshal(video)
		if err != nil {
			return err
		}
		if err := videos.Put(video.Key(), value); err != nil {
			return err
		}
		return byChannel.Put(video.channelKey(), video.Key())
	})
	if err != nil {
		return UpsertSkipped, errors.Wrap(err, "upsert")
	}

	return outcome, nil
}

func (st *Bolt) LatestPublishTime(channelID string) (time.Time, error) {
	var latest time.Time

	err := st.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketByChannel).Cursor()
		prefix := []byte(channelID + "::")

		var last []byte
		for key, _ := c.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, _ = c.Next() {
			last = key
		}
		if last == nil {
			return nil
		}

		parts := strings.SplitN(string(last), "::", 3)
		if len(parts) != 3 {
			return errors.Errorf("malformed index key: %s", last)
		}
		ts, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return errors.Wrap(err, "malformed index timestamp")
		}
		latest = ts
		return nil
	})

	return latest, err
}

func (st *Bolt) ByID(id string) (*Video, error) {
	var video *Video

	err := st.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketVideos).Get([]byte(id))
		if value == nil {
			return nil
		}
		video = &Video{}
		return json.Unmarshal(value, video)
	})
	if err != nil {
		return nil, err
	}

	return video, nil
}

func (st *Bolt) ListChannel(channelID string, f func(*Video) error) error {
	return st.db.View(func(tx *bolt.Tx) error {
		videos := tx.Bucket(bucketVideos)
		c := tx.Bucket(bucketByChannel).Cursor()
		prefix := []byte(channelID + "::")

		for key, id := c.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, id = c.Next() {
			value := videos.Get(id)
			if value == nil {
				continue
			}
			var video Video
			if err := json.Unmarshal(value, &video); err != nil {
				return errors.Wrap(err, "corrupt stored video")
			}
			if err := f(&video); err != nil {
				return errors.Wrap(err, "list callback")
			}
		}
		return nil
	})
}
