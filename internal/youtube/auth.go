// Package youtube wraps the Data API: per-credential service construction,
// response classification and the rotating request executor.
package youtube

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"google.golang.org/api/youtube/v3"
)

func NewOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "http://127.0.0.1:7798",
		Scopes:       []string{youtube.YoutubeReadonlyScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}

// TokenStore persists refreshed OAuth tokens so a restart does not lose them.
type TokenStore interface {
	Save(token *oauth2.Token) error
}

type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return errors.Wrap(err, "could not create token directory")
	}
	data, err := json.Marshal(token)
	if err != nil {
		return errors.Wrap(err, "could not encode token")
	}
	if err := ioutil.WriteFile(s.Path, data, 0600); err != nil {
		return errors.Wrap(err, "could not write token file")
	}
	return nil
}

// Load returns the stored token, or nil if none has been saved yet.
func (s *FileTokenStore) Load() (*oauth2.Token, error) {
	data, err := ioutil.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not read token file")
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, errors.Wrap(err, "could not decode token file")
	}
	return &token, nil
}
