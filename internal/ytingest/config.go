package ytingest

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"mkuznets.com/go/ytingest/internal/ingest"
)

const ConfigDefaults = `
update_interval: 1h
lookback_months: 3
quota_reset_hour: 0
store:
  path: ~/.local/share/ytingest/videos.db
`

type Config struct {
	UpdateInterval time.Duration `yaml:"update_interval"`
	LookbackMonths int           `yaml:"lookback_months"`

	// UTC hour at which the provider resets daily quotas.
	QuotaResetHour int `yaml:"quota_reset_hour"`

	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`

	Youtube struct {
		APIKeys     []string    `yaml:"api_keys"`
		OAuth       *OAuth      `yaml:"oauth"`
		OAuthClient OAuthClient `yaml:"oauth_client"`
	} `yaml:"youtube"`

	Sources struct {
		// Channel title -> channel ID
		Channels map[string]string `yaml:"channels"`
	} `yaml:"sources"`
}

type OAuthClient struct {
	ID     string `yaml:"id"`
	Secret string `yaml:"secret"`
}

type OAuth struct {
	AccessToken  string    `json:"access_token" yaml:"access_token"`
	TokenType    string    `json:"token_type,omitempty" yaml:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty" yaml:"expiry,omitempty"`
}

func (cr *OAuth) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  cr.AccessToken,
		TokenType:    cr.TokenType,
		RefreshToken: cr.RefreshToken,
		Expiry:       cr.Expiry,
	}
}

func NewCredentials(token *oauth2.Token) *OAuth {
	return &OAuth{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
}

func (cfg *Config) Validate() error {
	if cfg.LookbackMonths < 1 {
		return errors.New("`lookback_months` must be at least 1")
	}
	if cfg.QuotaResetHour < 0 || cfg.QuotaResetHour > 23 {
		return errors.New("`quota_reset_hour` must be between 0 and 23")
	}
	if cfg.Store.Path == "" {
		return errors.New("`store.path` is required")
	}
	if err := cfg.validateYoutube(); err != nil {
		return err
	}

	path, err := homedir.Expand(cfg.Store.Path)
	if err != nil {
		return errors.Wrap(err, "could not expand `store.path`")
	}
	cfg.Store.Path = path

	return nil
}

func (cfg *Config) validateYoutube() error {
	oauth := cfg.Youtube.OAuth
	if oauth == nil {
		return nil
	}
	if oauth.AccessToken == "" || oauth.RefreshToken == "" || oauth.TokenType == "" {
		return errors.New("oauth.{access_token, token_type, refresh_token} are all required when `youtube.oauth` is set")
	}
	return nil
}

// Channels returns the tracked channels ordered by title, so runs process
// them in a stable order.
func (cfg *Config) Channels() []ingest.Channel {
	titles := make([]string, 0, len(cfg.Sources.Channels))
	for title := range cfg.Sources.Channels {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	channels := make([]ingest.Channel, 0, len(titles))
	for _, title := range titles {
		channels = append(channels, ingest.Channel{ID: cfg.Sources.Channels[title], Title: title})
	}
	return channels
}

// TokenPath is where refreshed OAuth tokens are persisted, next to the store.
func (cfg *Config) TokenPath() string {
	return filepath.Join(filepath.Dir(cfg.Store.Path), "token.json")
}
