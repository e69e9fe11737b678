package youtube

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
	"mkuznets.com/go/ytingest/internal/credentials"
)

// Factory builds a youtube.Service authenticated with a given credential.
// API keys go into a query parameter; the OAuth credential uses a bearer
// token that is checked for expiry and refreshed before every service build.
type Factory struct {
	oauth  *oauth2.Config
	tokens TokenStore

	mu          sync.Mutex
	token       *oauth2.Token
	keyServices map[string]*youtube.Service
}

func NewFactory(oauthConfig *oauth2.Config, token *oauth2.Token, tokens TokenStore) *Factory {
	return &Factory{
		oauth:       oauthConfig,
		token:       token,
		tokens:      tokens,
		keyServices: make(map[string]*youtube.Service),
	}
}

// Connect satisfies the executor's ConnectFunc.
func (f *Factory) Connect(ctx context.Context, cred *credentials.Credential) (API, error) {
	service, err := f.Service(ctx, cred)
	if err != nil {
		return nil, err
	}
	return &apiClient{service: service}, nil
}

func (f *Factory) Service(ctx context.Context, cred *credentials.Credential) (*youtube.Service, error) {
	switch cred.Class {
	case credentials.ClassAPIKey:
		return f.keyService(ctx, cred)
	case credentials.ClassOAuth:
		return f.oauthService(ctx)
	}
	return nil, errors.Errorf("unknown credential class: %s", cred.Class)
}

func (f *Factory) keyService(ctx context.Context, cred *credentials.Credential) (*youtube.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if service, ok := f.keyServices[cred.ID]; ok {
		return service, nil
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(cred.Key))
	if err != nil {
		return nil, errors.Wrap(err, "could not create youtube client")
	}
	f.keyServices[cred.ID] = service

	return service, nil
}

// oauthService is rebuilt per call so a refreshed token takes effect
// immediately. A failed refresh is an authentication failure, not quota.
func (f *Factory) oauthService(ctx context.Context) (*youtube.Service, error) {
	token, err := f.freshToken(ctx)
	if err != nil {
		return nil, err
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, errors.Wrap(err, "could not create youtube client")
	}
	return service, nil
}

func (f *Factory) freshToken(ctx context.Context) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.oauth == nil || f.token == nil {
		return nil, errors.New("oauth credential is not configured")
	}
	if f.token.Valid() {
		return f.token, nil
	}

	token, err := f.oauth.TokenSource(ctx, f.token).Token()
	if err != nil {
		return nil, errors.Wrap(err, "token refresh failed")
	}
	f.token = token

	if f.tokens != nil {
		if err := f.tokens.Save(token); err != nil {
			log.Warn().Err(err).Msg("Could not persist refreshed token")
		}
	}

	return token, nil
}
