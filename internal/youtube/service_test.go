package youtube_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"mkuznets.com/go/ytingest/internal/credentials"
	"mkuznets.com/go/ytingest/internal/youtube"
)

type memTokenStore struct {
	saved []*oauth2.Token
}

func (s *memTokenStore) Save(token *oauth2.Token) error {
	s.saved = append(s.saved, token)
	return nil
}

func newTokenEndpoint(t *testing.T, handler http.HandlerFunc) (*oauth2.Config, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint:     oauth2.Endpoint{TokenURL: srv.URL},
	}
	return config, srv
}

var oauthCred = &credentials.Credential{ID: credentials.OAuthID, Class: credentials.ClassOAuth}

func TestConnectRefreshesExpiredToken(t *testing.T) {
	refreshes := 0
	config, _ := newTokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		refreshes++
		require.Equal(t, "refresh_token", r.FormValue("grant_type"))
		require.Equal(t, "refresh-0", r.FormValue("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"refreshed","token_type":"Bearer","refresh_token":"refresh-1","expires_in":3600}`)) // nolint
	})

	expired := &oauth2.Token{
		AccessToken:  "stale",
		TokenType:    "Bearer",
		RefreshToken: "refresh-0",
		Expiry:       time.Now().Add(-time.Hour),
	}
	store := &memTokenStore{}
	factory := youtube.NewFactory(config, expired, store)

	_, err := factory.Connect(context.Background(), oauthCred)
	require.NoError(t, err)
	require.Equal(t, 1, refreshes)

	require.Len(t, store.saved, 1)
	require.Equal(t, "refreshed", store.saved[0].AccessToken)
	require.True(t, store.saved[0].Valid())
}

func TestConnectKeepsValidToken(t *testing.T) {
	refreshes := 0
	config, _ := newTokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		refreshes++
		w.WriteHeader(http.StatusInternalServerError)
	})

	valid := &oauth2.Token{
		AccessToken:  "fresh",
		TokenType:    "Bearer",
		RefreshToken: "refresh-0",
		Expiry:       time.Now().Add(time.Hour),
	}
	store := &memTokenStore{}
	factory := youtube.NewFactory(config, valid, store)

	_, err := factory.Connect(context.Background(), oauthCred)
	require.NoError(t, err)
	require.Equal(t, 0, refreshes, "a valid token must be used as is")
	require.Empty(t, store.saved)
}

func TestConnectReportsRefreshFailure(t *testing.T) {
	config, _ := newTokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`)) // nolint
	})

	expired := &oauth2.Token{
		AccessToken:  "stale",
		TokenType:    "Bearer",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}
	store := &memTokenStore{}
	factory := youtube.NewFactory(config, expired, store)

	_, err := factory.Connect(context.Background(), oauthCred)
	require.Error(t, err)
	require.Contains(t, err.Error(), "token refresh failed")
	require.Empty(t, store.saved)
}
