package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// NewToken runs the browser consent flow: a one-shot HTTP server on the
// redirect port receives the authorization code and exchanges it for a token.
func NewToken(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	redirectURL, err := url.Parse(config.RedirectURL)
	if err != nil {
		return nil, err
	}

	codeCh := make(chan string)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		codeCh <- r.FormValue("code")
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("You can now safely close this browser window.")) // nolint
	})
	srv := &http.Server{Addr: ":" + redirectURL.Port(), Handler: mux}

	wg := &sync.WaitGroup{}
	defer wg.Wait()

	wg.Add(1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Msg("ListenAndServe")
		}
		wg.Done()
	}()

	defer func() {
		go stopServer(ctx, srv)
	}()

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	go openURL(authURL)

	code := <-codeCh
	return config.Exchange(ctx, code)
}

func openURL(u string) {
	if err := browser.OpenURL(u); err != nil {
		log.Err(err).Msg("browser.OpenURL")
	}
}

func stopServer(ctx context.Context, srv *http.Server) {
	if err := srv.Shutdown(ctx); err != nil {
		log.Err(err).Msg("shutdown")
	}
}
