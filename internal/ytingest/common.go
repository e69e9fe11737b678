package ytingest

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"mkuznets.com/go/ytingest/internal/config"
	"mkuznets.com/go/ytingest/internal/credentials"
	"mkuznets.com/go/ytingest/internal/ingest"
	"mkuznets.com/go/ytingest/internal/store"
	"mkuznets.com/go/ytingest/internal/youtube"
)

// Options is a group of common options for all subcommands.
type Options struct {
	ConfigPath string `short:"c" long:"config" description:"custom config path" env:"YTINGEST_CONFIG"`
	Debug      bool   `long:"debug" description:"enable debug logging" env:"YTINGEST_DEBUG"`
}

// Command is a common part of all subcommands.
type Command struct {
	Config *Config
	Pool   *credentials.Pool
	Store  *store.Bolt
	Wg     *sync.WaitGroup
	Ctx    context.Context
}

func (cmd *Command) Init(opts interface{}) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	})

	// -------------

	ctx, cancel := context.WithCancel(context.Background())
	cmd.Ctx = ctx
	cmd.Wg = &sync.WaitGroup{}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		cnt := 0
		for {
			select {
			case s := <-signalChan:
				switch cnt {
				case 0:
					log.Warn().Stringer("signal", s).Msg("Graceful termination")
					cancel()
				case 1:
					log.Warn().Msg("Send one more signal for hard termination")
				case 2:
					log.Warn().Msg("Hard termination")
					os.Exit(1)
				}
				cnt++
			case <-cmd.Ctx.Done():
				return
			}
		}
	}()

	// -------------

	options, ok := opts.(*Options)
	if !ok {
		panic("type mismatch")
	}

	lvl := zerolog.InfoLevel
	if options.Debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	// -------------

	var cfg Config

	reader := config.New(
		"ytingest.yaml",
		config.WithExplicitPath(options.ConfigPath),
		config.WithDefaults(ConfigDefaults),
	)
	if err := reader.Read(&cfg); err != nil {
		return errors.Wrap(err, "config error")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config error")
	}
	cmd.Config = &cfg

	// -------------

	cmd.Pool = credentials.NewPool(cfg.Youtube.APIKeys, cfg.Youtube.OAuth != nil)

	return nil
}

// OpenStore is called by the subcommands that need the database; `setup`
// and `version` never touch it.
func (cmd *Command) OpenStore() error {
	if cmd.Store != nil {
		return nil
	}
	st, err := store.Open(cmd.Ctx, cmd.Config.Store.Path)
	if err != nil {
		return errors.Wrap(err, "could not open store")
	}
	cmd.Store = st
	return nil
}

func (cmd *Command) Close() {
	cmd.Wg.Wait()
	if cmd.Store == nil {
		return
	}
	if err := cmd.Store.Close(); err != nil {
		log.Err(err).Msg("Could not close store")
	}
}

// NewCoordinator wires the provider stack: service factory, rotating
// executor and both fetch strategies over the shared credential pool.
func (cmd *Command) NewCoordinator() (*ingest.Coordinator, error) {
	if cmd.Pool.Size() == 0 {
		return nil, errors.New("no credentials configured: set `youtube.api_keys` and/or `youtube.oauth`")
	}
	if err := cmd.OpenStore(); err != nil {
		return nil, err
	}

	oauthConfig := youtube.NewOAuthConfig(cmd.Config.Youtube.OAuthClient.ID, cmd.Config.Youtube.OAuthClient.Secret)

	var token *oauth2.Token
	var tokens youtube.TokenStore
	if cmd.Config.Youtube.OAuth != nil {
		token = cmd.Config.Youtube.OAuth.Token()

		fts := &youtube.FileTokenStore{Path: cmd.Config.TokenPath()}
		if stored, err := fts.Load(); err != nil {
			log.Warn().Err(err).Msg("Could not load persisted token")
		} else if stored != nil {
			// A persisted token is fresher than the one in the config.
			token = stored
		}
		tokens = fts
	}

	factory := youtube.NewFactory(oauthConfig, token, tokens)
	exec := youtube.NewExecutor(cmd.Pool, factory.Connect)

	return ingest.NewCoordinator(
		cmd.Store,
		cmd.Pool,
		ingest.NewSearchFetcher(exec),
		ingest.NewPlaylistFetcher(exec),
	), nil
}
