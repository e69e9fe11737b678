package youtube

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"mkuznets.com/go/ytingest/internal/credentials"
)

const defaultMaxAttempts = 3

type ConnectFunc func(ctx context.Context, cred *credentials.Credential) (API, error)

// Attempt identifies the credential a successful call went through.
type Attempt struct {
	CredentialID string
	Class        credentials.Class
}

// Executor runs one logical request across the credential pool. Rotation
// happens only on credential-health failures (quota, invalid key); any other
// error returns immediately so that generic failures cannot drain the pool.
type Executor struct {
	pool        *credentials.Pool
	connect     ConnectFunc
	limiter     *rate.Limiter
	maxAttempts int
}

type ExecutorOption func(*Executor)

// WithMaxAttempts bounds the rotation loop independently of the pool size.
func WithMaxAttempts(n int) ExecutorOption {
	return func(e *Executor) {
		e.maxAttempts = n
	}
}

func WithLimiter(limiter *rate.Limiter) ExecutorOption {
	return func(e *Executor) {
		e.limiter = limiter
	}
}

func NewExecutor(pool *credentials.Pool, connect ConnectFunc, opts ...ExecutorOption) *Executor {
	e := &Executor{
		pool:        pool,
		connect:     connect,
		limiter:     rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Do(ctx context.Context, order []credentials.Class, fn func(api API) error) (*Attempt, error) {
	var last *CallError

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		cred := e.pool.Acquire(order...)
		if cred == nil {
			// Fail fast: no point burning attempts against an empty pool.
			if last != nil {
				return nil, last
			}
			return nil, &CallError{Outcome: OutcomeQuotaExceeded, Err: ErrPoolExhausted}
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, &CallError{Outcome: OutcomeOther, Err: err}
		}

		api, err := e.connect(ctx, cred)
		if err != nil {
			log.Warn().Str("credential", cred.ID).Err(err).Msg("Credential rejected")
			e.pool.MarkDisabled(cred.ID)
			last = &CallError{Outcome: OutcomeInvalidCredential, Err: err}
			continue
		}

		err = fn(api)
		switch outcome := Classify(err); outcome {
		case OutcomeSuccess:
			return &Attempt{CredentialID: cred.ID, Class: cred.Class}, nil
		case OutcomeQuotaExceeded:
			log.Warn().Str("credential", cred.ID).Msg("Quota exceeded")
			e.pool.MarkQuotaExceeded(cred.ID)
			last = &CallError{Outcome: outcome, Err: err}
		case OutcomeInvalidCredential:
			log.Warn().Str("credential", cred.ID).Msg("Credential is not valid, disabling")
			e.pool.MarkDisabled(cred.ID)
			last = &CallError{Outcome: outcome, Err: err}
		default:
			return nil, &CallError{Outcome: OutcomeOther, Err: err}
		}
	}

	return nil, last
}
