package ytingest

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"mkuznets.com/go/ytingest/internal/ingest"
	"mkuznets.com/go/ytingest/internal/utils"
)

type StartCommand struct {
	Command
}

func (cmd *StartCommand) Execute([]string) error {
	defer cmd.Close()

	coordinator, err := cmd.NewCoordinator()
	if err != nil {
		return err
	}

	channels := cmd.Config.Channels()
	if len(channels) == 0 {
		return errors.New("no channels configured: set `sources.channels`")
	}

	cmd.Wg.Add(1)
	go func() {
		defer cmd.Wg.Done()
		cmd.runQuotaReset(cmd.Ctx)
	}()

	log.Info().
		Stringer("interval", cmd.Config.UpdateInterval).
		Int("channels", len(channels)).
		Msg("Ingestion loop: starting")

	return utils.RunEveryInterval(cmd.Ctx, cmd.Config.UpdateInterval, func() error {
		report := coordinator.Run(cmd.Ctx, channels, ingest.RunOptions{
			LookbackMonths: cmd.Config.LookbackMonths,
		})

		event := log.Info()
		if !report.Success {
			event = log.Warn()
		}
		event.
			Str("run_id", report.RunID).
			Int("added", report.VideosAdded).
			Int("updated", report.VideosUpdated).
			Int("errors", len(report.Errors)).
			Msg("Ingestion run finished")

		return nil
	})
}

func (cmd *StartCommand) runQuotaReset(ctx context.Context) {
	for {
		next := nextQuotaReset(time.Now().UTC(), cmd.Config.QuotaResetHour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			cmd.Pool.ResetQuota()
			log.Info().Msg("Daily quota reset")
		}
	}
}

// nextQuotaReset returns the next occurrence of the given UTC hour after now.
func nextQuotaReset(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
