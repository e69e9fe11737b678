package ytingest

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"mkuznets.com/go/ytingest/internal/ingest"
)

type SyncCommand struct {
	Manual    bool   `long:"manual" description:"re-cover the whole lookback window and overwrite stored statistics"`
	Lookback  int    `long:"lookback" description:"lookback window in months (default: config lookback_months)"`
	ChannelID string `long:"channel" description:"only sync the channel with this ID"`
	JSON      bool   `long:"json" description:"print the run report as JSON"`
	Command
}

func (cmd *SyncCommand) Execute([]string) error {
	defer cmd.Close()

	coordinator, err := cmd.NewCoordinator()
	if err != nil {
		return err
	}

	channels := cmd.Config.Channels()
	if cmd.ChannelID != "" {
		channels = filterChannels(channels, cmd.ChannelID)
		if len(channels) == 0 {
			return errors.Errorf("channel %s is not tracked", cmd.ChannelID)
		}
	}
	if len(channels) == 0 {
		return errors.New("no channels configured: set `sources.channels`")
	}

	lookback := cmd.Config.LookbackMonths
	if cmd.Lookback > 0 {
		lookback = cmd.Lookback
	}

	report := coordinator.Run(cmd.Ctx, channels, ingest.RunOptions{
		Manual:         cmd.Manual,
		LookbackMonths: lookback,
	})

	if cmd.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		log.Info().
			Str("run_id", report.RunID).
			Int("added", report.VideosAdded).
			Int("updated", report.VideosUpdated).
			Int("errors", len(report.Errors)).
			Msg("Run finished")
		for _, cherr := range report.Errors {
			log.Warn().
				Str("channel", cherr.ChannelID).
				Bool("quota_exceeded", cherr.QuotaExceeded).
				Bool("invalid_credential", cherr.InvalidCredential).
				Msg(cherr.Err)
		}
	}

	if !report.Success {
		return errors.New("run finished with errors")
	}
	return nil
}

func filterChannels(channels []ingest.Channel, id string) []ingest.Channel {
	filtered := make([]ingest.Channel, 0, 1)
	for _, channel := range channels {
		if channel.ID == id {
			filtered = append(filtered, channel)
		}
	}
	return filtered
}
