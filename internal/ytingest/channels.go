package ytingest

import (
	"fmt"
	"os"
	"text/tabwriter"
)

type ChannelsCommand struct {
	Command
}

func (cmd *ChannelsCommand) Execute([]string) error {
	defer cmd.Close()

	if err := cmd.OpenStore(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 1, 2, ' ', 0)

	for _, channel := range cmd.Config.Channels() {
		watermark := "-"
		latest, err := cmd.Store.LatestPublishTime(channel.ID)
		if err != nil {
			return err
		}
		if !latest.IsZero() {
			watermark = latest.Format("2006-01-02 15:04:05")
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", channel.ID, channel.Title, watermark); err != nil {
			return err
		}
	}

	return tw.Flush()
}
