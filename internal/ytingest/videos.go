package ytingest

import (
	"os"

	"mkuznets.com/go/ytingest/internal/format"
	"mkuznets.com/go/ytingest/internal/store"
)

type VideosCommand struct {
	ChannelID string `long:"channel" required:"true" description:"channel ID"`
	JSON      bool   `long:"json" description:"print videos as JSON"`
	Command
}

func (cmd *VideosCommand) Execute([]string) error {
	defer cmd.Close()

	if err := cmd.OpenStore(); err != nil {
		return err
	}

	var formatter format.Formatter
	if cmd.JSON {
		formatter = format.NewJSON(os.Stdout)
	} else {
		formatter = format.NewTable(os.Stdout)
	}

	err := cmd.Store.ListChannel(cmd.ChannelID, func(video *store.Video) error {
		return formatter.Put(video)
	})
	if err != nil {
		return err
	}

	return formatter.Flush()
}
