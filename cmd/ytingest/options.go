package main

import (
	"mkuznets.com/go/ytingest/internal/ytingest"
)

type Options struct {
	Common   *ytingest.Options         `group:"Common Options"`
	Sync     *ytingest.SyncCommand     `command:"sync" description:"run a single ingestion pass over the tracked channels"`
	Start    *ytingest.StartCommand    `command:"start" description:"run automatic ingestion on a schedule"`
	Setup    *ytingest.SetupCommand    `command:"setup" description:"obtain OAuth credentials"`
	Channels *ytingest.ChannelsCommand `command:"channels" description:"list tracked channels and their watermarks"`
	Videos   *ytingest.VideosCommand   `command:"videos" description:"list stored videos for a channel"`
	Version  *ytingest.VersionCommand  `command:"version" description:"Show version"`
}
