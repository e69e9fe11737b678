package ytingest

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"mkuznets.com/go/ytingest/internal/ingest"
)

// Struct tags are raw strings: a malformed tag silently drops the flag from
// the parser instead of failing loudly, so the tags are checked directly.
func TestCommandFlagTags(t *testing.T) {
	commands := map[string]struct {
		typ    reflect.Type
		fields []string
	}{
		"sync":   {reflect.TypeOf(SyncCommand{}), []string{"Manual", "Lookback", "ChannelID", "JSON"}},
		"videos": {reflect.TypeOf(VideosCommand{}), []string{"ChannelID", "JSON"}},
	}

	for name, command := range commands {
		t.Run(name, func(t *testing.T) {
			for _, field := range command.fields {
				f, ok := command.typ.FieldByName(field)
				require.True(t, ok, field)
				require.NotEmpty(t, f.Tag.Get("long"), field)
				require.NotEmpty(t, f.Tag.Get("description"), field)
			}
		})
	}
}

func TestFilterChannels(t *testing.T) {
	channels := []ingest.Channel{
		{ID: "UC1", Title: "one"},
		{ID: "UC2", Title: "two"},
	}

	filtered := filterChannels(channels, "UC2")
	require.Len(t, filtered, 1)
	require.Equal(t, "two", filtered[0].Title)

	require.Empty(t, filterChannels(channels, "UC-unknown"))
}
