package ytingest

import (
	"fmt"

	"mkuznets.com/go/ytingest/internal/version"
)

type VersionCommand struct {
	Command
}

func (cmd *VersionCommand) Execute([]string) error {
	fmt.Print(version.Version())
	return nil
}
