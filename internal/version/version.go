package version

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Set via -ldflags at build time.
var (
	version   = ""
	revision  = ""
	buildTime = ""
)

func Version() string {
	var b strings.Builder

	if version != "" {
		b.WriteString(version)
		b.WriteByte('\n')
	}

	if buildTime != "" {
		localBuildTime := buildTime
		bt, err := time.Parse("2006-01-02T15:04:05Z", buildTime)
		if err == nil {
			localBuildTime = bt.Local().Format("2006-01-02 15:04:05 MST")
		}
		b.WriteString(fmt.Sprintf("- Built with %s at %s\n", runtime.Version(), localBuildTime))
	}

	if revision != "" {
		b.WriteString(fmt.Sprintf("- Revision: %s\n", revision))
	}

	return b.String()
}
