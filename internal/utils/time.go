package utils

import (
	"context"
	"time"
)

// RunEveryInterval calls fun immediately and then on every tick until the
// context is cancelled or fun returns an error.
func RunEveryInterval(ctx context.Context, interval time.Duration, fun func() error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := fun(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			if err := fun(); err != nil {
				return err
			}
		}
	}
}
