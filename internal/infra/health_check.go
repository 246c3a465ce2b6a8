package infra

import (
	"context"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

const checkExecInterval = 5 * time.Second

// MonitorExecutable fires once the running binary is replaced on disk, so a
// supervisor can restart the bot with the new build.
func MonitorExecutable(ctx context.Context) <-chan struct{} {
	exe, err := os.Executable()
	if err != nil {
		log.WithError(err).Warn("cant resolve executable path for monitor")
		return make(chan struct{})
	}
	return WatchModTime(ctx, exe, checkExecInterval)
}

// WatchModTime polls path and fires once when its modification time changes.
// The channel is never closed, so a file that cannot be read at start or a
// finished ctx leaves it silent.
func WatchModTime(ctx context.Context, path string, interval time.Duration) <-chan struct{} {
	ch := make(chan struct{}, 1)
	entry := log.WithField("path", path)

	stat, err := os.Stat(path)
	if err != nil {
		entry.WithError(err).Warn("cant stat watched file")
		return ch
	}
	original := stat.ModTime()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stat, err := os.Stat(path)
				if err != nil {
					entry.WithError(err).Debug("cant stat watched file")
					continue
				}
				if !original.Equal(stat.ModTime()) {
					ch <- struct{}{}
					return
				}
			}
		}
	}()
	return ch
}
