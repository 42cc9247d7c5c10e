package server

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/nxadm/tail"
)

var ErrReplayOpen = errors.New("failed to open replay file")

func NewReplay(filePath string) *Replay {
	return &Replay{filePath: filePath}
}

// Replay feeds a captured line-delimited message log into a Receiver,
// letting the rest of the bridge be exercised without a live game attached.
// The file is followed, so an external process may keep appending to it.
type Replay struct {
	tail     *tail.Tail
	filePath string
}

func (r *Replay) Open() error {
	tailConfig := tail.Config{
		// Replay the captured session from the top.
		Location: &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekStart,
		},
		Logger:    tail.DiscardingLogger,
		Follow:    true,
		MustExist: true,
	}

	tailFile, errTail := tail.TailFile(r.filePath, tailConfig)
	if errTail != nil {
		return errors.Join(errTail, ErrReplayOpen)
	}

	r.tail = tailFile

	return nil
}

func (r *Replay) Close() error {
	if r.tail == nil {
		return nil
	}

	return r.tail.Stop()
}

// Start pushes replayed lines at the receiver until the context ends.
func (r *Replay) Start(ctx context.Context, receiver Receiver) {
	slog.Info("Replaying captured session", slog.String("path", r.filePath))

	for {
		select {
		case <-ctx.Done():
			return
		case line, open := <-r.tail.Lines:
			if !open || line == nil {
				return
			}

			receiver.Send(line.Text)
		}
	}
}
