package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"ghostodon/logic"
	"ghostodon/shared"
)

var errStreamEnded = errors.New("stream ended")

func newStreamCmd() *cobra.Command {
	var tag, list string
	cmd := &cobra.Command{
		Use:   "stream [name]",
		Short: "Print live events: user, public, public:local, direct, hashtag, hashtag:local, list",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := logic.StreamUser
			if len(args) > 0 {
				name = logic.StreamName(args[0])
			}
			if !name.IsKnown() {
				return fmt.Errorf("unknown stream: %s", name)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withCore(func(_ context.Context, core *cliCore) error {
				client, err := core.client()
				if err != nil {
					return err
				}
				return followStream(ctx, core.Logger, client, logic.StreamArgs{Stream: name, Tag: tag, List: list})
			})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "hashtag for the hashtag streams")
	cmd.Flags().StringVar(&list, "list", "", "list ID for the list stream")
	return cmd
}

func printStreamEvent(ev logic.StreamEvent) {
	switch {
	case ev.Status != nil:
		printStatus(os.Stdout, ev.Status)
	case ev.Notification != nil:
		who := ""
		if ev.Notification.Account != nil {
			who = "@" + ev.Notification.Account.Acct
		}
		fmt.Printf("** %s %s\n\n", ev.Notification.Type, who)
	case ev.DeletedId != "":
		fmt.Printf("-- deleted %s\n\n", ev.DeletedId)
	default:
		fmt.Printf("-- %s\n\n", ev.Event)
	}
}

// followStream keeps the stream open until ctx ends, reconnecting with exponential backoff.
// Authentication failures are not retried.
func followStream(ctx context.Context, logger shared.ILogger, client *logic.Client, args logic.StreamArgs) error {

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = time.Minute
	bo.MaxElapsedTime = 0

	// Retry only runs while connect is blocked, so resetting from the event callback is safe
	args.OnEvent = func(ev logic.StreamEvent) {
		bo.Reset()
		printStreamEvent(ev)
	}
	connect := func() error {
		lastErr := make(chan error, 1)
		args.OnError = func(err error) {
			logger.Infof("Stream %s: %v", args.Stream, err)
			select {
			case <-lastErr:
			default:
			}
			lastErr <- err
		}
		handle := client.Stream.Open(ctx, args)
		defer handle.Close()

		select {
		case <-ctx.Done():
			return backoff.Permanent(ctx.Err())
		case <-handle.Done():
		}
		var err error
		select {
		case err = <-lastErr:
		default:
			err = errStreamEnded
		}
		if shared.KindOf(err) == shared.KindAuth {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		fmt.Fprintf(os.Stderr, "Stream interrupted (%v); reconnecting in %s\n", err, wait.Round(time.Second))
	}
	err := backoff.RetryNotify(connect, backoff.WithContext(bo, ctx), notify)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
