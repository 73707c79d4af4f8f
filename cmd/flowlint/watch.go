package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/flowlint/internal/events"
	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Print lint runs as servers publish them",
	GroupID: "reports",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats-url")
		topic, _ := cmd.Flags().GetString("topic")
		if natsURL == "" {
			return fmt.Errorf("watch requires --nats-url or FLOWLINT_NATS_URL")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("nats: disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				log.Printf("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		return watchEvents(ctx, sub, topic, cmd.OutOrStdout())
	},
}

func init() {
	watchCmd.Flags().String("nats-url", envOrSetting("FLOWLINT_NATS_URL", settings.NATSURL), "NATS server URL")
	watchCmd.Flags().String("topic", "flowlint.lint.>", "subject to subscribe to")
}

// watchEvents prints one line per lint event until ctx is done or the
// subscription closes. Other topics are ignored and payloads that do not
// decode are skipped.
func watchEvents(ctx context.Context, sub events.Subscriber, topic string, w io.Writer) error {
	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if !msg.IsLintEvent() {
				continue
			}
			ev, err := msg.LintEvent()
			if err != nil {
				log.Printf("skipping %s event: %v", msg.Topic, err)
				continue
			}
			if ev.ReportID == "" {
				ev.ReportID = msg.ReportID
			}
			if jsonOutput {
				line, _ := json.Marshal(ev)
				fmt.Fprintln(w, string(line))
				continue
			}
			fmt.Fprintln(w, formatLintEvent(ev))
		}
	}
}

func formatLintEvent(ev *events.LintCompleted) string {
	status := ui.RenderOK("valid  ")
	if ev.ErrorCount > 0 {
		status = ui.RenderSeverity(model.SeverityError, "invalid")
	}
	id := ev.ReportID
	if id == "" {
		id = "-"
	}
	line := fmt.Sprintf("%s %s %s mode=%s nodes=%d edges=%d errors=%d warnings=%d",
		ui.RenderMuted(ev.CreatedAt.Format("15:04:05")),
		status,
		ui.RenderAccent(id),
		ev.Mode,
		ev.NodeCount,
		ev.EdgeCount,
		ev.ErrorCount,
		ev.WarningCount,
	)
	if len(ev.Codes) > 0 {
		codes := make([]string, len(ev.Codes))
		for i, c := range ev.Codes {
			codes[i] = string(c)
		}
		line += " " + ui.RenderMuted(strings.Join(codes, ","))
	}
	return line
}
