package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gethired/gethired/internal/config"
)

// BroadcastReport is the outcome of one campaign run. Every recipient is
// accounted for exactly once as sent or failed.
type BroadcastReport struct {
	Total    int
	Sent     int
	Failed   int
	Failures map[string]string
	Took     time.Duration
}

// Broadcaster fans a campaign out in small batches with a fixed pause in
// between to stay under the provider's rate limits. Recipients within a
// batch are sent concurrently and all settle before the next batch
// starts. One failed recipient never aborts the run; failures are
// collected and reported at the end.
type sendOutcome struct {
	email string
	err   error
}

type Broadcaster struct {
	sender   Sender
	operator string
	batch    int
	delay    time.Duration
	logger   *log.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewBroadcaster(sender Sender, cfg config.MailConfig, logger *log.Logger) *Broadcaster {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 5
	}
	return &Broadcaster{
		sender:   sender,
		operator: cfg.OperatorEmail,
		batch:    batch,
		delay:    cfg.BatchDelay,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

// Send delivers one campaign. build renders a per-recipient message; a
// build error counts as a failure for that recipient like a send error
// does. After the run a summary goes to the operator when one is
// configured.
func (b *Broadcaster) Send(ctx context.Context, subject string, recipients []string, build func(email string) (Message, error)) (BroadcastReport, error) {
	start := time.Now()
	report := BroadcastReport{Total: len(recipients), Failures: map[string]string{}}

	for i := 0; i < len(recipients); i += b.batch {
		if i > 0 && b.delay > 0 {
			if err := b.sleep(ctx, b.delay); err != nil {
				report.Took = time.Since(start)
				return report, err
			}
		}

		end := i + b.batch
		if end > len(recipients) {
			end = len(recipients)
		}
		batch := recipients[i:end]

		results := make(chan sendOutcome, len(batch))
		for _, email := range batch {
			go func(email string) {
				msg, err := build(email)
				if err == nil {
					err = b.sender.Send(ctx, msg)
				}
				results <- sendOutcome{email: email, err: err}
			}(email)
		}
		for range batch {
			o := <-results
			if o.err != nil {
				report.Failed++
				report.Failures[o.email] = o.err.Error()
				if b.logger != nil {
					b.logger.Printf("[Mail] broadcast send failed to=%s err=%v", o.email, o.err)
				}
				continue
			}
			report.Sent++
		}
	}

	report.Took = time.Since(start)
	if b.logger != nil {
		b.logger.Printf("[Mail] broadcast %q done sent=%d failed=%d took=%s", subject, report.Sent, report.Failed, report.Took)
	}
	b.notifyOperator(ctx, subject, report)
	return report, nil
}

func (b *Broadcaster) notifyOperator(ctx context.Context, subject string, report BroadcastReport) {
	if b.operator == "" {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<p>Campaign <strong>%s</strong> finished in %s.</p>", subject, report.Took.Round(time.Millisecond))
	fmt.Fprintf(&sb, "<p>Sent %d of %d, %d failed.</p>", report.Sent, report.Total, report.Failed)
	if len(report.Failures) > 0 {
		sb.WriteString("<ul>")
		for email, reason := range report.Failures {
			fmt.Fprintf(&sb, "<li>%s: %s</li>", email, reason)
		}
		sb.WriteString("</ul>")
	}

	msg, err := Promotional(b.operator, fmt.Sprintf("Broadcast report: %s", subject), sb.String())
	if err == nil {
		err = b.sender.Send(ctx, msg)
	}
	if err != nil && b.logger != nil {
		b.logger.Printf("[Mail] operator report failed err=%v", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
