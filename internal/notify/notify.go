package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/serverchecker/internal/domain"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

type Multi []Notifier

// Send delivers to every notifier and returns all failures combined.
func (m Multi) Send(ctx context.Context, title, text string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, title, text))
	}
	return errs
}

// BatchSummary builds the message for a finished batch: one line per offline
// host with its details.
func BatchSummary(rep domain.Report) (title, text string) {
	title = fmt.Sprintf("🔴 %d of %d hosts offline on port %d", rep.Offline, len(rep.Results), rep.Port)

	var b strings.Builder
	for _, r := range rep.Results {
		if r.Status == domain.StatusOnline {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", r.Server, r.Details)
	}
	fmt.Fprintf(&b, "Batch: %s\nStarted: %s", rep.ID, rep.StartedAt.Format("2006-01-02T15:04:05Z07:00"))
	return title, b.String()
}
