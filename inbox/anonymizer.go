package inbox

import (
	"context"
	"time"

	"backoffice/logger"
)

type Retention interface {
	Anonymize(before time.Time) (inboxes int64, events int64, err error)
}

// Anonymizer erases conversation text once it is older than the retention period.
type Anonymizer struct {
	store Retention
	years int
	log   *logger.Logger
}

func NewAnonymizer(store Retention, years int, log *logger.Logger) *Anonymizer {
	return &Anonymizer{store: store, years: years, log: log.With("component", "anonymize")}
}

func (a *Anonymizer) Run(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	before := now.AddDate(-a.years, 0, 0)
	inboxes, events, err := a.store.Anonymize(before)
	if err != nil {
		return err
	}
	if inboxes > 0 || events > 0 {
		a.log.Info("conversations anonymized", "inboxes", inboxes, "events", events, "before", before)
	}
	return nil
}
