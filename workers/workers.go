// Package workers runs the recurring background tasks.
package workers

import (
	"context"
	"fmt"
	"time"

	"backoffice/config"
	"backoffice/inbox"
	"backoffice/logger"
	"backoffice/orchestrator"

	"golang.org/x/sync/errgroup"
)

// Task is one recurring job. Run errors are logged and the task keeps its schedule.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type Deps struct {
	Reconciler   *inbox.Reconciler
	Feedback     *inbox.FeedbackMatcher
	Anonymizer   *inbox.Anonymizer
	Orchestrator *orchestrator.Orchestrator
}

// Tasks returns the service schedule: inbox fill, feedback matching, retrain check and anonymization.
func Tasks(conf config.Configuration, deps Deps) []Task {
	return []Task{
		{
			Name:     "inbox_fill",
			Interval: time.Duration(conf.Workers.InboxFillSeconds) * time.Second,
			Run: func(ctx context.Context) error {
				_, err := deps.Reconciler.Run(ctx)
				return err
			},
		},
		{
			Name:     "feedback",
			Interval: time.Duration(conf.Workers.FeedbackSeconds) * time.Second,
			Run: func(ctx context.Context) error {
				_, err := deps.Feedback.Run(ctx)
				return err
			},
		},
		{
			Name:     "training_check",
			Interval: time.Duration(conf.Workers.TrainingCheckSeconds) * time.Second,
			Run: func(ctx context.Context) error {
				_, err := deps.Orchestrator.Train(ctx)
				return err
			},
		},
		{
			Name:     "anonymize",
			Interval: time.Duration(conf.Workers.AnonymizeHours) * time.Hour,
			Run: func(ctx context.Context) error {
				return deps.Anonymizer.Run(ctx, time.Now())
			},
		},
	}
}

// Start runs every task on its own ticker until ctx is cancelled.
func Start(ctx context.Context, log *logger.Logger, tasks ...Task) error {
	for _, task := range tasks {
		if task.Interval <= 0 {
			return fmt.Errorf("task %s: interval must be positive", task.Name)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			loop(ctx, log.With("component", task.Name), task)
			return nil
		})
	}
	return g.Wait()
}

func loop(ctx context.Context, log *logger.Logger, task Task) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	log.Debug("worker started", "interval", task.Interval.String())
	for {
		select {
		case <-ctx.Done():
			log.Debug("worker stopped")
			return
		case <-ticker.C:
			runOnce(ctx, log, task)
		}
	}
}

func runOnce(ctx context.Context, log *logger.Logger, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("task panicked", "panic", r)
		}
	}()
	if err := task.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("task failed", "error", err)
	}
}
