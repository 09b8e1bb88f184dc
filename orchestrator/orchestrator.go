// Package orchestrator serializes the operations that rewrite the knowledge base or the trained model.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"backoffice/logger"
	"backoffice/models"
	"backoffice/rasa"
	"backoffice/spreadsheet"
	"backoffice/store"
)

// ErrBusy is returned when an import or a training already holds the lock.
var ErrBusy = errors.New("une synchronisation est déjà en cours")

// KnowledgeStore is the part of the store the orchestrator writes through.
type KnowledgeStore interface {
	IntentsByStatus(statuses ...string) ([]models.Intent, error)
	TransitionIntents(from []string, to string) (int64, error)
	ApplyImport(plan spreadsheet.ImportPlan) (spreadsheet.ImportResult, error)
}

// Guard holds the persisted coordination flags.
type Guard interface {
	Get() (models.ChatbotConfig, error)
	TryBlock() (bool, error)
	Unblock() error
	TryStartTraining() (bool, error)
	FinishTraining(success bool, at time.Time) error
	SetNeedTraining(need bool) error
}

// Trainer trains and loads a model from a training payload and returns the model name.
type Trainer interface {
	Train(ctx context.Context, payload []byte) (string, error)
}

// Pruner removes old model archives, keeping the keep most recent.
type Pruner func(dir string, keep int) ([]string, error)

type Options struct {
	// DataDir receives the training files of the last training.
	DataDir    string
	ModelsDir  string
	KeepModels int
	Prune      Pruner
	Now        func() time.Time
}

type Orchestrator struct {
	store   KnowledgeStore
	guard   Guard
	trainer Trainer
	opts    Options
	log     *logger.Logger
}

func New(knowledge KnowledgeStore, guard Guard, trainer Trainer, opts Options, log *logger.Logger) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.KeepModels <= 0 {
		opts.KeepModels = 5
	}
	return &Orchestrator{store: knowledge, guard: guard, trainer: trainer, opts: opts, log: log.With("component", "orchestrator")}
}

// ImportError carries the check report of a refused import.
type ImportError struct {
	Report spreadsheet.Report
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%v: %d ligne(s)", spreadsheet.ErrInvalidRows, len(e.Report.Errors))
}

func (e *ImportError) Unwrap() error { return spreadsheet.ErrInvalidRows }

// Import replaces the knowledge base content with the decoded rows. It refuses files with errors and
// never runs alongside another import or a training.
func (o *Orchestrator) Import(ctx context.Context, rows []spreadsheet.Row, opts spreadsheet.ImportOptions) (spreadsheet.ImportResult, error) {
	report := spreadsheet.Validate(rows)
	if report.HasErrors() {
		return spreadsheet.ImportResult{}, &ImportError{Report: report}
	}
	if err := ctx.Err(); err != nil {
		return spreadsheet.ImportResult{}, err
	}

	ok, err := o.guard.TryBlock()
	if err != nil {
		return spreadsheet.ImportResult{}, fmt.Errorf("take import lock: %w", err)
	}
	if !ok {
		return spreadsheet.ImportResult{}, ErrBusy
	}
	defer func() {
		if err := o.guard.Unblock(); err != nil {
			o.log.Error("release import lock", "error", err)
		}
	}()

	result, err := o.store.ApplyImport(spreadsheet.BuildImport(rows, opts))
	if err != nil {
		return spreadsheet.ImportResult{}, fmt.Errorf("apply import: %w", err)
	}
	if err := o.guard.SetNeedTraining(true); err != nil {
		return result, err
	}
	o.log.Info("knowledge imported", "intents", result.Intents, "knowledges", result.Knowledges,
		"responses", result.Responses, "delete_intents", opts.DeleteIntents)
	return result, nil
}

// Train runs one training cycle if one is needed and nothing else holds a lock. It reports whether a
// training ran. The training lock is released on every path.
func (o *Orchestrator) Train(ctx context.Context) (trained bool, err error) {
	ok, err := o.guard.TryStartTraining()
	if err != nil {
		return false, fmt.Errorf("take training lock: %w", err)
	}
	if !ok {
		return false, nil
	}

	success := false
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("training panicked: %v", r)
		}
		if ferr := o.guard.FinishTraining(success, o.opts.Now()); ferr != nil {
			o.log.Error("release training lock", "error", ferr)
			if err == nil {
				err = ferr
			}
		}
	}()

	if err := o.train(ctx); err != nil {
		return true, err
	}
	success = true
	return true, nil
}

func (o *Orchestrator) train(ctx context.Context) error {
	started := o.opts.Now()
	if _, err := o.store.TransitionIntents(models.PendingDeployStatuses, models.INTENT_STATUS_IN_TRAINING); err != nil {
		return fmt.Errorf("mark intents in training: %w", err)
	}

	bundle, err := o.bundle(models.TrainingIntentStatuses)
	if err != nil {
		return err
	}
	if o.opts.DataDir != "" {
		if err := bundle.WriteFiles(o.opts.DataDir); err != nil {
			return fmt.Errorf("write training files: %w", err)
		}
	}
	payload, err := bundle.TrainingPayload()
	if err != nil {
		return fmt.Errorf("render training payload: %w", err)
	}

	model, err := o.trainer.Train(ctx, payload)
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	if _, err := o.store.TransitionIntents([]string{models.INTENT_STATUS_IN_TRAINING}, models.INTENT_STATUS_ACTIVE); err != nil {
		return err
	}
	if _, err := o.store.TransitionIntents([]string{models.INTENT_STATUS_TO_ARCHIVE}, models.INTENT_STATUS_ARCHIVED); err != nil {
		return err
	}

	if o.opts.Prune != nil && o.opts.ModelsDir != "" {
		removed, err := o.opts.Prune(o.opts.ModelsDir, o.opts.KeepModels)
		if err != nil {
			// the new model is live, an old archive left on disk is not a failed training
			o.log.Warn("prune models", "error", err)
		} else if len(removed) > 0 {
			o.log.Info("old models removed", "count", len(removed))
		}
	}

	o.log.Info("training done", "model", model, "intents", len(bundle.Domain.Intents),
		"duration", o.opts.Now().Sub(started).String())
	return nil
}

// RequestTraining flags the knowledge base as needing a training and starts one in the background.
func (o *Orchestrator) RequestTraining(ctx context.Context) error {
	cfg, err := o.guard.Get()
	if err != nil {
		return err
	}
	if cfg.TrainingRasa || cfg.IsBlocked {
		return ErrBusy
	}
	if err := o.guard.SetNeedTraining(true); err != nil {
		return err
	}
	go func() {
		if _, err := o.Train(context.WithoutCancel(ctx)); err != nil {
			o.log.Error("training failed", "error", err)
		}
	}()
	return nil
}

func (o *Orchestrator) bundle(statuses []string) (*rasa.Bundle, error) {
	intents, err := o.store.IntentsByStatus(statuses...)
	if err != nil {
		return nil, err
	}
	cfg, err := o.guard.Get()
	if err != nil {
		return nil, err
	}
	return rasa.Build(intents, rasa.Options{ShowFallbackSuggestions: cfg.ShowFallbackSuggestions}), nil
}

// ExportBundle builds the training documents of every deployable intent.
func (o *Orchestrator) ExportBundle(ctx context.Context) (*rasa.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return o.bundle(models.DeployableIntentStatuses)
}

// ExportSpreadsheet writes the whole knowledge base as an xlsx file.
func (o *Orchestrator) ExportSpreadsheet(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	intents, err := o.store.IntentsByStatus()
	if err != nil {
		return err
	}
	return spreadsheet.WriteXLSX(w, spreadsheet.Encode(intents))
}

var _ KnowledgeStore = (*store.Store)(nil)
var _ Guard = (*store.ConfigStore)(nil)
