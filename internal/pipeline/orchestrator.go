package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"podlinks/internal/acquire"
	"podlinks/internal/agents"
	"podlinks/internal/enrich"
	"podlinks/internal/extract"
	"podlinks/internal/logging"
	"podlinks/internal/services"
	"podlinks/internal/transcribe"
)

// Acquirer resolves an episode reference to local audio.
type Acquirer interface {
	Acquire(ctx context.Context, ref string) (acquire.Artifact, error)
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (transcribe.Transcript, error)
}

// Enricher describes a single URL. It never fails; unreachable sites are
// reported in the result.
type Enricher interface {
	Enrich(ctx context.Context, rawURL string) enrich.Result
}

// ReportWriter persists the report lines and returns the written path.
type ReportWriter interface {
	Write(ctx context.Context, lines []string) (string, error)
}

// Observer receives every state transition of a run.
type Observer func(State)

// Result is the outcome of a run. On failure it holds whatever was produced
// before the failing phase.
type Result struct {
	RunID       string
	ReportPath  string
	Audio       acquire.Artifact
	Transcript  transcribe.Transcript
	URLs        []string
	Lines       []string
	Enrichments []enrich.Result
	State       State
}

// Options wires the collaborators of an Orchestrator.
type Options struct {
	Acquirer    Acquirer
	Transcriber Transcriber
	Enricher    Enricher
	Writer      ReportWriter
	Roster      agents.Roster
	Logger      *slog.Logger
	Observer    Observer
}

// Orchestrator runs acquisition, transcription, extraction, enrichment and
// reporting strictly in that order.
type Orchestrator struct {
	acquirer    Acquirer
	transcriber Transcriber
	enricher    Enricher
	writer      ReportWriter
	roster      agents.Roster
	logger      *slog.Logger
	observer    Observer
}

// New validates opts and builds an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	var missing []string
	if opts.Acquirer == nil {
		missing = append(missing, "acquirer")
	}
	if opts.Transcriber == nil {
		missing = append(missing, "transcriber")
	}
	if opts.Enricher == nil {
		missing = append(missing, "enricher")
	}
	if opts.Writer == nil {
		missing = append(missing, "report writer")
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "missing "+strings.Join(missing, ", "), nil)
	}
	roster := opts.Roster
	if roster == nil {
		roster = agents.Default()
	}
	return &Orchestrator{
		acquirer:    opts.Acquirer,
		transcriber: opts.Transcriber,
		enricher:    opts.Enricher,
		writer:      opts.Writer,
		roster:      roster,
		logger:      logging.NewComponentLogger(opts.Logger, "pipeline"),
		observer:    opts.Observer,
	}, nil
}

// Run processes one episode reference. A returned error always carries one of
// the fatal markers (or the context error) and means no report was written.
func (o *Orchestrator) Run(ctx context.Context, ref string) (Result, error) {
	result := Result{RunID: uuid.NewString(), State: Pending}
	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, o.logger)
	started := time.Now()
	logger.Info("pipeline started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("reference", ref),
	)

	err := o.runStage(ctx, &result, Acquiring, agents.KeyDownloader, services.ErrAcquisition, func(ctx context.Context) error {
		artifact, err := o.acquirer.Acquire(ctx, ref)
		if err != nil {
			return err
		}
		result.Audio = artifact
		return nil
	})
	if err != nil {
		return result, err
	}

	err = o.runStage(ctx, &result, Transcribing, agents.KeyTranscriber, services.ErrTranscription, func(ctx context.Context) error {
		transcript, err := o.transcriber.Transcribe(ctx, result.Audio.Path)
		if err != nil {
			return err
		}
		if transcript.Empty() {
			return services.Wrap(services.ErrTranscription, Transcribing.String(), "validate", "transcript is empty", nil)
		}
		result.Transcript = transcript
		return nil
	})
	if err != nil {
		return result, err
	}

	err = o.runStage(ctx, &result, Extracting, agents.KeyURLDetector, nil, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.URLs = extract.URLs(result.Transcript.Text)
		logging.WithContext(ctx, o.logger).Info("urls extracted", logging.Int("url_count", len(result.URLs)))
		return nil
	})
	if err != nil {
		return result, err
	}

	err = o.runStage(ctx, &result, Enriching, agents.KeyWebsiteAnalyzer, nil, func(ctx context.Context) error {
		result.Enrichments = make([]enrich.Result, 0, len(result.URLs))
		result.Lines = make([]string, 0, len(result.URLs))
		for _, u := range result.URLs {
			if err := ctx.Err(); err != nil {
				return err
			}
			enriched := o.enricher.Enrich(ctx, u)
			result.Enrichments = append(result.Enrichments, enriched)
			result.Lines = append(result.Lines, enriched.Line())
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	err = o.runStage(ctx, &result, Reporting, agents.KeyReportGenerator, services.ErrReport, func(ctx context.Context) error {
		path, err := o.writer.Write(ctx, result.Lines)
		if err != nil {
			return err
		}
		result.ReportPath = path
		return nil
	})
	if err != nil {
		return result, err
	}

	o.transition(&result, Done)
	logger.Info("pipeline completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("report_path", result.ReportPath),
		logging.Int("url_count", len(result.URLs)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// runStage moves the run into state, executes fn under a stage-scoped context
// and tags failures with marker.
func (o *Orchestrator) runStage(ctx context.Context, result *Result, state State, roleKey string, marker error, fn func(context.Context) error) error {
	o.transition(result, state)

	stageCtx := services.WithStage(ctx, state.String())
	stageCtx = services.WithRequestID(stageCtx, uuid.NewString())
	logger := logging.WithContext(stageCtx, o.logger)
	role := o.roster.Lookup(roleKey)

	logger.Info(fmt.Sprintf("%s starting", role.Role),
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("goal", role.Goal),
	)
	started := time.Now()

	if err := fn(stageCtx); err != nil {
		if marker != nil && !errors.Is(err, marker) {
			err = services.Wrap(marker, state.String(), "run", "", err)
		}
		logging.ErrorWithContext(logger, "stage failed", "stage_failure",
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.Error(err),
		)
		o.transition(result, Failed)
		return err
	}

	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (o *Orchestrator) transition(result *Result, state State) {
	result.State = state
	if o.observer != nil {
		o.observer(state)
	}
}
