package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
)

const maxStoredFailures = 100

type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

type ImportUsersFromJSONInput struct {
	SourcePaths []string
	// SkipInvalid drops records without a usable id instead of failing the run.
	SkipInvalid bool
	// DryRun stops after validation; nothing is written.
	DryRun bool
}

type ImportFailureOutput struct {
	Source   string `json:"source"`
	RowIndex int    `json:"row_index"`
	ID       string `json:"id,omitempty"`
	Reason   string `json:"reason"`
}

type ImportUsersFromJSONOutput struct {
	RunID     string                `json:"run_id"`
	Processed int64                 `json:"processed"`
	Inserted  int64                 `json:"inserted"`
	Skipped   int64                 `json:"skipped"`
	Invalid   int64                 `json:"invalid"`
	Removed   int64                 `json:"removed"`
	DryRun    bool                  `json:"dry_run"`
	Failures  []ImportFailureOutput `json:"failures,omitempty"`
}

type ImportUsersFromJSON interface {
	Execute(ctx context.Context, in ImportUsersFromJSONInput) (ImportUsersFromJSONOutput, error)
}

type importUsersFromJSON struct {
	source ImportSource
	store  domain.ImportStore
	logger *zap.SugaredLogger
}

// NewImportUsersFromJSON builds the importer. store may be nil when the caller
// only performs dry runs.
func NewImportUsersFromJSON(source ImportSource, store domain.ImportStore, logger *zap.SugaredLogger) ImportUsersFromJSON {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &importUsersFromJSON{source: source, store: store, logger: logger}
}

// exportDocument is the shape of a directory export: {"value":[...]}.
type exportDocument struct {
	Value *[]json.RawMessage `json:"value"`
}

type sourceRecord struct {
	source string
	index  int
	raw    json.RawMessage
}

func (uc *importUsersFromJSON) Execute(ctx context.Context, in ImportUsersFromJSONInput) (ImportUsersFromJSONOutput, error) {
	if len(in.SourcePaths) == 0 {
		return ImportUsersFromJSONOutput{}, fmt.Errorf("%w: no import source given", ErrInvalidInput)
	}
	if !in.DryRun && uc.store == nil {
		return ImportUsersFromJSONOutput{}, fmt.Errorf("%w: no store configured", ErrDatabase)
	}

	runID := uuid.NewString()
	log := uc.logger.With("run_id", runID)
	log.Infow("import started", "sources", in.SourcePaths, "skip_invalid", in.SkipInvalid, "dry_run", in.DryRun)

	records, err := uc.load(ctx, log, in.SourcePaths)
	if err != nil {
		return ImportUsersFromJSONOutput{}, err
	}

	out := ImportUsersFromJSONOutput{RunID: runID, DryRun: in.DryRun}
	rows, err := uc.validate(log, records, in.SkipInvalid, &out)
	if err != nil {
		return ImportUsersFromJSONOutput{}, err
	}

	if in.DryRun {
		log.Infow("dry run completed",
			"processed", out.Processed,
			"valid", len(rows),
			"invalid", out.Invalid,
			"removed", out.Removed,
		)
		return out, nil
	}

	result, err := uc.store.InsertSkipExisting(ctx, rows)
	if err != nil {
		log.Errorw("import rolled back", "rows", len(rows), "error", err)
		return ImportUsersFromJSONOutput{}, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	out.Inserted = result.Inserted
	out.Skipped = result.Skipped

	log.Infow("import completed",
		"processed", out.Processed,
		"inserted", out.Inserted,
		"skipped", out.Skipped,
		"invalid", out.Invalid,
		"removed", out.Removed,
	)
	return out, nil
}

// load reads every source completely before any row is written.
func (uc *importUsersFromJSON) load(ctx context.Context, log *zap.SugaredLogger, paths []string) ([]sourceRecord, error) {
	var records []sourceRecord

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
		}

		values, err := uc.readDocument(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
		}

		for i, raw := range values {
			records = append(records, sourceRecord{source: path, index: i, raw: raw})
		}
		log.Debugw("source loaded", "source", path, "records", len(values))
	}

	return records, nil
}

func (uc *importUsersFromJSON) readDocument(ctx context.Context, path string) ([]json.RawMessage, error) {
	reader, err := uc.source.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if doc.Value == nil {
		return nil, errors.New(`document has no "value" array`)
	}
	return *doc.Value, nil
}

func (uc *importUsersFromJSON) validate(log *zap.SugaredLogger, records []sourceRecord, skipInvalid bool, out *ImportUsersFromJSONOutput) ([]domain.Row, error) {
	rows := make([]domain.Row, 0, len(records))
	var firstErr error

	for _, rec := range records {
		out.Processed++

		row, err := domain.NewRow(rec.raw)
		if err == nil {
			rows = append(rows, row)
			continue
		}

		if errors.Is(err, domain.ErrRemovedRecord) {
			out.Removed++
			log.Debugw("removed record ignored", "source", rec.source, "row_index", rec.index, "id", row.ID)
			continue
		}

		out.Invalid++
		recErr := &domain.RecordError{Index: rec.index, ID: row.ID, Err: err}
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", rec.source, recErr)
		}
		if len(out.Failures) < maxStoredFailures {
			out.Failures = append(out.Failures, ImportFailureOutput{
				Source:   rec.source,
				RowIndex: rec.index,
				ID:       row.ID,
				Reason:   err.Error(),
			})
		}

		if skipInvalid {
			log.Warnw("invalid record skipped", "source", rec.source, "row_index", rec.index, "id", row.ID, "reason", err.Error())
		} else {
			log.Errorw("invalid record", "source", rec.source, "row_index", rec.index, "id", row.ID, "reason", err.Error())
		}
	}

	if firstErr != nil && !skipInvalid {
		return nil, fmt.Errorf("%w: %d invalid record(s), first: %w", ErrInvalidInput, out.Invalid, firstErr)
	}
	return rows, nil
}

// ValidateServerSourcePath accepts only relative .json paths that stay inside the
// import base directory. It guards sources named by remote callers.
func ValidateServerSourcePath(sourcePath string) error {
	sourcePath = strings.TrimSpace(sourcePath)
	if sourcePath == "" || strings.ToLower(filepath.Ext(sourcePath)) != ".json" {
		return ErrInvalidImportSource
	}
	if !filepath.IsLocal(sourcePath) {
		return ErrInvalidImportSource
	}
	return nil
}
