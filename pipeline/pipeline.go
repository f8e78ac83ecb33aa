// Package pipeline chains loading, normalizing, aligning and diffing of two
// spreadsheet files.
package pipeline

import (
	"context"
	"fmt"

	"github.com/TFMV/sheetdiff/pkg/align"
	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/TFMV/sheetdiff/pkg/diff"
	"github.com/TFMV/sheetdiff/pkg/normalize"
	"github.com/TFMV/sheetdiff/pkg/readers"
	"go.uber.org/zap"
)

// Request describes one comparison.
type Request struct {
	// PathA is the baseline file, PathB the newer one.
	PathA string
	PathB string

	// TypeA and TypeB override the reader type detected from the extension.
	TypeA string
	TypeB string

	// Sheet is a sheet name or 0-based index, applied to both files.
	Sheet string

	Options core.DiffOptions

	// Readers creates the readers. Nil uses readers.DefaultFactory.
	Readers *readers.Factory

	// OnStage, if set, is called as each stage starts.
	OnStage func(stage string)
}

// Outcome holds the loaded tables and the comparison result.
type Outcome struct {
	TableA *core.Table
	TableB *core.Table
	Result *core.DiffResult
}

// Run executes the comparison described by req. A missing key column fails
// with a *core.KeyColumnNotFoundError naming the offending file.
func Run(ctx context.Context, req Request, log *zap.Logger) (*Outcome, error) {
	if log == nil {
		log = zap.NewNop()
	}
	factory := req.Readers
	if factory == nil {
		factory = readers.DefaultFactory
	}

	tableA, err := load(ctx, factory, req, req.PathA, req.TypeA, log)
	if err != nil {
		return nil, err
	}
	tableB, err := load(ctx, factory, req, req.PathB, req.TypeB, log)
	if err != nil {
		return nil, err
	}

	req.stage("normalizing")
	keyedA, err := normalize.Normalize(tableA, req.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", req.PathA, err)
	}
	keyedB, err := normalize.Normalize(tableB, req.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", req.PathB, err)
	}

	req.stage("aligning columns")
	alignedA, alignedB, union, err := align.Align(keyedA, keyedB)
	if err != nil {
		return nil, fmt.Errorf("failed to align tables: %w", err)
	}
	log.Debug("columns aligned", zap.Strings("columns", union.Names()))

	req.stage("comparing")
	result, err := diff.NewDiffer(req.Options, log).Diff(ctx, alignedA, alignedB)
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}

	return &Outcome{TableA: tableA, TableB: tableB, Result: result}, nil
}

func load(ctx context.Context, factory *readers.Factory, req Request, path, typ string, log *zap.Logger) (*core.Table, error) {
	req.stage("loading " + core.BaseName(path))

	reader, err := factory.Create(core.ReaderConfig{Type: typ, Path: path, Sheet: req.Sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %s: %w", path, err)
	}
	defer reader.Close()

	table, err := reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	log.Info("table loaded",
		zap.String("source", path),
		zap.String("sheet", table.Sheet),
		zap.Int("rows", table.NumRows()),
		zap.Int("columns", len(table.Columns)),
	)
	return table, nil
}

func (r Request) stage(name string) {
	if r.OnStage != nil {
		r.OnStage(name)
	}
}
