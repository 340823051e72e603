/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pipeline.go
Description: Batch generation. Each source runs through load, inference and rendering as
an independent pipeline on a bounded worker group. Results are collected by source index
so the merged output follows source order no matter how the workers were scheduled.
Invalid inputs either abort the run or are skipped and reported, internal errors always
abort.
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/kleascm/structgen/pkg/inference"
	"github.com/kleascm/structgen/pkg/logging"
	"github.com/kleascm/structgen/pkg/render"
	"github.com/kleascm/structgen/pkg/report"
	"github.com/kleascm/structgen/pkg/source"
	"github.com/kleascm/structgen/pkg/value"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options configures a generation run
type Options struct {
	PackageName string           `json:"package_name"` // package clause of the generated file
	Workers     int              `json:"workers"`      // parallel pipelines, <= 0 uses NumCPU
	SkipInvalid bool             `json:"skip_invalid"` // skip sources with invalid input instead of aborting
	Format      bool             `json:"format"`       // gofmt the generated file
	Inference   inference.Config `json:"inference"`
	Render      render.Options   `json:"render"`
}

// DefaultOptions matches the behavior of a plain generate invocation
func DefaultOptions() Options {
	return Options{
		PackageName: "json",
		Inference:   inference.DefaultConfig(),
		Render:      render.Options{Order: render.OrderDependenciesFirst},
	}
}

// Validate checks the options for invalid values
func (o *Options) Validate() error {
	if o.PackageName == "" {
		return fmt.Errorf("package name must not be empty")
	}
	if _, ok := render.ParseOrder(string(o.Render.Order)); !ok {
		return fmt.Errorf("unsupported order: %s", o.Render.Order)
	}
	if err := o.Inference.Validate(); err != nil {
		return fmt.Errorf("invalid inference config: %w", err)
	}
	return nil
}

func (o *Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// FileResult is the output of one document
type FileResult struct {
	Path         string
	Record       string
	Declarations []render.Declaration
	Ambiguities  []inference.Ambiguity
	Duration     time.Duration
}

// Skipped is a source dropped from the run
type Skipped struct {
	Source source.Source
	Err    error
}

// Result is the output of a whole run
type Result struct {
	RunID        string
	StartTime    time.Time
	EndTime      time.Time
	Files        []*FileResult
	Skipped      []Skipped
	Declarations []render.Declaration
	Ambiguities  int

	errs *multierror.Error
}

// Err returns the errors of every skipped source, or nil
func (r *Result) Err() error {
	return r.errs.ErrorOrNil()
}

// Generate infers and renders one document
func Generate(ctx context.Context, doc *value.Document, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	var ambiguities []inference.Ambiguity
	inferrer, err := inference.New(opts.Inference, inference.WithAmbiguityHandler(func(a inference.Ambiguity) {
		ambiguities = append(ambiguities, a)
	}))
	if err != nil {
		return nil, err
	}

	root, err := inferrer.Infer(doc.Value, doc.Name, doc.ArraySource)
	if err != nil {
		return nil, err
	}

	decls, err := render.Render(root, opts.Render)
	if err != nil {
		return nil, err
	}

	return &FileResult{
		Path:         doc.Path,
		Record:       doc.Name,
		Declarations: decls,
		Ambiguities:  ambiguities,
		Duration:     time.Since(start),
	}, nil
}

type outcome struct {
	file *FileResult
	err  error
}

// Run generates every source. The returned error aborts the whole run; errors of
// skipped sources are available from Result.Err.
func Run(ctx context.Context, sources []source.Source, opts Options, log logrus.FieldLogger) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("run_id", result.RunID)

	outcomes := make([]outcome, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, src := range sources {
		g.Go(func() error {
			file, err := process(gctx, src, opts)
			if err == nil {
				outcomes[i].file = file
				return nil
			}
			if opts.SkipInvalid && skippable(err) {
				outcomes[i].err = err
				return nil
			}
			return fmt.Errorf("%s: %w", src.Path, err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := newMerger()
	for i, o := range outcomes {
		if o.err != nil {
			result.Skipped = append(result.Skipped, Skipped{Source: sources[i], Err: o.err})
			result.errs = multierror.Append(result.errs, fmt.Errorf("%s: %w", sources[i].Path, o.err))
			logging.LogSkipped(log, sources[i].Path, o.err)
			continue
		}

		if err := merged.add(o.file); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, o.file)
		result.Ambiguities += len(o.file.Ambiguities)

		for _, a := range o.file.Ambiguities {
			logging.LogAmbiguity(log, a.Path, a.Field, a.Reason)
		}
		logging.LogDocument(log, o.file.Path, o.file.Record, len(o.file.Declarations), len(o.file.Ambiguities), o.file.Duration)
	}

	result.Declarations = merged.decls
	result.EndTime = time.Now()
	logging.LogRun(log, result.RunID, len(result.Files), len(result.Skipped), len(result.Declarations), result.EndTime.Sub(result.StartTime))

	return result, nil
}

func process(ctx context.Context, src source.Source, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := source.Load(src)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, doc, opts)
}

// skippable reports whether err comes from the input rather than from the run itself
func skippable(err error) bool {
	var invariant *render.InternalInvariantError
	if errors.As(err, &invariant) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// merger combines declarations across files. A record name seen again with identical
// fields is dropped, with different fields it is a conflict.
type merger struct {
	decls  []render.Declaration
	byName map[string]int
	origin []string
}

func newMerger() *merger {
	return &merger{byName: make(map[string]int)}
}

func (m *merger) add(file *FileResult) error {
	for _, d := range file.Declarations {
		pos, ok := m.byName[d.Name]
		if !ok {
			m.byName[d.Name] = len(m.decls)
			m.decls = append(m.decls, d)
			m.origin = append(m.origin, file.Path)
			continue
		}
		if !m.decls[pos].Equal(d) {
			return &render.DuplicateRecordError{Name: d.Name, Sources: []string{m.origin[pos], file.Path}}
		}
	}
	return nil
}

// Report builds the run report for r
func (r *Result) Report(version, output string) *report.RunReport {
	rep := &report.RunReport{
		RunID:        r.RunID,
		Version:      version,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Duration:     r.EndTime.Sub(r.StartTime).String(),
		Output:       output,
		Declarations: len(r.Declarations),
		Ambiguities:  r.Ambiguities,
		Files:        make([]report.FileReport, 0, len(r.Files)),
	}

	for _, f := range r.Files {
		fr := report.FileReport{
			Source:   f.Path,
			Record:   f.Record,
			Duration: f.Duration.String(),
		}
		for _, d := range f.Declarations {
			fr.Declarations = append(fr.Declarations, d.Name)
		}
		for _, a := range f.Ambiguities {
			fr.Ambiguities = append(fr.Ambiguities, report.AmbiguityReport{Path: a.Path, Reason: a.Reason})
		}
		rep.Files = append(rep.Files, fr)
	}

	for _, s := range r.Skipped {
		rep.Skipped = append(rep.Skipped, report.SkippedReport{Source: s.Source.Path, Error: s.Err.Error()})
	}
	return rep
}
