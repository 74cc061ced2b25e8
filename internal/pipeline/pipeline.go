// Package pipeline runs a conversion: it plans the three input phases,
// feeds every file through its classifier into one string table and emits
// the result.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/conneroisu/jsconvert/internal/classify"
	"github.com/conneroisu/jsconvert/internal/emit"
	"github.com/conneroisu/jsconvert/internal/errors"
	"github.com/conneroisu/jsconvert/internal/logging"
	"github.com/conneroisu/jsconvert/internal/source"
	"github.com/conneroisu/jsconvert/internal/strtable"
)

// Request describes one conversion run.
type Request struct {
	Before  []string
	Convert []string
	After   []string
	Output  string

	// Encoding is the label of the source text encoding; empty means UTF-8.
	Encoding string
	Emit     emit.Options
}

// NewRequest returns a request with default emit options.
func NewRequest(before, convert, after []string, output string) Request {
	return Request{
		Before:   before,
		Convert:  convert,
		After:    after,
		Output:   output,
		Encoding: source.DefaultEncoding,
		Emit:     emit.DefaultOptions(),
	}
}

// Inputs returns every input path of the request in processing order.
func (r Request) Inputs() []string {
	inputs := make([]string, 0, len(r.Before)+len(r.Convert)+len(r.After))
	inputs = append(inputs, r.Before...)
	inputs = append(inputs, r.Convert...)
	return append(inputs, r.After...)
}

// Job is one planned file conversion.
type Job struct {
	Phase classify.Phase `json:"phase" yaml:"phase"`
	Kind  classify.Kind  `json:"kind" yaml:"kind"`
	Path  string         `json:"path" yaml:"path"`
	Name  string         `json:"name" yaml:"name"`
}

// Plan lists the jobs of req in processing order: all before files, then
// all convert files, then all after files, each group in the given order.
// The policy of every file is fixed here, before anything is read.
func Plan(req Request) []Job {
	jobs := make([]Job, 0, len(req.Before)+len(req.Convert)+len(req.After))
	add := func(phase classify.Phase, paths []string) {
		for _, path := range paths {
			jobs = append(jobs, Job{
				Phase: phase,
				Kind:  classify.Select(phase, path),
				Path:  path,
				Name:  filepath.Base(path),
			})
		}
	}
	add(classify.PhaseBefore, req.Before)
	add(classify.PhaseConvert, req.Convert)
	add(classify.PhaseAfter, req.After)
	return jobs
}

// Result summarizes a completed run.
type Result struct {
	Output      string                `json:"output"`
	Entries     int                   `json:"entries"`
	BufferBytes int                   `json:"buffer_bytes"`
	Kinds       map[classify.Kind]int `json:"kinds"`
	Duration    time.Duration         `json:"duration"`
	Table       *strtable.Table       `json:"-"`
}

// JobCallback is called after each job has been added to the table.
type JobCallback func(job Job, items []classify.Item)

// Pipeline converts requests. A Pipeline holds no per-run state; each call
// to Run owns its own builder.
type Pipeline struct {
	logger    logging.Logger
	callbacks []JobCallback
}

// New creates a pipeline logging to logger. A nil logger discards logs.
func New(logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Pipeline{logger: logger.WithComponent("pipeline")}
}

// AddCallback registers a callback invoked after each job.
func (p *Pipeline) AddCallback(cb JobCallback) {
	p.callbacks = append(p.callbacks, cb)
}

// Run converts every input of req and writes the artifact to req.Output.
// The first failing file aborts the run and nothing is written.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	table, result, err := p.build(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := emit.WriteFile(req.Output, table, req.Emit); err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Wrote artifact",
		"output", req.Output,
		"entries", result.Entries,
		"buffer_bytes", result.BufferBytes)

	return result, nil
}

// Build runs the conversion without writing anything and returns the
// finalized table in the result.
func (p *Pipeline) Build(ctx context.Context, req Request) (*Result, error) {
	_, result, err := p.build(ctx, req)
	return result, err
}

func (p *Pipeline) build(ctx context.Context, req Request) (*strtable.Table, *Result, error) {
	start := time.Now()

	if err := req.Emit.Validate(); err != nil {
		return nil, nil, errors.NewUsageError(errors.ErrCodeInvalidArgument, "invalid output options: "+err.Error())
	}

	reader, err := source.NewReader(req.Encoding)
	if err != nil {
		return nil, nil, err
	}

	builder := strtable.NewBuilder()
	kinds := make(map[classify.Kind]int, len(classify.Kinds))

	for _, job := range Plan(req) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		items, err := classify.Apply(job.Kind, job.Path, reader)
		if err != nil {
			return nil, nil, err
		}

		for _, item := range items {
			if err := builder.Add(item.Name, item.Content); err != nil {
				return nil, nil, err
			}
		}
		kinds[job.Kind]++

		p.logger.Debug(ctx, "Converted file",
			"phase", job.Phase.String(),
			"kind", job.Kind.String(),
			"path", job.Path)

		for _, cb := range p.callbacks {
			cb(job, items)
		}
	}

	table, err := builder.Finalize()
	if err != nil {
		return nil, nil, err
	}

	result := &Result{
		Output:      req.Output,
		Entries:     len(table.Entries),
		BufferBytes: len(table.Buffer),
		Kinds:       kinds,
		Duration:    time.Since(start),
		Table:       table,
	}
	return table, result, nil
}

// Convert runs a conversion with default options: UTF-8 input and the
// jsSources C++ table.
func Convert(ctx context.Context, before, convert, after []string, output string) error {
	_, err := New(nil).Run(ctx, NewRequest(before, convert, after, output))
	return err
}
