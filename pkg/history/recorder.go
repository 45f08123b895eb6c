package history

import (
	"context"

	"anybuf-dev/anybuf/pkg/compiler"
	"anybuf-dev/anybuf/pkg/telemetry/logging"
)

// FromResult converts a compile result. err is the error returned by
// Compile alongside res.
func FromResult(command string, res *compiler.Result, err error) *Build {
	b := &Build{
		ID:          res.ID,
		Command:     command,
		StartedAt:   res.Started,
		Duration:    res.Duration,
		Success:     err == nil,
		Files:       len(res.Files),
		Modules:     res.Stats.Modules,
		Enums:       res.Stats.Enums,
		Structs:     res.Stats.Structs,
		Diagnostics: res.DiagnosticStrings(),
	}
	if err != nil && len(res.Diagnostics) == 0 {
		b.Error = err.Error()
	}
	for _, out := range res.Outputs {
		o := Output{Language: out.Language, Path: out.Path, Bytes: out.Bytes}
		if out.Err != nil {
			o.Error = out.Err.Error()
		}
		b.Outputs = append(b.Outputs, o)
	}
	return b
}

// Recorder stores builds, logging instead of failing when the store
// is unavailable so that history never breaks a compile.
type Recorder struct {
	store   Store
	command string
	logger  *logging.Logger
}

// NewRecorder creates a recorder tagging builds with command. A nil
// store records nothing.
func NewRecorder(store Store, command string, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recorder{store: store, command: command, logger: logger}
}

// Record stores the outcome of one Compile call.
func (r *Recorder) Record(ctx context.Context, res *compiler.Result, err error) {
	if r == nil || r.store == nil || res == nil {
		return
	}
	// Record even when ctx was cancelled during the compile.
	if rerr := r.store.Record(context.WithoutCancel(ctx), FromResult(r.command, res, err)); rerr != nil {
		r.logger.WarnContext(ctx, "failed to record build", "error", rerr)
	}
}
