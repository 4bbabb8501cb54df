// Package workbook writes a month's summary into the report spreadsheet.
package workbook

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Tiliavir/rileva/internal/asset"
	"github.com/Tiliavir/rileva/internal/log"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/units"
)

// ErrNoWriter is returned when no writer passes its availability probe.
var ErrNoWriter = errors.New("no spreadsheet writer available")

// MIMEType is the content type of the produced workbook.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Reason classifies an export failure.
type Reason string

const (
	ReasonSerialization       Reason = "serialization"
	ReasonTemplateUnavailable Reason = "template-unavailable"
)

// ExportError is returned when no writer produced a workbook.
type ExportError struct {
	Reason Reason
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed (%s): %v", e.Reason, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Result is a produced workbook. Degraded is set when the template could not
// be fetched and the values were written to a blank workbook instead;
// TemplateErr then holds the fetch failure.
type Result struct {
	Data        []byte
	Filename    string
	Writer      string
	Degraded    bool
	TemplateErr error
}

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Layout     Layout
	Normalizer units.Normalizer
	// Writers are tried in order. Defaults to PreservingWriter then GenericWriter.
	Writers []Writer
	Logger  log.Logger
}

// Engine populates the report template. It holds no per-export state and is
// safe for concurrent use.
type Engine struct {
	source  asset.Source
	writers []Writer
	layout  Layout
	norm    units.Normalizer
	logger  log.Logger
}

// NewEngine probes every writer and keeps the available ones.
func NewEngine(source asset.Source, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	candidates := opts.Writers
	if len(candidates) == 0 {
		candidates = []Writer{PreservingWriter{}, GenericWriter{}}
	}

	var writers []Writer
	for _, w := range candidates {
		if err := w.Available(); err != nil {
			logger.Warnf(context.Background(), "writer %s disabled: %v", w.Name(), err)
			continue
		}
		writers = append(writers, w)
	}
	if len(writers) == 0 {
		return nil, ErrNoWriter
	}
	return &Engine{
		source:  source,
		writers: writers,
		layout:  opts.Layout,
		norm:    opts.Normalizer,
		logger:  logger,
	}, nil
}

// Writers returns the names of the writers in use, in order.
func (e *Engine) Writers() []string {
	names := make([]string, len(e.writers))
	for i, w := range e.writers {
		names[i] = w.Name()
	}
	return names
}

// Export writes s into the template. The snapshot is copied first.
func (e *Engine) Export(ctx context.Context, s Snapshot) (Result, error) {
	snap := s.Clone()
	if !snap.Month.Valid() {
		return Result{}, fmt.Errorf("invalid month %q", snap.Month)
	}
	cells := e.layout.Plan(snap, e.norm)
	blank := e.layout.ClearRange()
	res := Result{Filename: Filename(snap.EmployeeName, snap.Month)}

	writers := e.writers
	template, err := e.fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, &ExportError{Reason: ReasonTemplateUnavailable, Err: err}
		}
		e.logger.Warnf(ctx, "template unavailable, writing a blank workbook: %v", err)
		res.Degraded = true
		res.TemplateErr = err
		template, err = BlankWorkbook()
		if err != nil {
			return Result{}, &ExportError{Reason: ReasonTemplateUnavailable, Err: err}
		}
		writers = writers[len(writers)-1:]
	}

	var errs []error
	for _, w := range writers {
		data, err := w.Populate(template, cells, blank)
		if err == nil {
			e.logger.Debugf(ctx, "workbook written by %s (%d bytes)", w.Name(), len(data))
			res.Data = data
			res.Writer = w.Name()
			return res, nil
		}
		e.logger.Warnf(ctx, "writer %s failed: %v", w.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
	}

	reason := ReasonSerialization
	if res.Degraded {
		reason = ReasonTemplateUnavailable
		errs = append(errs, res.TemplateErr)
	}
	return Result{}, &ExportError{Reason: reason, Err: errors.Join(errs...)}
}

func (e *Engine) fetch(ctx context.Context) ([]byte, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: no template source configured", asset.ErrTemplateUnavailable)
	}
	return e.source.Fetch(ctx)
}

// accentFold maps the accented letters of Italian names to their base letter.
var accentFold = strings.NewReplacer(
	"à", "a", "á", "a", "è", "e", "é", "e", "ì", "i", "í", "i",
	"ò", "o", "ó", "o", "ù", "u", "ú", "u",
	"À", "A", "Á", "A", "È", "E", "É", "E", "Ì", "I", "Í", "I",
	"Ò", "O", "Ó", "O", "Ù", "U", "Ú", "U",
)

// Filename returns SURNAME-Rilevazione_estratti_MM-YYYY.xlsx. The surname is
// the last word of name with accents folded, reduced to upper-case ASCII
// letters and digits so it can go into a header unquoted.
func Filename(name string, month model.MonthKey) string {
	surname := "UNKNOWN"
	if fields := strings.Fields(name); len(fields) > 0 {
		var b strings.Builder
		for _, r := range accentFold.Replace(fields[len(fields)-1]) {
			switch {
			case r >= 'a' && r <= 'z':
				b.WriteRune(r - 'a' + 'A')
			case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			surname = b.String()
		}
	}
	return fmt.Sprintf("%s-Rilevazione_estratti_%02d-%04d.xlsx", surname, int(month.Month()), month.Year())
}

// DataURL encodes a workbook for the export history.
func DataURL(data []byte) string {
	return "data:" + MIMEType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL is the inverse of DataURL.
func DecodeDataURL(url string) ([]byte, error) {
	prefix := "data:" + MIMEType + ";base64,"
	if !strings.HasPrefix(url, prefix) {
		return nil, fmt.Errorf("not a workbook data url")
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
}
