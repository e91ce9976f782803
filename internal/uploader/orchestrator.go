package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/filedrop/service/internal/files"
)

// Outcome is where a single file ended up after Run.
type Outcome string

const (
	OutcomeRecorded            Outcome = "recorded"
	OutcomeUploadedNotRecorded Outcome = "uploaded-not-recorded"
	OutcomeNotUploaded         Outcome = "not-uploaded"
)

// Result reports one file. Err is set for OutcomeNotUploaded, Warning for
// OutcomeUploadedNotRecorded.
type Result struct {
	File      SelectedFile
	Outcome   Outcome
	Path      string
	PublicURL string
	Record    *files.FileRecord
	Err       error
	Warning   error
}

// API is the server surface the orchestrator drives.
type API interface {
	RequestUploadTarget(ctx context.Context, name string) (*UploadTarget, error)
	UploadInline(ctx context.Context, name string, data []byte, contentType string) (*InlineUpload, error)
	RecordFile(ctx context.Context, req RecordRequest) (*files.FileRecord, error)
}

// Orchestrator uploads files one at a time. It keeps the current State and
// hands every new snapshot to the observer.
type Orchestrator struct {
	api      API
	transfer *http.Client
	inline   bool
	logger   *zap.Logger
	observer func(State)
	state    State
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithInline sends file bytes through the API instead of a signed URL.
func WithInline(inline bool) Option {
	return func(o *Orchestrator) { o.inline = inline }
}

// WithTransferClient sets the HTTP client used for the PUT to the write target.
func WithTransferClient(c *http.Client) Option {
	return func(o *Orchestrator) { o.transfer = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithObserver registers fn to receive every state snapshot.
func WithObserver(fn func(State)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// New returns an Orchestrator driving api.
func New(api API, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:      api,
		transfer: http.DefaultClient,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the latest snapshot.
func (o *Orchestrator) State() State { return o.state }

// Run uploads selected in order and returns one Result per file, in the
// same order. A failing file never stops the ones after it. Nothing is
// retried.
func (o *Orchestrator) Run(ctx context.Context, selected []SelectedFile) []Result {
	o.set(o.state.Select(selected...))

	results := make([]Result, 0, len(selected))
	for _, f := range selected {
		res := o.uploadOne(ctx, f)
		switch res.Outcome {
		case OutcomeNotUploaded:
			o.logger.Error("upload failed", zap.String("file", f.Name), zap.Error(res.Err))
		case OutcomeUploadedNotRecorded:
			o.logger.Warn("file stored but not recorded", zap.String("file", f.Name), zap.String("url", res.PublicURL), zap.Error(res.Warning))
		default:
			o.logger.Info("file uploaded", zap.String("file", f.Name), zap.String("url", res.PublicURL))
		}
		results = append(results, res)
	}
	return results
}

func (o *Orchestrator) uploadOne(ctx context.Context, f SelectedFile) Result {
	res := Result{File: f}
	o.set(o.state.WithProgress(f.ID, ProgressStarted))

	path, publicURL, err := o.store(ctx, f)
	if err != nil {
		o.set(o.state.WithProgress(f.ID, 0))
		res.Outcome = OutcomeNotUploaded
		res.Err = err
		return res
	}
	res.Path, res.PublicURL = path, publicURL
	o.set(o.state.WithProgress(f.ID, ProgressDone))

	size := f.Size
	record, err := o.api.RecordFile(ctx, RecordRequest{FileURL: publicURL, FileName: f.Name, FileSize: &size})
	if err != nil {
		// Bytes are already durable; keep progress at 100 and move on.
		res.Outcome = OutcomeUploadedNotRecorded
		res.Warning = fmt.Errorf("record %s: %w", f.Name, err)
		o.set(o.state.WithUploaded(Uploaded{FileID: f.ID, Name: f.Name, Path: path, PublicURL: publicURL}))
		return res
	}

	res.Outcome = OutcomeRecorded
	res.Record = record
	o.set(o.state.WithUploaded(Uploaded{FileID: f.ID, Name: f.Name, Path: path, PublicURL: publicURL, Record: record}))
	return res
}

// store gets f's bytes into object storage and returns the storage path and
// public URL.
func (o *Orchestrator) store(ctx context.Context, f SelectedFile) (string, string, error) {
	if o.inline {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", f.Path, err)
		}
		o.set(o.state.WithProgress(f.ID, ProgressTargeted))
		up, err := o.api.UploadInline(ctx, f.Name, data, f.ContentType)
		if err != nil {
			return "", "", fmt.Errorf("upload %s: %w", f.Name, err)
		}
		return up.Path, up.PublicURL, nil
	}

	target, err := o.api.RequestUploadTarget(ctx, f.Name)
	if err != nil {
		return "", "", fmt.Errorf("get upload url for %s: %w", f.Name, err)
	}
	o.set(o.state.WithProgress(f.ID, ProgressTargeted))

	if err := o.put(ctx, target, f); err != nil {
		return "", "", err
	}
	return target.Path, target.PublicURL, nil
}

func (o *Orchestrator) put(ctx context.Context, target *UploadTarget, f SelectedFile) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	method := target.Method
	if method == "" {
		method = http.MethodPut
	}
	var body io.Reader = file
	if f.Size == 0 {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, target.SignedURL, body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = f.Size
	if f.ContentType != "" {
		req.Header.Set("Content-Type", f.ContentType)
	}

	resp, err := o.transfer.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", f.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		msg := fmt.Sprintf("upload failed: %s", resp.Status)
		if text := strings.TrimSpace(string(detail)); text != "" {
			msg += ": " + text
		}
		return errors.New(msg)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (o *Orchestrator) set(s State) {
	o.state = s
	if o.observer != nil {
		o.observer(s)
	}
}
