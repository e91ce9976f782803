package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/filedrop/service/internal/uploader"
)

// UploadOptions defines the options for the `upload` command.
type UploadOptions struct {
	client *ClientOptions
	files  []uploader.SelectedFile
	last   map[string]int

	Paths   []string
	Inline  bool
	Verbose bool

	iooption.IOStreams
}

var (
	uploadLong = templates.LongDesc(`
		Upload files one after another. Each file is sent to object storage
		and its public URL is then recorded with the server.

		A file that fails does not stop the rest. The command exits non-zero
		when any file could not be uploaded. Files that were stored but not
		recorded are reported as warnings.`)

	uploadExample = templates.Examples(`
		# Upload through pre-signed URLs
		filedrop upload a.txt b.png

		# Send bytes through the server when the bucket is not reachable
		filedrop upload --inline a.txt`)
)

// NewUploadOptions provides an initialised UploadOptions instance.
func NewUploadOptions(client *ClientOptions, streams iooption.IOStreams) *UploadOptions {
	return &UploadOptions{
		client:    client,
		last:      map[string]int{},
		IOStreams: streams,
	}
}

// NewUploadCommand creates the `upload` command.
func NewUploadCommand(o *UploadOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "upload FILE...",
		DisableFlagsInUseLine: true,
		Short:                 "Upload files and record their public URLs",
		Long:                  uploadLong,
		Example:               uploadExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&o.Inline, "inline", false, "Send file data base64-encoded through the server")
	flags.BoolVarP(&o.Verbose, "verbose", "v", false, "Log each step to stderr")

	return cmd
}

// Complete resolves the file arguments.
func (o *UploadOptions) Complete(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("at least one file is required")
	}
	o.Paths = args

	o.files = o.files[:0]
	for _, p := range o.Paths {
		f, err := uploader.NewSelectedFile(p)
		if err != nil {
			return err
		}
		o.files = append(o.files, f)
	}
	return nil
}

// Validate checks the options.
func (o *UploadOptions) Validate() error {
	if len(o.files) == 0 {
		return fmt.Errorf("at least one file is required")
	}
	return o.client.validate()
}

// Run uploads the selected files and prints a summary.
func (o *UploadOptions) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch := uploader.New(o.client.NewClient(),
		uploader.WithInline(o.Inline),
		uploader.WithLogger(o.logger()),
		uploader.WithObserver(o.printProgress),
	)
	results := orch.Run(ctx, o.files)

	var failed int
	for _, res := range results {
		switch res.Outcome {
		case uploader.OutcomeRecorded:
			fmt.Fprintf(o.Out, "%s\t%s\n", res.File.Name, res.PublicURL)
		case uploader.OutcomeUploadedNotRecorded:
			fmt.Fprintf(o.Out, "%s\t%s\n", res.File.Name, res.PublicURL)
			fmt.Fprintf(o.ErrOut, "warning: %s was uploaded but not recorded: %v\n", res.File.Name, res.Warning)
		default:
			failed++
			fmt.Fprintf(o.ErrOut, "error: %s: %v\n", res.File.Name, res.Err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to upload", failed, len(results))
	}
	return nil
}

func (o *UploadOptions) printProgress(s uploader.State) {
	for _, f := range s.Selection() {
		p := s.Progress(f.ID)
		prev, seen := o.last[f.ID]
		if seen && prev == p || !seen && p == 0 {
			continue
		}
		o.last[f.ID] = p
		fmt.Fprintf(o.ErrOut, "[%3d%%] %s\n", p, f.Name)
	}
}

func (o *UploadOptions) logger() *zap.Logger {
	if !o.Verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(o.ErrOut),
		zap.DebugLevel,
	)
	return zap.New(core)
}
