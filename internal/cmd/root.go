// Package cmd implements the filedrop command line client.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	cliflag "github.com/tomasbasham/cli-runtime/flag"
	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/printer"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/filedrop/service/internal/uploader"
)

// serverEnv overrides the default API base URL.
const serverEnv = "FILEDROP_SERVER"

const defaultServer = "http://localhost:8080/api/v1"

var (
	rootLong = templates.LongDesc(`
		Upload local files to object storage through a filedrop server and
		browse what has been recorded.

		The API base URL is taken from --server, then from the FILEDROP_SERVER
		environment variable.`)

	rootExamples = templates.Examples(`
		# Upload two files
		filedrop upload report.pdf photo.png

		# List recorded files from a remote server
		filedrop list --server https://files.example.com/api/v1`)

	// Injected at build time using ldflags.
	version = ""
	commit  = ""
)

// ClientOptions holds the flags shared by every command that talks to the
// API.
type ClientOptions struct {
	Server  string
	Timeout time.Duration
}

// NewClient builds an API client from the options.
func (c *ClientOptions) NewClient() *uploader.Client {
	return uploader.NewClient(c.Server, &http.Client{Timeout: c.Timeout})
}

func (c *ClientOptions) validate() error {
	if c.Server == "" {
		return fmt.Errorf("--server is required")
	}
	return nil
}

// FiledropOptions defines the options for the `filedrop` command.
type FiledropOptions struct {
	Client ClientOptions

	iooption.IOStreams
}

// NewFiledropOptions provides an initialised FiledropOptions instance.
func NewFiledropOptions(streams iooption.IOStreams) *FiledropOptions {
	return &FiledropOptions{
		IOStreams: streams,
	}
}

// NewRootCommand creates the `filedrop` command with default arguments.
func NewRootCommand() *cobra.Command {
	options := NewFiledropOptions(iooption.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	return NewRootCommandWithArgs(options)
}

// NewRootCommandWithArgs creates the `filedrop` command and its nested
// children.
func NewRootCommandWithArgs(o *FiledropOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "filedrop [command]",
		Version:               versionInfo(),
		DisableFlagsInUseLine: true,
		Short:                 "Upload files and list uploaded files",
		Long:                  rootLong,
		Example:               rootExamples,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}

	printerOpts := printer.WarningPrinterOptions{Color: true}
	warnings := printer.NewWarningPrinter(o.ErrOut, printerOpts)
	cmd.SetGlobalNormalizationFunc(cliflag.WarnWordSepNormalizeFunc(warnings))

	server := os.Getenv(serverEnv)
	if server == "" {
		server = defaultServer
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVarP(&o.Client.Server, "server", "s", server, "API base URL including the version prefix")
	pflags.DurationVar(&o.Client.Timeout, "timeout", 5*time.Minute, "Timeout for each HTTP request")

	cmd.AddCommand(NewUploadCommand(NewUploadOptions(&o.Client, o.IOStreams)))
	cmd.AddCommand(NewListCommand(NewListOptions(&o.Client, o.IOStreams)))

	cmd.SetGlobalNormalizationFunc(cliflag.WordSepNormalizeFunc())

	return cmd
}

func versionInfo() string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}
