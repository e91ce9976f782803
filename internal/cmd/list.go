package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/templates"
)

// ListOptions defines the options for the `list` command.
type ListOptions struct {
	client *ClientOptions

	Output string

	iooption.IOStreams
}

var (
	listLong = templates.LongDesc(`
		List every recorded file, most recent first.`)

	listExample = templates.Examples(`
		# Print a table
		filedrop list

		# Print the raw records
		filedrop list -o json`)
)

// NewListOptions provides an initialised ListOptions instance.
func NewListOptions(client *ClientOptions, streams iooption.IOStreams) *ListOptions {
	return &ListOptions{
		client:    client,
		IOStreams: streams,
	}
}

// NewListCommand creates the `list` command.
func NewListCommand(o *ListOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "list",
		Aliases:               []string{"ls"},
		DisableFlagsInUseLine: true,
		Short:                 "List uploaded files",
		Long:                  listLong,
		Example:               listExample,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&o.Output, "output", "o", "table", "Output format: table or json")

	return cmd
}

// Validate checks the options.
func (o *ListOptions) Validate() error {
	switch o.Output {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q", o.Output)
	}
	return o.client.validate()
}

// Run fetches and prints the file list.
func (o *ListOptions) Run(ctx context.Context) error {
	list, err := o.client.NewClient().ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	if o.Output == "json" {
		enc := json.NewEncoder(o.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if list.Count == 0 {
		fmt.Fprintln(o.ErrOut, "No files uploaded yet.")
		return nil
	}

	w := tabwriter.NewWriter(o.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tCREATED\tURL")
	for _, f := range list.Files {
		size := "-"
		if f.FileSize != nil {
			size = strconv.FormatInt(*f.FileSize, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.FileName, size, f.CreatedAt.Local().Format("2006-01-02 15:04:05"), f.FileURL)
	}
	return w.Flush()
}
