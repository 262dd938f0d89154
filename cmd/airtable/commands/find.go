package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ensembleblock/airtable/pkg/airtable"
)

// FindOptions holds the flag values of the find command.
type FindOptions struct {
	Fields             []string
	Formula            string
	ModifiedSinceHours int
	MaxRecords         int
	IncludeID          bool
}

// NewFindCommand creates the find command.
func NewFindCommand() *cobra.Command {
	var opts FindOptions

	cmd := &cobra.Command{
		Use:   "find TABLE",
		Short: "Find records",
		Long:  "List records in a table, following the server's pagination cursor until exhausted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFindCommand(args[0], opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Fields, "fields", nil, "fields to fetch (default all)")
	cmd.Flags().StringVar(&opts.Formula, "formula", "", "Airtable filterByFormula expression")
	cmd.Flags().IntVar(&opts.ModifiedSinceHours, "modified-since-hours", 0, "only records modified in the last N hours")
	cmd.Flags().IntVar(&opts.MaxRecords, "max-records", 0, "maximum number of records to return")
	cmd.Flags().BoolVar(&opts.IncludeID, "include-id", false, "inject the record ID into each result")

	return cmd
}

func runFindCommand(table string, opts FindOptions) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	records, err := client.FindMany(context.Background(), &airtable.FindManyOptions{
		Table:              table,
		Fields:             opts.Fields,
		FilterByFormula:    opts.Formula,
		ModifiedSinceHours: opts.ModifiedSinceHours,
		MaxRecords:         opts.MaxRecords,
		IncludeAirtableID:  opts.IncludeID,
	})
	if err != nil {
		return fmt.Errorf("failed to find records: %w", err)
	}

	return OutputRecords(records)
}

// NewFindFirstCommand creates the find-first command.
func NewFindFirstCommand() *cobra.Command {
	var (
		wherePair string
		fields    []string
		includeID bool
	)

	cmd := &cobra.Command{
		Use:   "find-first TABLE",
		Short: "Find a single record",
		Long:  "Find the one record matching a field=value filter; zero or multiple matches yield nothing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if wherePair == "" {
				return ErrWhereRequired
			}

			where, err := ParseFieldPairs([]string{wherePair})
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			record, err := client.FindFirst(context.Background(), &airtable.FindFirstOptions{
				Table:             args[0],
				Where:             where,
				Fields:            fields,
				IncludeAirtableID: includeID,
			})
			if err != nil {
				return fmt.Errorf("failed to find record: %w", err)
			}

			if record == nil {
				_, _ = os.Stdout.WriteString("No unique match\n")

				return nil
			}

			return OutputValue(record)
		},
	}

	cmd.Flags().StringVarP(&wherePair, "where", "w", "", "filter field (key=value, required)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to fetch (default all)")
	cmd.Flags().BoolVar(&includeID, "include-id", false, "inject the record ID into the result")
	_ = cmd.MarkFlagRequired("where")

	return cmd
}
