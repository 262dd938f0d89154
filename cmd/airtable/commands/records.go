package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ensembleblock/airtable/pkg/airtable"
)

// NewRecordsCommand creates the records command group.
func NewRecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record", "rec"},
		Short:   "Manage records",
		Long:    "Get, create, and update records in a table",
	}

	cmd.AddCommand(newRecordsGetCommand())
	cmd.AddCommand(newRecordsCreateCommand())
	cmd.AddCommand(newRecordsUpdateCommand())

	return cmd
}

func newRecordsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TABLE RECORD_ID",
		Short: "Get a record",
		Long:  "Fetch a single record from a table by its record ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			resp, err := client.GetRecord(context.Background(), &airtable.GetRecordOptions{
				Table:    args[0],
				RecordID: args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to get record: %w", err)
			}

			return outputEnvelope(resp)
		},
	}
}

func newRecordsCreateCommand() *cobra.Command {
	var fieldPairs []string

	cmd := &cobra.Command{
		Use:   "create TABLE",
		Short: "Create a record",
		Long:  "Create a record in a table from repeated --field key=value flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := ParseFieldPairs(fieldPairs)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			resp, err := client.CreateRecord(context.Background(), &airtable.CreateRecordOptions{
				Table:  args[0],
				Fields: fields,
			})
			if err != nil {
				return fmt.Errorf("failed to create record: %w", err)
			}

			return outputEnvelope(resp)
		},
	}

	cmd.Flags().StringArrayVarP(&fieldPairs, "field", "f", nil, "field to set (key=value, repeatable)")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func newRecordsUpdateCommand() *cobra.Command {
	var (
		fieldPairs []string
		method     string
	)

	cmd := &cobra.Command{
		Use:   "update TABLE RECORD_ID",
		Short: "Update a record",
		Long:  "Update a record via PATCH (merge fields) or PUT (replace fields)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := ParseFieldPairs(fieldPairs)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			resp, err := client.UpdateRecord(context.Background(), &airtable.UpdateRecordOptions{
				Table:    args[0],
				RecordID: args[1],
				Fields:   fields,
				Method:   method,
			})
			if err != nil {
				return fmt.Errorf("failed to update record: %w", err)
			}

			return outputEnvelope(resp)
		},
	}

	cmd.Flags().StringArrayVarP(&fieldPairs, "field", "f", nil, "field to set (key=value, repeatable)")
	cmd.Flags().StringVar(&method, "method", "", "update method (patch or put, default patch)")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

// outputEnvelope renders a response envelope. Error responses print their
// decoded body to stderr and fail the command.
func outputEnvelope(resp *airtable.APIResponse) error {
	if !resp.OK {
		if resp.Data != nil {
			_ = OutputValue(resp.Data)
		}

		return &airtable.APIError{Status: resp.Status, StatusText: resp.StatusText}
	}

	if record, ok := fieldSetOf(resp.Data); ok {
		if fields, ok := fieldSetOf(record["fields"]); ok {
			flat := make(airtable.FieldSet, len(fields)+1)
			for key, value := range fields {
				flat[key] = value
			}

			if id, ok := record["id"].(string); ok {
				flat[airtable.AirtableIDField] = id
			}

			return OutputValue(flat)
		}
	}

	return OutputValue(resp.Data)
}
