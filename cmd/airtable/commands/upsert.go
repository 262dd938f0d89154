package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ensembleblock/airtable/pkg/airtable"
)

// NewUpsertCommand creates the upsert command.
func NewUpsertCommand() *cobra.Command {
	var (
		wherePair string
		setPairs  []string
	)

	cmd := &cobra.Command{
		Use:   "upsert TABLE",
		Short: "Create or update a record",
		Long: `Create or update the record matching a field=value filter.

If no record matches, one is created from the filter and the --set fields.
If one matches and every --set field is already in place, nothing is
written. Otherwise the record is patched with the --set fields.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if wherePair == "" {
				return ErrWhereRequired
			}

			if len(setPairs) == 0 {
				return ErrSetRequired
			}

			where, err := ParseFieldPairs([]string{wherePair})
			if err != nil {
				return err
			}

			set, err := ParseFieldPairs(setPairs)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.UpsertRecord(context.Background(), &airtable.UpsertRecordOptions{
				Table: args[0],
				Where: where,
				Set:   set,
			})
			if err != nil {
				return fmt.Errorf("failed to upsert record: %w", err)
			}

			if output := viper.GetString("output"); output == OutputFormatJSON || output == OutputFormatYAML {
				return OutputValue(result)
			}

			_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", result.Outcome, result.AirtableID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&wherePair, "where", "w", "", "filter field (key=value, required)")
	cmd.Flags().StringArrayVarP(&setPairs, "set", "s", nil, "field to write (key=value, repeatable)")
	_ = cmd.MarkFlagRequired("where")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}
