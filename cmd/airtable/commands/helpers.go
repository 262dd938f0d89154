package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ensembleblock/airtable/pkg/airtable"
	"github.com/ensembleblock/airtable/pkg/atclient"
)

// Common string constants used throughout the commands package.
const (
	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	Masked = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrAPIKeyRequired   = errors.New("API key is required (use --api-key, AIRTABLE_API_KEY, or 'airtable configure')")
	ErrBaseRequired     = errors.New("base ID is required (use --base or 'airtable configure')")
	ErrInvalidFieldPair = errors.New("invalid field, expected key=value")
	ErrWhereRequired    = errors.New("--where flag is required")
	ErrSetRequired      = errors.New("at least one --set flag is required")
)

// CreateClient builds an Airtable client from the effective configuration
// (flags, environment, config file).
func CreateClient() (airtable.Client, error) {
	apiKey := viper.GetString("api-key")
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	baseID := viper.GetString("base")
	if baseID == "" {
		return nil, ErrBaseRequired
	}

	client, err := atclient.New(&airtable.Config{
		APIKey:  apiKey,
		BaseID:  baseID,
		BaseURL: viper.GetString("base-url"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// ParseFieldPairs turns repeated key=value flags into a field set. Values
// that parse as JSON keep their type (numbers, booleans, arrays); anything
// else is taken as a string.
func ParseFieldPairs(pairs []string) (airtable.FieldSet, error) {
	fields := make(airtable.FieldSet, len(pairs))

	for _, pair := range pairs {
		key, rawValue, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFieldPair, pair)
		}

		var value any
		if err := json.Unmarshal([]byte(rawValue), &value); err != nil {
			value = rawValue
		}

		fields[key] = value
	}

	return fields, nil
}

// formatFieldValue renders a field value for table output.
func formatFieldValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		raw, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}

		return string(raw)
	}
}

// sortedFieldKeys returns the keys of a field set in a stable order, with
// the injected record ID column first when present.
func sortedFieldKeys(fields airtable.FieldSet) []string {
	keys := make([]string, 0, len(fields))

	for key := range fields {
		if key == airtable.AirtableIDField {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	if _, ok := fields[airtable.AirtableIDField]; ok {
		keys = append([]string{airtable.AirtableIDField}, keys...)
	}

	return keys
}

// OutputValue writes a single value in the configured output format. Table
// output renders a two-column property/value listing.
func OutputValue(value any) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode as JSON: %w", err)
		}

		return nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode as YAML: %w", err)
		}

		return nil
	default:
		return outputValueTable(value)
	}
}

func outputValueTable(value any) error {
	fields, ok := fieldSetOf(value)
	if !ok {
		_, _ = fmt.Fprintf(os.Stdout, "%v\n", value)

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	for _, key := range sortedFieldKeys(fields) {
		_ = table.Append(key, formatFieldValue(fields[key]))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// OutputRecords writes a list of flattened records in the configured output
// format. Table output derives its columns from the union of field names.
func OutputRecords(records []airtable.FieldSet) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON, OutputFormatYAML:
		return OutputValue(records)
	default:
		return outputRecordsTable(records)
	}
}

func outputRecordsTable(records []airtable.FieldSet) error {
	if len(records) == 0 {
		_, _ = os.Stdout.WriteString("No records found\n")

		return nil
	}

	columns := recordColumns(records)

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header...)

	for _, record := range records {
		row := make([]any, len(columns))
		for i, column := range columns {
			row[i] = formatFieldValue(record[column])
		}

		_ = table.Append(row...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "\n%d record(s)\n", len(records))

	return nil
}

func recordColumns(records []airtable.FieldSet) []string {
	union := make(airtable.FieldSet)
	for _, record := range records {
		for key, value := range record {
			union[key] = value
		}
	}

	return sortedFieldKeys(union)
}

func fieldSetOf(value any) (airtable.FieldSet, bool) {
	switch typed := value.(type) {
	case airtable.FieldSet:
		return typed, true
	case map[string]any:
		return airtable.FieldSet(typed), true
	default:
		return nil, false
	}
}

// MaskAPIKey hides all but the first four characters of a key for display.
func MaskAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return Masked
	}

	return apiKey[:4] + Masked
}
