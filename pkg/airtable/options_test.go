package airtable_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ensembleblock/airtable/pkg/airtable"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *airtable.Config
		wantErr error
	}{
		{name: "nil config", config: nil, wantErr: airtable.ErrConfigRequired},
		{name: "missing key", config: &airtable.Config{BaseID: "app_mock_1234567890"}, wantErr: airtable.ErrAPIKeyTooShort},
		{
			name:    "key of nine characters",
			config:  &airtable.Config{APIKey: "123456789", BaseID: "app_mock_1234567890"},
			wantErr: airtable.ErrAPIKeyTooShort,
		},
		{
			name:    "base ID missing prefix",
			config:  &airtable.Config{APIKey: "key_mock_1234567890", BaseID: "tbl_mock_1234567890"},
			wantErr: airtable.ErrInvalidBaseID,
		},
		{name: "valid", config: &airtable.Config{APIKey: "key_mock_1234567890", BaseID: "app_mock_1234567890"}},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.config.Validate()
			if testCase.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.True(t, errors.Is(err, testCase.wantErr))
		})
	}
}

func TestCheckRecordID(t *testing.T) {
	t.Parallel()

	assert.NoError(t, airtable.CheckRecordID("rec_mock_123456789"))

	// Exactly ten characters with the prefix is the floor.
	assert.NoError(t, airtable.CheckRecordID("rec1234567"))

	for _, recordID := range []string{"", "rec123456", "app_mock_123456789"} {
		err := airtable.CheckRecordID(recordID)
		assert.True(t, errors.Is(err, airtable.ErrInvalidRecordID), "recordID %q", recordID)
	}
}

func TestUpdateRecordOptions_Validate(t *testing.T) {
	t.Parallel()

	base := func() *airtable.UpdateRecordOptions {
		return &airtable.UpdateRecordOptions{
			Table:    "Contacts",
			RecordID: "rec_mock_123456789",
			Fields:   airtable.FieldSet{"name": "Jane"},
		}
	}

	assert.NoError(t, base().Validate())

	for _, method := range []string{"PATCH", "patch", "PUT", "Put"} {
		opts := base()
		opts.Method = method
		assert.NoError(t, opts.Validate(), "method %q", method)
	}

	opts := base()
	opts.Method = "POST"
	assert.True(t, errors.Is(opts.Validate(), airtable.ErrInvalidUpdateMethod))

	opts = base()
	opts.Fields = nil
	assert.True(t, errors.Is(opts.Validate(), airtable.ErrFieldsRequired))

	opts = base()
	opts.Table = ""
	assert.Error(t, opts.Validate())
}

func TestUpsertRecordOptions_Validate(t *testing.T) {
	t.Parallel()

	opts := &airtable.UpsertRecordOptions{
		Table: "Contacts",
		Where: map[string]any{"email": "jane@example.com"},
		Set:   airtable.FieldSet{"name": "Jane"},
	}
	assert.NoError(t, opts.Validate())

	overlap := &airtable.UpsertRecordOptions{
		Table: "Contacts",
		Where: map[string]any{"email": "jane@example.com"},
		Set:   airtable.FieldSet{"email": "joan@example.com", "name": "Joan"},
	}
	assert.True(t, errors.Is(overlap.Validate(), airtable.ErrSetWhereOverlap))
}
