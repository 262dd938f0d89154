package airtable

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateRecordOptions holds the arguments of Client.CreateRecord.
type CreateRecordOptions struct {
	Table  string
	Fields FieldSet
}

// Validate implements the pre-flight argument checks for CreateRecord.
func (o *CreateRecordOptions) Validate() error {
	if o.Fields == nil {
		return ErrFieldsRequired
	}

	return validation.ValidateStruct(o,
		validation.Field(&o.Table, validation.Required),
	)
}

// GetRecordOptions holds the arguments of Client.GetRecord.
type GetRecordOptions struct {
	Table    string
	RecordID string
}

// Validate implements the pre-flight argument checks for GetRecord.
func (o *GetRecordOptions) Validate() error {
	if err := CheckRecordID(o.RecordID); err != nil {
		return err
	}

	return validation.ValidateStruct(o,
		validation.Field(&o.Table, validation.Required),
	)
}

// UpdateRecordOptions holds the arguments of Client.UpdateRecord. Method
// is case-insensitive and defaults to PATCH.
type UpdateRecordOptions struct {
	Table    string
	RecordID string
	Fields   FieldSet
	Method   string
}

// Validate implements the pre-flight argument checks for UpdateRecord.
func (o *UpdateRecordOptions) Validate() error {
	if o.Fields == nil {
		return ErrFieldsRequired
	}

	if err := CheckRecordID(o.RecordID); err != nil {
		return err
	}

	if o.Method != "" {
		switch strings.ToUpper(o.Method) {
		case "PATCH", "PUT":
		default:
			return fmt.Errorf("%w, got %q", ErrInvalidUpdateMethod, o.Method)
		}
	}

	return validation.ValidateStruct(o,
		validation.Field(&o.Table, validation.Required),
	)
}

// FindManyOptions holds the arguments of Client.FindMany.
//
// FilterByFormula and ModifiedSinceHours are mutually exclusive;
// ModifiedSinceHours is expanded into a {lastModifiedTime} formula. A nil
// Fields slice selects all fields; a non-nil slice must name at least one
// non-empty field.
type FindManyOptions struct {
	Table              string
	Fields             []string
	FilterByFormula    string
	ModifiedSinceHours int
	MaxRecords         int
	IncludeAirtableID  bool
}

// Validate implements the pre-flight argument checks for FindMany.
func (o *FindManyOptions) Validate() error {
	if o.FilterByFormula != "" && o.ModifiedSinceHours != 0 {
		return ErrFilterConflict
	}

	if o.ModifiedSinceHours < 0 {
		return ErrInvalidModifiedSince
	}

	if o.Fields != nil && len(o.Fields) == 0 {
		return ErrEmptyFieldSelection
	}

	for _, field := range o.Fields {
		if field == "" {
			return ErrEmptyFieldSelection
		}
	}

	return validation.ValidateStruct(o,
		validation.Field(&o.Table, validation.Required),
	)
}

// FindFirstOptions holds the arguments of Client.FindFirst. Where must
// contain exactly one key/value pair.
type FindFirstOptions struct {
	Table             string
	Where             map[string]any
	Fields            []string
	IncludeAirtableID bool
}

// Validate implements the pre-flight argument checks for FindFirst.
func (o *FindFirstOptions) Validate() error {
	if len(o.Where) != 1 {
		return ErrFilterSingleKey
	}

	if o.Fields != nil && len(o.Fields) == 0 {
		return ErrEmptyFieldSelection
	}

	for _, field := range o.Fields {
		if field == "" {
			return ErrEmptyFieldSelection
		}
	}

	return validation.ValidateStruct(o,
		validation.Field(&o.Table, validation.Required),
	)
}

// UpsertRecordOptions holds the arguments of Client.UpsertRecord. Where
// must contain exactly one key/value pair, Set at least one field, and the
// two must not share a key.
type UpsertRecordOptions struct {
	Table string
	Where map[string]any
	Set   FieldSet
}

// Validate implements the pre-flight argument checks for UpsertRecord.
func (o *UpsertRecordOptions) Validate() error {
	if len(o.Where) != 1 {
		return ErrFilterSingleKey
	}

	if len(o.Set) == 0 {
		return ErrSetRequired
	}

	for key := range o.Where {
		if _, ok := o.Set[key]; ok {
			return fmt.Errorf("%w: %q", ErrSetWhereOverlap, key)
		}
	}

	return validation.ValidateStruct(o,
		validation.Field(&o.Table, validation.Required),
	)
}

// CheckRecordID validates the shape of a vendor record ID: "rec" prefix
// and at least 10 characters.
func CheckRecordID(recordID string) error {
	if len(recordID) < MinRecordIDLength || !strings.HasPrefix(recordID, RecordIDPrefix) {
		return fmt.Errorf("%w, got %q", ErrInvalidRecordID, recordID)
	}

	return nil
}
