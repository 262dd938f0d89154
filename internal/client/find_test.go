package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensembleblock/airtable/pkg/airtable"
)

func listPage(records []map[string]any, offset string) map[string]any {
	page := map[string]any{"records": records}
	if offset != "" {
		page["offset"] = offset
	}

	return page
}

func mockRecord(id string, fields map[string]any) map[string]any {
	return map[string]any{
		"id":          id,
		"createdTime": "2024-01-15T10:30:00.000Z",
		"fields":      fields,
	}
}

func TestClient_FindMany_EmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, testBase+"/Contacts/listRecords", request.URL.Path)
		assert.Equal(t, "POST", request.Method)

		body, err := io.ReadAll(request.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(body))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(listPage([]map[string]any{
			mockRecord("rec_mock_000000001", map[string]any{"name": "Jane"}),
			mockRecord("rec_mock_000000002", map[string]any{"name": "Joan"}),
		}, ""))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	records, err := client.FindMany(context.Background(), &airtable.FindManyOptions{Table: "Contacts"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Plain field maps, no identity tag by default.
	assert.Equal(t, airtable.FieldSet{"name": "Jane"}, records[0])
	assert.Equal(t, airtable.FieldSet{"name": "Joan"}, records[1])
}

func TestClient_FindMany_RequestPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, err := io.ReadAll(request.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"fields":["name","email"],"filterByFormula":"{active}=1","maxRecords":25}`, string(body))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(listPage(nil, ""))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FindMany(context.Background(), &airtable.FindManyOptions{
		Table:           "Contacts",
		Fields:          []string{"name", "email"},
		FilterByFormula: "{active}=1",
		MaxRecords:      25,
	})
	require.NoError(t, err)
}

func TestClient_FindMany_ModifiedSinceHours(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body airtable.ListRecordsRequest

		err := json.NewDecoder(request.Body).Decode(&body)
		require.NoError(t, err)
		assert.Equal(t, "{lastModifiedTime}>=DATETIME_FORMAT(DATEADD(NOW(),-24,'hours'))", body.FilterByFormula)

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(listPage(nil, ""))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FindMany(context.Background(), &airtable.FindManyOptions{
		Table:              "Contacts",
		ModifiedSinceHours: 24,
	})
	require.NoError(t, err)
}

func TestClient_FindMany_Validation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://localhost:0")
	ctx := context.Background()

	_, err := client.FindMany(ctx, &airtable.FindManyOptions{
		Table:              "Contacts",
		FilterByFormula:    "{active}=1",
		ModifiedSinceHours: 24,
	})
	assert.True(t, errors.Is(err, airtable.ErrFilterConflict))

	_, err = client.FindMany(ctx, &airtable.FindManyOptions{Table: "Contacts", ModifiedSinceHours: -1})
	assert.True(t, errors.Is(err, airtable.ErrInvalidModifiedSince))

	_, err = client.FindMany(ctx, &airtable.FindManyOptions{Table: "Contacts", Fields: []string{}})
	assert.True(t, errors.Is(err, airtable.ErrEmptyFieldSelection))

	_, err = client.FindMany(ctx, &airtable.FindManyOptions{Table: "Contacts", Fields: []string{"name", ""}})
	assert.True(t, errors.Is(err, airtable.ErrEmptyFieldSelection))

	_, err = client.FindMany(ctx, &airtable.FindManyOptions{})
	require.Error(t, err)
}

func TestClient_FindMany_Pagination(t *testing.T) {
	t.Parallel()

	var offsets []string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body airtable.ListRecordsRequest

		err := json.NewDecoder(request.Body).Decode(&body)
		require.NoError(t, err)

		offsets = append(offsets, body.Offset)

		writer.Header().Set("Content-Type", "application/json")

		switch body.Offset {
		case "":
			_ = json.NewEncoder(writer).Encode(listPage([]map[string]any{
				mockRecord("rec_mock_000000001", map[string]any{"n": float64(1)}),
				mockRecord("rec_mock_000000002", map[string]any{"n": float64(2)}),
			}, "cursor-1"))
		case "cursor-1":
			_ = json.NewEncoder(writer).Encode(listPage([]map[string]any{
				mockRecord("rec_mock_000000003", map[string]any{"n": float64(3)}),
			}, "cursor-2"))
		case "cursor-2":
			_ = json.NewEncoder(writer).Encode(listPage([]map[string]any{
				mockRecord("rec_mock_000000004", map[string]any{"n": float64(4)}),
			}, ""))
		default:
			t.Errorf("unexpected offset %q", body.Offset)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	records, err := client.FindMany(context.Background(), &airtable.FindManyOptions{Table: "Contacts"})
	require.NoError(t, err)

	// One request per page, each carrying the previous page's offset.
	assert.Equal(t, []string{"", "cursor-1", "cursor-2"}, offsets)

	// Pages concatenated in response order.
	require.Len(t, records, 4)

	for i, record := range records {
		assert.Equal(t, float64(i+1), record["n"])
	}
}

func TestClient_FindMany_AbortsOnErrorStatus(t *testing.T) {
	t.Parallel()

	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++

		writer.Header().Set("Content-Type", "application/json")

		if requests == 1 {
			_ = json.NewEncoder(writer).Encode(listPage([]map[string]any{
				mockRecord("rec_mock_000000001", map[string]any{"n": float64(1)}),
			}, "cursor-1"))

			return
		}

		writer.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(writer).Encode(map[string]any{"error": map[string]any{"type": "INVALID_FILTER"}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	records, err := client.FindMany(context.Background(), &airtable.FindManyOptions{Table: "Contacts"})
	require.Error(t, err)

	// Earlier pages are discarded, not returned partially.
	assert.Nil(t, records)
	assert.Equal(t, 2, requests)

	apiErr, ok := airtable.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "Unprocessable Entity", apiErr.StatusText)
}

func TestClient_FindMany_RunawayCursorGuard(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		// A cursor that never ends.
		_ = json.NewEncoder(writer).Encode(listPage(nil, "cursor-loop"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FindMany(context.Background(), &airtable.FindManyOptions{Table: "Contacts"})
	assert.True(t, errors.Is(err, airtable.ErrTooManyIterations))
}

func TestClient_FindMany_IncludeAirtableID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(listPage([]map[string]any{
			mockRecord("rec_mock_000000001", map[string]any{"name": "Jane"}),
		}, ""))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	records, err := client.FindMany(context.Background(), &airtable.FindManyOptions{
		Table:             "Contacts",
		IncludeAirtableID: true,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, airtable.FieldSet{
		"_airtableId": "rec_mock_000000001",
		"name":        "Jane",
	}, records[0])
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_FindFirst(t *testing.T) {
	t.Parallel()
	t.Run("builds the formula and returns the single match", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var body airtable.ListRecordsRequest

			err := json.NewDecoder(request.Body).Decode(&body)
			require.NoError(t, err)
			assert.Equal(t, "{email}='jane@example.com'", body.FilterByFormula)
			assert.Equal(t, 1, body.MaxRecords)
			assert.Equal(t, []string{"name"}, body.Fields)

			writer.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(writer).Encode(listPage([]map[string]any{
				mockRecord("rec_mock_000000001", map[string]any{"name": "Jane"}),
			}, ""))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		record, err := client.FindFirst(context.Background(), &airtable.FindFirstOptions{
			Table:             "Contacts",
			Where:             map[string]any{"email": "jane@example.com"},
			Fields:            []string{"name"},
			IncludeAirtableID: true,
		})
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "rec_mock_000000001", record["_airtableId"])
		assert.Equal(t, "Jane", record["name"])
	})

	t.Run("numeric filter values interpolate without quotes mangling", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var body airtable.ListRecordsRequest

			err := json.NewDecoder(request.Body).Decode(&body)
			require.NoError(t, err)
			assert.Equal(t, "{age}='42'", body.FilterByFormula)

			writer.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(writer).Encode(listPage(nil, ""))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		_, err := client.FindFirst(context.Background(), &airtable.FindFirstOptions{
			Table: "Contacts",
			Where: map[string]any{"age": 42},
		})
		require.NoError(t, err)
	})

	t.Run("no match yields nil without error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(writer).Encode(listPage(nil, ""))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		record, err := client.FindFirst(context.Background(), &airtable.FindFirstOptions{
			Table: "Contacts",
			Where: map[string]any{"email": "nobody@example.com"},
		})
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("unexpected multi-match is treated as not found", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(writer).Encode(listPage([]map[string]any{
				mockRecord("rec_mock_000000001", map[string]any{"name": "Jane"}),
				mockRecord("rec_mock_000000002", map[string]any{"name": "Joan"}),
			}, ""))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		record, err := client.FindFirst(context.Background(), &airtable.FindFirstOptions{
			Table: "Contacts",
			Where: map[string]any{"name": "Ja"},
		})
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("filter must have exactly one key", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "http://localhost:0")

		for _, where := range []map[string]any{
			nil,
			{},
			{"a": 1, "b": 2},
		} {
			_, err := client.FindFirst(context.Background(), &airtable.FindFirstOptions{
				Table: "Contacts",
				Where: where,
			})
			assert.True(t, errors.Is(err, airtable.ErrFilterSingleKey), fmt.Sprintf("where: %v", where))
		}
	})
}
