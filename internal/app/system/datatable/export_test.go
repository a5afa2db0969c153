package datatable

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	cols := []Column[person]{
		{Key: "id", Label: "ID", Value: func(p person) any { return p.ID }},
		{Key: "name", Label: "Name", Value: func(p person) any { return p.Name }},
	}
	rows := []person{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Beto"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cols, rows, false))
	assert.Equal(t, "ID,Name\n1,Ana\n2,Beto\n", buf.String())
}

func TestWriteCSV_QuotingAndFormulas(t *testing.T) {
	at := time.Date(2026, 3, 4, 13, 30, 0, 0, time.UTC)
	cols := []Column[person]{
		{Key: "name", Label: "Name", Value: func(p person) any { return p.Name }},
		{Key: "n", Label: "N", Value: func(p person) any { return -5 }},
		{Key: "at", Label: "At", Value: func(p person) any { return at }},
		{Key: "none", Label: "None"},
	}
	rows := []person{{Name: "=SUM(A1)"}, {Name: "Silva, Ana"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cols, rows, true))
	assert.Equal(t,
		"Name,N,At,None\r\n'=SUM(A1),-5,2026-03-04T13:30:00Z,\r\n\"Silva, Ana\",-5,2026-03-04T13:30:00Z,\r\n",
		buf.String())
}

func TestWriteCSV_TimePointerInUTC(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2026, 3, 4, 10, 30, 0, 0, saoPaulo)
	cols := []Column[person]{
		{Key: "id", Label: "ID", Value: func(p person) any { return p.ID }},
		{Key: "reviewed", Label: "Reviewed", Value: func(p person) any {
			if p.ID == "1" {
				return &at
			}
			return (*time.Time)(nil)
		}},
	}
	rows := []person{{ID: "1"}, {ID: "2"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cols, rows, false))
	assert.Equal(t, "ID,Reviewed\n1,2026-03-04T13:30:00Z\n2,\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []person{{ID: "1", Name: "Ana"}}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0]["name"])
	assert.Contains(t, buf.String(), "\n  {")

	buf.Reset()
	require.NoError(t, WriteJSON[person](&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTableExport_UsesAllFilteredRows(t *testing.T) {
	tbl := newPeopleTable(people(25))
	tbl.SetSearch("person 2")
	tbl.ToggleSort("name")
	tbl.ToggleSort("name")

	var buf bytes.Buffer
	require.NoError(t, tbl.ExportCSV(&buf, false))
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	// header + Person 20..25
	require.Len(t, lines, 7)
	assert.True(t, bytes.HasPrefix(lines[1], []byte("25,Person 25")))

	buf.Reset()
	require.NoError(t, tbl.ExportJSON(&buf))
	var got []person
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 6)
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		title, ext, want string
	}{
		{"Provider Requests", "csv", "provider-requests.csv"},
		{"  Minhas   Consultas ", ".json", "minhas-consultas.json"},
		{"", "csv", "export.csv"},
		{"Users", "", "users"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExportFilename(tt.title, tt.ext))
	}
}
