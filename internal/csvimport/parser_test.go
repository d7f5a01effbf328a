package csvimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuotedFields(t *testing.T) {
	text := "Email,Notes\n\"a@b.com\",\"likes \"\"quotes\"\", commas, and\nnewlines\"\n"

	table, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, []string{"Email", "Notes"}, table.Records[0])
	assert.Equal(t, []string{"a@b.com", "likes \"quotes\", commas, and\nnewlines"}, table.Records[1])
}

func TestParseStripsBOM(t *testing.T) {
	table, err := Parse("\uFEFFEmail\na@b.com\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Email"}, table.Records[0])
}

func TestParseUnterminatedQuote(t *testing.T) {
	_, err := Parse("Email,Name\n\"a@b.com,Jane\n")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.NotEmpty(t, perr.Detail)
}

func TestParseRaggedRowsNotFatal(t *testing.T) {
	// Row-length mismatches are deferred to the normalizer.
	table, err := Parse("Email,First Name\na@b.com\nb@c.com,Jane,extra\n")
	require.NoError(t, err)
	require.Len(t, table.Records, 3)
	assert.Len(t, table.Records[1], 1)
	assert.Len(t, table.Records[2], 3)
}

func TestExtractHeadersFidelity(t *testing.T) {
	table, err := Parse("Email,First Name\na@b.com,Jane\n")
	require.NoError(t, err)

	headers, err := ExtractHeaders(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"Email", "First Name"}, headers)
}

func TestExtractHeadersTrimsAndKeepsDuplicates(t *testing.T) {
	table, err := Parse(" Email , Email ,Phone\n")
	require.NoError(t, err)

	headers, err := ExtractHeaders(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"Email", "Email", "Phone"}, headers)
}

func TestExtractHeadersEmptyFile(t *testing.T) {
	table, err := Parse("")
	require.NoError(t, err)

	_, err = ExtractHeaders(table)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestExtractHeadersBlankHeaderRow(t *testing.T) {
	table, err := Parse(" , , \na@b.com,Jane,Doe\n")
	require.NoError(t, err)

	_, err = ExtractHeaders(table)
	assert.ErrorIs(t, err, ErrNoHeaders)
}

func TestHeaderIndexFirstOccurrenceWins(t *testing.T) {
	headers := []string{"Email", "Phone", "Email"}
	assert.Equal(t, 0, headerIndex(headers, "Email"))
	assert.Equal(t, 1, headerIndex(headers, "Phone"))
	assert.Equal(t, -1, headerIndex(headers, "Carrier"))
}
