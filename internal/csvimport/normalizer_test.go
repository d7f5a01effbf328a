package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var happyMapping = ColumnMapping{
	FirstName:      "First Name",
	LastName:       "Last Name",
	Email:          "Email",
	CurrentCarrier: "Carrier",
}

var bcbsMapping = CarrierMapping{
	RawValues: []string{"BCBS"},
	Resolved:  map[string]string{"BCBS": "Blue Cross Blue Shield"},
}

func TestProcessCSVToContactsHappyPath(t *testing.T) {
	text := "Email,First Name,Last Name,Carrier\na@b.com,Jane,Doe,BCBS\n"

	result, err := ProcessCSVToContacts(text, happyMapping, bcbsMapping)
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	assert.Empty(t, result.Invalid)

	c := result.Valid[0]
	assert.Equal(t, "a@b.com", c.Email)
	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "Doe", c.LastName)
	assert.Equal(t, "Blue Cross Blue Shield", c.CurrentCarrier)

	assert.Equal(t, 1, result.TotalRows)
	assert.Equal(t, 1, result.ValidRows)
	assert.Equal(t, 0, result.ErrorRows)
	assert.Equal(t, 1, result.ConvertedCarrierRows)
}

func TestProcessCSVToContactsBadEmail(t *testing.T) {
	text := "Email,First Name,Last Name,Carrier\nnot-an-email,Jane,Doe,BCBS\n"

	result, err := ProcessCSVToContacts(text, happyMapping, bcbsMapping)
	require.NoError(t, err)

	assert.Empty(t, result.Valid)
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, RejectedRow{Email: "not-an-email", Reason: "invalid email"}, result.Invalid[0])
}

func TestProcessCSVToContactsMissingEmail(t *testing.T) {
	text := "Email,First Name,Last Name,Carrier\n,Jane,Doe,BCBS\n"

	result, err := ProcessCSVToContacts(text, happyMapping, bcbsMapping)
	require.NoError(t, err)

	require.Len(t, result.Invalid, 1)
	assert.Equal(t, RejectedRow{Email: "", Reason: "missing email"}, result.Invalid[0])
}

func TestProcessCSVToContactsEmptyFile(t *testing.T) {
	_, err := ProcessCSVToContacts("", happyMapping, bcbsMapping)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestProcessCSVToContactsUnmappedFieldTolerance(t *testing.T) {
	// Every slot but email left blank still yields valid contacts.
	text := "Email,First Name\na@b.com,Jane\n"

	result, err := ProcessCSVToContacts(text, ColumnMapping{Email: "Email"}, CarrierMapping{})
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	c := result.Valid[0]
	assert.Equal(t, "a@b.com", c.Email)
	assert.Empty(t, c.FirstName)
	assert.Empty(t, c.CurrentCarrier)
	assert.False(t, c.TobaccoUser)
}

func TestProcessCSVToContactsBadMappingOverride(t *testing.T) {
	text := "Email\na@b.com\n"

	_, err := ProcessCSVToContacts(text, ColumnMapping{Email: "Electronic Mail"}, CarrierMapping{})
	require.Error(t, err)

	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "Electronic Mail", lerr.Column)
}

func TestProcessCSVToContactsPartitionTotality(t *testing.T) {
	text := "Email\na@b.com\nbad\nc@d.com\nnope\n"

	result, err := ProcessCSVToContacts(text, ColumnMapping{Email: "Email"}, CarrierMapping{})
	require.NoError(t, err)

	assert.Equal(t, result.TotalRows, len(result.Valid)+len(result.Invalid))
	assert.Equal(t, 2, result.ValidRows)
	assert.Equal(t, 2, result.ErrorRows)
}

func TestProcessCSVToContactsIdempotent(t *testing.T) {
	text := "Email,Carrier\na@b.com,BCBS\nbad,Aetna\n"
	mapping := ColumnMapping{Email: "Email", CurrentCarrier: "Carrier"}

	first, err := ProcessCSVToContacts(text, mapping, bcbsMapping)
	require.NoError(t, err)
	second, err := ProcessCSVToContacts(text, mapping, bcbsMapping)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProcessCSVToContactsShortRowPadsTrailingFields(t *testing.T) {
	text := "Email,First Name,Last Name\na@b.com,Jane\n"

	result, err := ProcessCSVToContacts(text,
		ColumnMapping{Email: "Email", FirstName: "First Name", LastName: "Last Name"},
		CarrierMapping{})
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	assert.Equal(t, "Jane", result.Valid[0].FirstName)
	assert.Empty(t, result.Valid[0].LastName)
}

func TestProcessCSVToContactsLongRowTruncated(t *testing.T) {
	text := "Email,First Name\na@b.com,Jane,stray,cells\n"

	result, err := ProcessCSVToContacts(text,
		ColumnMapping{Email: "Email", FirstName: "First Name"},
		CarrierMapping{})
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	assert.Equal(t, "Jane", result.Valid[0].FirstName)
}

func TestProcessCSVToContactsUnsupportedCarrierStillImports(t *testing.T) {
	text := "Email,Carrier\na@b.com,Xyz Insurance\n"
	mapping := CarrierMapping{
		RawValues: []string{"Xyz Insurance"},
		Resolved:  map[string]string{"Xyz Insurance": CarrierOther},
	}

	result, err := ProcessCSVToContacts(text,
		ColumnMapping{Email: "Email", CurrentCarrier: "Carrier"}, mapping)
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	assert.Equal(t, CarrierOther, result.Valid[0].CurrentCarrier)
	assert.Equal(t, 1, result.ConvertedCarrierRows)
}

func TestProcessCSVToContactsIdentityCarrierNotCounted(t *testing.T) {
	text := "Email,Carrier\na@b.com,Aetna\n"
	mapping := CarrierMapping{
		RawValues: []string{"Aetna"},
		Resolved:  map[string]string{"Aetna": "Aetna"},
	}

	result, err := ProcessCSVToContacts(text,
		ColumnMapping{Email: "Email", CurrentCarrier: "Carrier"}, mapping)
	require.NoError(t, err)

	assert.Equal(t, 0, result.ConvertedCarrierRows)
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "jane.doe@mail.example.org", "x@y.co"}
	for _, e := range valid {
		assert.True(t, validEmail(e), e)
	}

	invalid := []string{"not-an-email", "@b.com", "a@b.com.", "a@bcom", "a@b.", ".a@b.com", "a@", "a.b.com"}
	for _, e := range invalid {
		assert.False(t, validEmail(e), e)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5551234567", normalizePhone("(555) 123-4567"))
	assert.Equal(t, "1555123456", normalizePhone("+1 555 123 4567"))
	assert.Equal(t, "555", normalizePhone("555"))
	assert.Empty(t, normalizePhone("n/a"))
}

func TestNormalizePhoneCapsAtTenDigits(t *testing.T) {
	assert.Len(t, normalizePhone("123456789012345"), 10)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "yes", "Yes", "1"} {
		assert.True(t, parseBool(v), v)
	}
	for _, v := range []string{"", "no", "false", "0", "maybe"} {
		assert.False(t, parseBool(v), v)
	}
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, "M", normalizeGender("male"))
	assert.Equal(t, "M", normalizeGender("m"))
	assert.Equal(t, "F", normalizeGender("Female"))
	assert.Equal(t, "nonbinary", normalizeGender("nonbinary"))
	assert.Empty(t, normalizeGender(""))
}

func TestNormalizeZip(t *testing.T) {
	// Spreadsheets export zips parsed as floats.
	assert.Equal(t, "38824", normalizeZip("38824.0"))
	assert.Equal(t, "02134", normalizeZip("02134"))
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2025-03-01", normalizeDate("03/01/2025"))
	assert.Equal(t, "2025-03-01", normalizeDate("2025-03-01"))
	assert.Equal(t, "1960-07-04", normalizeDate("7/4/1960"))
	// Unparseable values pass through rather than rejecting the row.
	assert.Equal(t, "next tuesday", normalizeDate("next tuesday"))
	assert.Empty(t, normalizeDate(""))
}

func TestWriteRejectedCSV(t *testing.T) {
	out := WriteRejectedCSV([]RejectedRow{
		{Email: "bad", Reason: "invalid email"},
		{Email: "", Reason: "missing email"},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "email,reason", lines[0])
	assert.Equal(t, "bad,invalid email", lines[1])
	assert.Equal(t, ",missing email", lines[2])
}
