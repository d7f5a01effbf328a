package csvimport

import (
	"strings"
	"time"
)

// ProcessCSVToContacts runs the full per-row pipeline: resolve each
// target field through the confirmed column mapping, validate, coerce
// types, resolve the carrier through the confirmed carrier mapping, and
// partition rows into importable contacts and diagnosable rejects.
//
// Email is the only row-fatal field — it is the de-duplication key
// downstream, so a missing or malformed email rejects the row
// wholesale. Every other field degrades to an empty/default value.
// One bad row never aborts the batch; whole-file errors (ErrEmptyFile,
// ErrNoHeaders, *ParseError, *LookupError) short-circuit with no
// partial result.
func ProcessCSVToContacts(text string, cols ColumnMapping, carriers CarrierMapping) (*PipelineResult, error) {
	table, err := Parse(text)
	if err != nil {
		return nil, err
	}

	headers, err := ExtractHeaders(table)
	if err != nil {
		return nil, err
	}

	idx, err := resolveIndexes(headers, cols)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		Valid:   []ProcessedContact{},
		Invalid: []RejectedRow{},
	}

	for _, row := range table.DataRows() {
		result.TotalRows++

		contact, converted, reject := normalizeRow(row, idx, carriers)
		if reject != nil {
			result.Invalid = append(result.Invalid, *reject)
			continue
		}
		result.Valid = append(result.Valid, *contact)
		if converted {
			result.ConvertedCarrierRows++
		}
	}

	result.ValidRows = len(result.Valid)
	result.ErrorRows = len(result.Invalid)
	return result, nil
}

// fieldIndexes holds the resolved column position per target field,
// -1 for unmapped slots.
type fieldIndexes map[TargetField]int

// resolveIndexes turns header names from the mapping into column
// positions. A non-empty slot naming a header that does not exist is a
// configuration error (a bad override slipped past the UI) and fails
// safely with a LookupError.
func resolveIndexes(headers []string, cols ColumnMapping) (fieldIndexes, error) {
	idx := make(fieldIndexes, len(targetFields))
	for _, f := range targetFields {
		name := strings.TrimSpace(cols.slot(f))
		if name == "" {
			idx[f] = -1
			continue
		}
		i := headerIndex(headers, name)
		if i < 0 {
			return nil, &LookupError{Column: name}
		}
		idx[f] = i
	}
	return idx, nil
}

// normalizeRow processes one data row. Terminal outcomes only: either a
// ProcessedContact (plus whether its carrier was converted) or a
// RejectedRow, never both.
func normalizeRow(row []string, idx fieldIndexes, carriers CarrierMapping) (*ProcessedContact, bool, *RejectedRow) {
	email := cellAt(row, idx[FieldEmail])
	if email == "" {
		return nil, false, &RejectedRow{Email: "", Reason: "missing email"}
	}
	if !validEmail(email) {
		return nil, false, &RejectedRow{Email: email, Reason: "invalid email"}
	}

	contact := &ProcessedContact{
		Email:         email,
		FirstName:     cellAt(row, idx[FieldFirstName]),
		LastName:      cellAt(row, idx[FieldLastName]),
		PhoneNumber:   normalizePhone(cellAt(row, idx[FieldPhone])),
		EffectiveDate: normalizeDate(cellAt(row, idx[FieldEffectiveDate])),
		BirthDate:     normalizeDate(cellAt(row, idx[FieldBirthDate])),
		TobaccoUser:   parseBool(cellAt(row, idx[FieldTobaccoUser])),
		Gender:        normalizeGender(cellAt(row, idx[FieldGender])),
		ZipCode:       normalizeZip(cellAt(row, idx[FieldZipCode])),
		PlanType:      cellAt(row, idx[FieldPlanType]),
	}

	converted := false
	if raw := cellAt(row, idx[FieldCurrentCarrier]); raw != "" {
		contact.CurrentCarrier = carriers.Lookup(raw)
		converted = contact.CurrentCarrier != raw
	}

	return contact, converted, nil
}

// validEmail applies the import gate: an "@" that is not the first or
// last character, and a "." somewhere after it that is not the last
// character. Intentionally loose — full RFC validation is the server's
// job; this only guards the identity key.
func validEmail(email string) bool {
	if strings.HasPrefix(email, "@") || strings.HasPrefix(email, ".") {
		return false
	}
	if strings.HasSuffix(email, "@") || strings.HasSuffix(email, ".") {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// normalizePhone keeps digits only, capped at the first 10. Best-effort:
// short or empty phones are allowed through.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}

// parseBool maps textual truthy forms to true; everything else,
// including empty, is false.
func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

// normalizeGender folds the common spellings into single-letter codes.
// Unrecognized values pass through trimmed; format enforcement is
// server-side.
func normalizeGender(raw string) string {
	switch strings.ToLower(raw) {
	case "m", "male":
		return "M"
	case "f", "female":
		return "F"
	default:
		return raw
	}
}

// normalizeZip strips the ".0" suffix spreadsheets add to zip codes
// parsed as floats (e.g. "38824.0"), otherwise passes through trimmed.
func normalizeZip(raw string) string {
	if i := strings.Index(raw, "."); i > 0 {
		return raw[:i]
	}
	return raw
}

// dateLayouts are the input formats agency exports actually use.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// normalizeDate rewrites recognizable dates as ISO (YYYY-MM-DD).
// Unparseable values pass through trimmed rather than rejecting the
// row — date format correctness is enforced server-side.
func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
