package csvimport

// RawTable is a parsed spreadsheet: ordered rows of string cells.
// The first record is the header row; data rows may have a different
// cell count than the header (handled during normalization).
type RawTable struct {
	Records [][]string
}

// DataRows returns every row after the header row.
func (t *RawTable) DataRows() [][]string {
	if len(t.Records) <= 1 {
		return nil
	}
	return t.Records[1:]
}

// ColumnMapping binds each target contact field to a source header.
// A slot holds the exact header text from the uploaded file, or "" when
// the field is unmapped. The mapping is advisory until the caller
// confirms it; the UI may override any slot.
type ColumnMapping struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CurrentCarrier string `json:"current_carrier"`
	EffectiveDate  string `json:"effective_date"`
	BirthDate      string `json:"birth_date"`
	TobaccoUser    string `json:"tobacco_user"`
	Gender         string `json:"gender"`
	ZipCode        string `json:"zip_code"`
	PlanType       string `json:"plan_type"`
}

// SupportedCarrier is one entry of the backend-provided carrier catalog:
// the canonical insurer name plus free-text variants humans type for it.
type SupportedCarrier struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// CarrierOther is the sentinel for carrier values that do not resolve to
// any supported carrier. Rows with it are still importable.
const CarrierOther = "Other/Unsupported"

// CarrierMapping maps each distinct raw carrier string observed in the
// file to a canonical carrier name or CarrierOther. RawValues preserves
// first-seen order for stable UI display.
type CarrierMapping struct {
	RawValues []string          `json:"raw_values"`
	Resolved  map[string]string `json:"resolved"`
}

// Lookup resolves a raw carrier value. Absent keys default to
// CarrierOther per the mapping invariant.
func (m CarrierMapping) Lookup(raw string) string {
	if v, ok := m.Resolved[raw]; ok && v != "" {
		return v
	}
	return CarrierOther
}

// ProcessedContact is the normalized output of one valid row. Every
// field is already validated; consumers serialize it straight into the
// bulk-import request body.
type ProcessedContact struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"` // digits only, at most 10
	CurrentCarrier string `json:"current_carrier"`
	EffectiveDate  string `json:"effective_date"`
	BirthDate      string `json:"birth_date"`
	TobaccoUser    bool   `json:"tobacco_user"`
	Gender         string `json:"gender"`
	ZipCode        string `json:"zip_code"`
	PlanType       string `json:"plan_type"`
}

// RejectedRow records why one row was not importable. Only the email
// cell is retained; the caller can cross-reference the raw file.
type RejectedRow struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// PipelineResult partitions the data rows of one upload into importable
// contacts and diagnosable rejects, with summary counts for the UI.
type PipelineResult struct {
	Valid   []ProcessedContact `json:"valid"`
	Invalid []RejectedRow      `json:"invalid"`

	TotalRows int `json:"total_rows"`
	ValidRows int `json:"valid_rows"`
	ErrorRows int `json:"error_rows"`
	// ConvertedCarrierRows counts valid rows whose raw carrier cell was
	// rewritten by alias/fuzzy resolution (including the CarrierOther
	// fallback) rather than passing through unchanged.
	ConvertedCarrierRows int `json:"converted_carrier_rows"`
}
