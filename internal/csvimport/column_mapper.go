package csvimport

// TargetField identifies one slot of a ColumnMapping.
type TargetField string

const (
	FieldFirstName      TargetField = "first_name"
	FieldLastName       TargetField = "last_name"
	FieldEmail          TargetField = "email"
	FieldPhone          TargetField = "phone"
	FieldCurrentCarrier TargetField = "current_carrier"
	FieldEffectiveDate  TargetField = "effective_date"
	FieldBirthDate      TargetField = "birth_date"
	FieldTobaccoUser    TargetField = "tobacco_user"
	FieldGender         TargetField = "gender"
	FieldZipCode        TargetField = "zip_code"
	FieldPlanType       TargetField = "plan_type"
)

// targetFields lists every slot. Order only matters as the final
// tie-break when two fields claim the same header with equal scores.
var targetFields = []TargetField{
	FieldEmail,
	FieldFirstName,
	FieldLastName,
	FieldPhone,
	FieldCurrentCarrier,
	FieldEffectiveDate,
	FieldBirthDate,
	FieldTobaccoUser,
	FieldGender,
	FieldZipCode,
	FieldPlanType,
}

// fieldSynonyms maps each target field to header variants seen in real
// agency spreadsheet exports. Compared after normalizeLabel, so
// spacing/punctuation/case variants all hit.
var fieldSynonyms = map[TargetField][]string{
	FieldFirstName:      {"firstname", "fname", "first", "given name"},
	FieldLastName:       {"lastname", "lname", "last", "surname", "family name"},
	FieldEmail:          {"e-mail", "email address", "emailaddress", "mail"},
	FieldPhone:          {"phone number", "phonenumber", "mobile", "cell", "telephone", "tel"},
	FieldCurrentCarrier: {"carrier", "insurance company", "insurer", "current insurance", "company", "provider"},
	FieldEffectiveDate:  {"effective", "start date", "policy date", "coverage start"},
	FieldBirthDate:      {"dob", "date of birth", "birthdate", "birthday"},
	FieldTobaccoUser:    {"tobacco", "smoker", "smoking", "nicotine", "tobacco use"},
	FieldGender:         {"sex"},
	FieldZipCode:        {"zip", "zipcode", "postal code", "postcode"},
	FieldPlanType:       {"plan", "policy type", "product", "coverage type"},
}

// minColumnConfidence is the floor below which a slot stays unmapped
// rather than guessing.
const minColumnConfidence = 0.5

// headerScore is one ranked mapping candidate for a target field.
type headerScore struct {
	Index  int
	Header string
	Score  float64
	Exact  bool // exact case-insensitive match on the field's own name
}

// scoreHeader rates one header against one target field. Exact matches
// on the field's own name score 1.0; exact synonym matches score just
// below so they lose ties to exact matches; everything else is partial.
func scoreHeader(field TargetField, header string) (float64, bool) {
	norm := normalizeLabel(header)
	if norm == "" {
		return 0, false
	}

	canonical := normalizeLabel(string(field))
	if norm == canonical {
		return 1.0, true
	}

	best := 0.0
	candidates := append([]string{canonical}, fieldSynonyms[field]...)
	for _, c := range candidates {
		nc := normalizeLabel(c)
		if nc == "" {
			continue
		}
		if norm == nc {
			if 0.97 > best {
				best = 0.97
			}
			continue
		}

		if s := tokenOverlap(norm, nc) * 0.9; s > best {
			best = s
		}
		// "Applicant Email" still counts as an email column.
		if coversAllTokens(nc, norm) && best < 0.75 {
			best = 0.75
		}
		// Levenshtein catches misspellings ("Emial", "Carreir").
		if sim := similarity(norm, nc); sim >= 0.6 {
			if s := sim * 0.9; s > best {
				best = s
			}
		}
	}
	return best, false
}

// rankHeaders returns this field's candidates sorted best-first:
// higher score, then exact before partial, then earliest column.
func rankHeaders(field TargetField, headers []string) []headerScore {
	var ranked []headerScore
	for i, h := range headers {
		score, exact := scoreHeader(field, h)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, headerScore{Index: i, Header: h, Score: score, Exact: exact})
	}

	// Insertion sort keeps the earliest-column tie-break stable.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && betterCandidate(ranked[j], ranked[j-1]); j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

func betterCandidate(a, b headerScore) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Exact != b.Exact {
		return a.Exact
	}
	return a.Index < b.Index
}

// SuggestColumnMappings proposes a best-guess ColumnMapping for the
// given headers. Assignment is greedy, highest-confidence field first:
// once a header is claimed it leaves the candidate pool, so no header
// serves two fields. Slots with no candidate above the confidence
// floor stay unmapped. Advisory only — the caller may override any slot.
func SuggestColumnMappings(headers []string) ColumnMapping {
	ranks := make(map[TargetField][]headerScore, len(targetFields))
	for _, f := range targetFields {
		ranks[f] = rankHeaders(f, headers)
	}

	claimed := make(map[int]bool)
	assigned := make(map[TargetField]string)

	for len(assigned) < len(targetFields) {
		var bestField TargetField
		var best headerScore
		found := false

		for _, f := range targetFields {
			if _, done := assigned[f]; done {
				continue
			}
			for _, hs := range ranks[f] {
				if claimed[hs.Index] {
					continue
				}
				if !found || betterCandidate(hs, best) {
					found = true
					best = hs
					bestField = f
				}
				break // ranks are sorted; first unclaimed is this field's best
			}
		}

		if !found || best.Score < minColumnConfidence {
			break
		}
		claimed[best.Index] = true
		assigned[bestField] = best.Header
	}

	var m ColumnMapping
	for f, h := range assigned {
		m.set(f, h)
	}
	return m
}

func (m *ColumnMapping) set(field TargetField, header string) {
	switch field {
	case FieldFirstName:
		m.FirstName = header
	case FieldLastName:
		m.LastName = header
	case FieldEmail:
		m.Email = header
	case FieldPhone:
		m.Phone = header
	case FieldCurrentCarrier:
		m.CurrentCarrier = header
	case FieldEffectiveDate:
		m.EffectiveDate = header
	case FieldBirthDate:
		m.BirthDate = header
	case FieldTobaccoUser:
		m.TobaccoUser = header
	case FieldGender:
		m.Gender = header
	case FieldZipCode:
		m.ZipCode = header
	case FieldPlanType:
		m.PlanType = header
	}
}

// slot returns the header bound to a target field, "" when unmapped.
func (m ColumnMapping) slot(field TargetField) string {
	switch field {
	case FieldFirstName:
		return m.FirstName
	case FieldLastName:
		return m.LastName
	case FieldEmail:
		return m.Email
	case FieldPhone:
		return m.Phone
	case FieldCurrentCarrier:
		return m.CurrentCarrier
	case FieldEffectiveDate:
		return m.EffectiveDate
	case FieldBirthDate:
		return m.BirthDate
	case FieldTobaccoUser:
		return m.TobaccoUser
	case FieldGender:
		return m.Gender
	case FieldZipCode:
		return m.ZipCode
	case FieldPlanType:
		return m.PlanType
	}
	return ""
}
