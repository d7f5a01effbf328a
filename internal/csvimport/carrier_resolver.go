package csvimport

import "strings"

// minCarrierConfidence is the similarity floor for fuzzy carrier
// matches; below it a raw value maps to CarrierOther.
const minCarrierConfidence = 0.75

// ExtractUniqueValues returns the distinct, trimmed, non-empty values
// found in the named column across all data rows, in first-seen order.
// Fails with a LookupError when columnName matches no header.
func ExtractUniqueValues(table *RawTable, columnName string) ([]string, error) {
	headers, err := ExtractHeaders(table)
	if err != nil {
		return nil, err
	}

	idx := headerIndex(headers, columnName)
	if idx < 0 {
		return nil, &LookupError{Column: columnName}
	}

	seen := make(map[string]bool)
	var values []string
	for _, row := range table.DataRows() {
		v := cellAt(row, idx)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values, nil
}

// carrierScore is one ranked match candidate for a raw carrier value.
type carrierScore struct {
	Name  string  // canonical carrier name
	Score float64 // 1.0 exact canonical, 0.97 exact alias, lower fuzzy
}

// rankCarriers rates a raw value against the catalog, best first.
// Priority: exact case-insensitive canonical match, exact alias match,
// then normalized containment / edit-distance similarity.
func rankCarriers(raw string, carriers []SupportedCarrier) []carrierScore {
	rawNorm := normalizeLabel(raw)
	var ranked []carrierScore

	for _, c := range carriers {
		score := 0.0

		if strings.EqualFold(strings.TrimSpace(raw), strings.TrimSpace(c.Name)) {
			score = 1.0
		} else {
			for _, alias := range c.Aliases {
				if strings.EqualFold(strings.TrimSpace(raw), strings.TrimSpace(alias)) {
					score = 0.97
					break
				}
			}
		}

		if score == 0 && rawNorm != "" {
			for _, label := range append([]string{c.Name}, c.Aliases...) {
				n := normalizeLabel(label)
				if n == "" {
					continue
				}
				if n == rawNorm {
					score = maxf(score, 0.95)
					continue
				}
				// Containment either way, guarded against tiny fragments.
				if len(rawNorm) >= 4 && len(n) >= 4 &&
					(strings.Contains(n, rawNorm) || strings.Contains(rawNorm, n)) {
					score = maxf(score, 0.85)
				}
				if sim := similarity(rawNorm, n); sim > score {
					score = sim
				}
			}
		}

		if score > 0 {
			ranked = append(ranked, carrierScore{Name: c.Name, Score: score})
		}
	}

	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Score > ranked[j-1].Score; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

// SuggestCarrierMappings proposes a canonical carrier for every raw
// value observed in the file. Values with no candidate above the
// confidence floor map to CarrierOther — not an error, those rows stay
// importable and are merely flagged for human review. The whole mapping
// is overridable per raw value before the normalizer runs.
func SuggestCarrierMappings(rawValues []string, carriers []SupportedCarrier) CarrierMapping {
	m := CarrierMapping{
		RawValues: append([]string(nil), rawValues...),
		Resolved:  make(map[string]string, len(rawValues)),
	}

	for _, raw := range rawValues {
		ranked := rankCarriers(raw, carriers)
		if len(ranked) > 0 && ranked[0].Score >= minCarrierConfidence {
			m.Resolved[raw] = ranked[0].Name
		} else {
			m.Resolved[raw] = CarrierOther
		}
	}
	return m
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
