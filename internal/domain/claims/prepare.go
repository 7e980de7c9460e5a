package claims

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// aggregationCandidate is stored as a tag value so "@isAggregationCandidate:{true}" matches.
const aggregationCandidate = "true"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"01-02-2006",
}

// Prepare converts source rows into claim documents. The id is the row position.
// Values that fail to parse are left out rather than failing the row.
func Prepare(records []domain.Record) []domain.Document {
	docs := make([]domain.Document, 0, len(records))
	for i, rec := range records {
		docs = append(docs, prepareOne(strconv.Itoa(i), rec))
	}
	return docs
}

func prepareOne(id string, rec domain.Record) domain.Document {
	doc := domain.Document{
		domain.FieldID:            id,
		domain.FieldContent:       Content(rec),
		FieldAggregationCandidate: aggregationCandidate,
	}

	setAmount(doc, rec, colCharges, FieldLineItemCharge)
	setAmount(doc, rec, colTotalCharge, FieldClaimAmount)
	setAmount(doc, rec, colAmountPaid, FieldAmountPaid)
	setAmount(doc, rec, colBalanceDue, FieldBalanceDue)

	setDate(doc, rec, colServiceFrom, FieldServiceStartDate)
	setDate(doc, rec, colServiceTo, FieldServiceEndDate)
	setDate(doc, rec, colPatientDOB, FieldPatientDOB)

	setString(doc, rec, colState, FieldPatientState)
	setString(doc, rec, colCity, FieldPatientCity)
	setString(doc, rec, colSex, FieldPatientSex)
	setString(doc, rec, colProviderName, FieldProviderName)
	setString(doc, rec, colProviderNPI, FieldProviderNPI)
	setString(doc, rec, colInsuranceCompany, FieldInsuranceCompany)
	setString(doc, rec, colInsurancePlan, FieldInsurancePlan)
	setString(doc, rec, colInsuredID, FieldInsuredID)
	setString(doc, rec, colProcedureCode, FieldProcedureCode)
	setString(doc, rec, colPlaceOfService, FieldPlaceOfService)

	if name := joinPresent(rec, " ", colFirstName, colMiddleInitial, colLastName); name != "" {
		doc[FieldPatientName] = name
	}
	if addr := joinPresent(rec, ", ", colAddress, colCity, colState, colZIP); addr != "" {
		doc[FieldPatientAddress] = addr
	}

	var codes []string
	for n := 1; n <= maxDiagnosisColumns; n++ {
		if v, ok := rec.Get(colDiagnosisPrefix + strconv.Itoa(n)); ok {
			codes = append(codes, v)
		}
	}
	if len(codes) > 0 {
		doc[FieldDiagnosisCodes] = codes
	}

	if v, ok := rec.Get(colPermittedGroups); ok {
		if groups := ParseMultiValue(v); len(groups) > 0 {
			doc[FieldPermittedGroups] = groups
		}
	}
	return doc
}

// Content renders every non-empty column as a "column: value" line, in source order.
func Content(rec domain.Record) string {
	lines := make([]string, 0, len(rec.Columns()))
	for _, col := range rec.Columns() {
		if v, ok := rec.Get(col); ok {
			lines = append(lines, col+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// ParseAmount strips currency formatting ("$1,250.00") and parses the number.
func ParseAmount(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseDate accepts the date shapes found in claim exports. Zone-less values are taken as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseMultiValue splits a multi-valued cell on "|" or ",", dropping blanks.
func ParseMultiValue(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setAmount(doc domain.Document, rec domain.Record, col, field string) {
	v, ok := rec.Get(col)
	if !ok {
		return
	}
	if f, ok := ParseAmount(v); ok {
		doc[field] = f
	}
}

func setDate(doc domain.Document, rec domain.Record, col, field string) {
	v, ok := rec.Get(col)
	if !ok {
		return
	}
	if t, ok := ParseDate(v); ok {
		doc[field] = t.Format(time.RFC3339)
		doc[field+UnixSuffix] = t.Unix()
	}
}

func setString(doc domain.Document, rec domain.Record, col, field string) {
	if v, ok := rec.Get(col); ok {
		doc[field] = v
	}
}

func joinPresent(rec domain.Record, sep string, cols ...string) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		if v, ok := rec.Get(c); ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
