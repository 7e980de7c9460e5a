package claims

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

var header = []string{
	"Patient_First_Name", "Patient_Middle_Initial", "Patient_Last_Name",
	"Patient_Address_1", "Patient_City", "Patient_State", "Patient_ZIP_Code",
	"Patient_Sex", "Patient_Date_of_Birth",
	"Date_of_Service_From", "Date_of_Service_To",
	"Charges", "Total_Charge", "Amount_Paid", "Balance_Due",
	"Billing_Provider_Name", "Billing_Provider_NPI",
	"Insurance_Company_Name", "Insurance_Plan_or_Program_Name", "Insureds_ID_Number",
	"Diagnosis_Code_1", "Diagnosis_Code_2", "Diagnosis_Code_3",
	"Procedure_Code", "Place_of_Service", "Permitted_Groups",
}

func fullRow() domain.Record {
	return domain.NewRecord(header, []string{
		"Jane", "Q", "Doe",
		"12 Main St", "Austin", "TX", "73301",
		"F", "1980-04-12",
		"03/15/2024", "2024-03-16",
		"$1,250.00", "1500", "$900.50", "bad",
		"Acme Clinic", "1234567890",
		"Blue Shield", "PPO Gold", "INS-42",
		"E11.9", "", "I10",
		"99213", "11", "g-1 | g-2",
	})
}

func TestPrepare_FullRow(t *testing.T) {
	docs := Prepare([]domain.Record{fullRow()})
	require.Len(t, docs, 1)
	doc := docs[0]

	assert.Equal(t, "0", doc.ID())
	assert.Equal(t, "true", doc[FieldAggregationCandidate])

	assert.InDelta(t, 1250.0, doc[FieldLineItemCharge], 1e-9)
	assert.InDelta(t, 1500.0, doc[FieldClaimAmount], 1e-9)
	assert.InDelta(t, 900.5, doc[FieldAmountPaid], 1e-9)
	assert.NotContains(t, doc, FieldBalanceDue, "unparsable amount is omitted")

	assert.Equal(t, "2024-03-15T00:00:00Z", doc[FieldServiceStartDate])
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).Unix(), doc[FieldServiceStartDate+UnixSuffix])
	assert.Equal(t, "2024-03-16T00:00:00Z", doc[FieldServiceEndDate])
	assert.Equal(t, "1980-04-12T00:00:00Z", doc[FieldPatientDOB])

	assert.Equal(t, "Jane Q Doe", doc[FieldPatientName])
	assert.Equal(t, "12 Main St, Austin, TX, 73301", doc[FieldPatientAddress])
	assert.Equal(t, "TX", doc[FieldPatientState])
	assert.Equal(t, "Austin", doc[FieldPatientCity])
	assert.Equal(t, "F", doc[FieldPatientSex])
	assert.Equal(t, "Acme Clinic", doc[FieldProviderName])
	assert.Equal(t, "1234567890", doc[FieldProviderNPI])
	assert.Equal(t, "Blue Shield", doc[FieldInsuranceCompany])
	assert.Equal(t, "PPO Gold", doc[FieldInsurancePlan])
	assert.Equal(t, "INS-42", doc[FieldInsuredID])
	assert.Equal(t, "99213", doc[FieldProcedureCode])
	assert.Equal(t, "11", doc[FieldPlaceOfService])
	assert.Equal(t, []string{"E11.9", "I10"}, doc[FieldDiagnosisCodes])
	assert.Equal(t, []string{"g-1", "g-2"}, doc[FieldPermittedGroups])

	assert.Contains(t, doc.Content(), "Patient_First_Name: Jane\n")
	assert.NotContains(t, doc.Content(), "Diagnosis_Code_2")
}

func TestPrepare_SparseRows(t *testing.T) {
	docs := Prepare([]domain.Record{
		domain.NewRecord([]string{"Patient_Last_Name", "Total_Charge"}, []string{"Roe", ""}),
		domain.NewRecord([]string{"Patient_Last_Name"}, nil),
	})
	require.Len(t, docs, 2)

	assert.Equal(t, "0", docs[0].ID())
	assert.Equal(t, "Roe", docs[0][FieldPatientName])
	assert.NotContains(t, docs[0], FieldClaimAmount)
	assert.NotContains(t, docs[0], FieldDiagnosisCodes)
	assert.Equal(t, "Patient_Last_Name: Roe", docs[0].Content())

	assert.Equal(t, "1", docs[1].ID())
	assert.NotContains(t, docs[1], FieldPatientName)
	assert.Empty(t, docs[1].Content())
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]float64{"$1,000.25": 1000.25, " 42 ": 42, "-3.5": -3.5} {
		got, ok := ParseAmount(in)
		require.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-9)
	}
	for _, in := range []string{"", "$", "n/a"} {
		_, ok := ParseAmount(in)
		assert.False(t, ok, in)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2023-01-02", "01/02/2023", "1/2/2023", "2023-01-02 00:00:00", "2023-01-02T00:00:00Z"} {
		got, ok := ParseDate(in)
		require.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
	}

	got, ok := ParseDate("2023-01-02T05:00:00+05:00")
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, want.Equal(got))

	_, ok = ParseDate("yesterday")
	assert.False(t, ok)
}

func TestParseMultiValue(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseMultiValue("a| b ,c"))
	assert.Empty(t, ParseMultiValue(" | , "))
}
