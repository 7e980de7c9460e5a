// Package claims maps CMS-1500 claim rows to indexable documents.
package claims

// Document fields produced by Prepare.
const (
	FieldAggregationCandidate = "isAggregationCandidate"

	FieldLineItemCharge = "lineItemCharge"
	FieldClaimAmount    = "claimAmount"
	FieldAmountPaid     = "amountPaid"
	FieldBalanceDue     = "balanceDue"

	FieldServiceStartDate = "serviceStartDate"
	FieldServiceEndDate   = "serviceEndDate"
	FieldPatientDOB       = "patientDOB"

	FieldPatientName    = "patientName"
	FieldPatientAddress = "patientAddress"
	FieldPatientSex     = "patientSex"
	FieldPatientState   = "patientState"
	FieldPatientCity    = "patientCity"

	FieldProviderName     = "providerName"
	FieldProviderNPI      = "providerNPI"
	FieldInsuranceCompany = "insuranceCompany"
	FieldInsurancePlan    = "insurancePlan"
	FieldInsuredID        = "insuredID"

	FieldDiagnosisCodes  = "diagnosisCodes"
	FieldProcedureCode   = "procedureCode"
	FieldPlaceOfService  = "placeOfService"
	FieldPermittedGroups = "permittedGroups"
)

// UnixSuffix names the numeric companion of a date field, e.g. serviceStartDateUnix.
const UnixSuffix = "Unix"

// Source columns of the CMS-1500 export.
const (
	colCharges     = "Charges"
	colTotalCharge = "Total_Charge"
	colAmountPaid  = "Amount_Paid"
	colBalanceDue  = "Balance_Due"

	colServiceFrom = "Date_of_Service_From"
	colServiceTo   = "Date_of_Service_To"
	colPatientDOB  = "Patient_Date_of_Birth"

	colFirstName     = "Patient_First_Name"
	colMiddleInitial = "Patient_Middle_Initial"
	colLastName      = "Patient_Last_Name"
	colAddress       = "Patient_Address_1"
	colCity          = "Patient_City"
	colState         = "Patient_State"
	colZIP           = "Patient_ZIP_Code"
	colSex           = "Patient_Sex"

	colProviderName     = "Billing_Provider_Name"
	colProviderNPI      = "Billing_Provider_NPI"
	colInsuranceCompany = "Insurance_Company_Name"
	colInsurancePlan    = "Insurance_Plan_or_Program_Name"
	colInsuredID        = "Insureds_ID_Number"

	colDiagnosisPrefix  = "Diagnosis_Code_"
	colProcedureCode    = "Procedure_Code"
	colPlaceOfService   = "Place_of_Service"
	colPermittedGroups  = "Permitted_Groups"
	maxDiagnosisColumns = 6
)

// Schema groups the prepared fields by how the index treats them.
var (
	TagFields = []string{
		FieldPatientState, FieldPatientCity, FieldPatientSex,
		FieldProviderNPI, FieldInsuranceCompany, FieldInsurancePlan, FieldInsuredID,
		FieldProcedureCode, FieldPlaceOfService, FieldAggregationCandidate,
	}

	// ListFields hold several values joined by ", " once flattened.
	ListFields = []string{FieldDiagnosisCodes, FieldPermittedGroups}

	TextFields = []string{FieldPatientName, FieldProviderName, FieldPatientAddress}

	AmountFields = []string{FieldLineItemCharge, FieldClaimAmount, FieldAmountPaid, FieldBalanceDue}

	DateFields = []string{FieldServiceStartDate, FieldServiceEndDate, FieldPatientDOB}
)
