// pkg/model/fieldtype.go
package model

// FieldType identifies the PHI category assigned to a column. The string value
// doubles as the identifier used for mapping-file naming and JSON configuration,
// so it must stay lowercase with underscores.
type FieldType string

const (
	FieldTypeFullName        FieldType = "full_name"
	FieldTypeFirstName       FieldType = "first_name"
	FieldTypeLastName        FieldType = "last_name"
	FieldTypeMiddleName      FieldType = "middle_name"
	FieldTypeDateOfBirth     FieldType = "date_of_birth"
	FieldTypeAppointmentDate FieldType = "appointment_date"
	FieldTypeSSN             FieldType = "ssn"
	FieldTypeMRN             FieldType = "medical_record_number"
	FieldTypeInsuranceID     FieldType = "insurance_id"
	FieldTypeMedicaidNumber  FieldType = "medicaid_number"
	FieldTypeDriversLicense  FieldType = "drivers_license"
	FieldTypeAddress         FieldType = "address"
	FieldTypePhone           FieldType = "phone_number"
	FieldTypeEmail           FieldType = "email"
	FieldTypeProviderName    FieldType = "provider_name"
	FieldTypeFacilityName    FieldType = "facility_name"

	// FieldTypeNone marks a column with no PHI classification.
	FieldTypeNone FieldType = ""
)

// String returns the identifier form of the field type.
func (ft FieldType) String() string {
	return string(ft)
}

// IsSet reports whether the field type carries a classification.
func (ft FieldType) IsSet() bool {
	return ft != FieldTypeNone
}
