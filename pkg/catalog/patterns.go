// pkg/catalog/patterns.go
package catalog

import "github.com/careops/phi-cleanse/pkg/model"

// headerTemplate links a normalized header fragment to a field type. Weight
// encodes fragment specificity: longer, more specific fragments carry more
// weight, so "dateofbirth" outranks the generic "date".
type headerTemplate struct {
	fieldType model.FieldType
	fragment  string
	weight    float64
}

var headerTemplates = []headerTemplate{
	{model.FieldTypeFullName, "fullname", 1.0},
	{model.FieldTypeFullName, "patientname", 1.0},
	{model.FieldTypeFullName, "name", 0.5},

	{model.FieldTypeFirstName, "firstname", 1.0},
	{model.FieldTypeFirstName, "givenname", 1.0},
	{model.FieldTypeFirstName, "fname", 0.9},

	{model.FieldTypeLastName, "lastname", 1.0},
	{model.FieldTypeLastName, "familyname", 1.0},
	{model.FieldTypeLastName, "surname", 0.95},
	{model.FieldTypeLastName, "lname", 0.9},

	{model.FieldTypeMiddleName, "middlename", 1.0},
	{model.FieldTypeMiddleName, "middleinitial", 1.0},
	{model.FieldTypeMiddleName, "middle", 0.7},

	{model.FieldTypeDateOfBirth, "dateofbirth", 1.0},
	{model.FieldTypeDateOfBirth, "birthdate", 1.0},
	{model.FieldTypeDateOfBirth, "dob", 0.95},
	{model.FieldTypeDateOfBirth, "birth", 0.7},

	{model.FieldTypeAppointmentDate, "appointmentdate", 1.0},
	{model.FieldTypeAppointmentDate, "apptdate", 0.95},
	{model.FieldTypeAppointmentDate, "visitdate", 0.9},
	{model.FieldTypeAppointmentDate, "servicedate", 0.9},
	{model.FieldTypeAppointmentDate, "appointment", 0.8},
	{model.FieldTypeAppointmentDate, "date", 0.4},

	{model.FieldTypeSSN, "socialsecuritynumber", 1.0},
	{model.FieldTypeSSN, "socialsecurity", 1.0},
	{model.FieldTypeSSN, "ssn", 0.95},

	{model.FieldTypeMRN, "medicalrecordnumber", 1.0},
	{model.FieldTypeMRN, "medicalrecord", 0.95},
	{model.FieldTypeMRN, "mrn", 0.95},
	{model.FieldTypeMRN, "recordnumber", 0.8},

	{model.FieldTypeInsuranceID, "insuranceid", 1.0},
	{model.FieldTypeInsuranceID, "insurancenumber", 1.0},
	{model.FieldTypeInsuranceID, "memberid", 0.85},
	{model.FieldTypeInsuranceID, "policynumber", 0.85},
	{model.FieldTypeInsuranceID, "insurance", 0.7},

	{model.FieldTypeMedicaidNumber, "medicaidnumber", 1.0},
	{model.FieldTypeMedicaidNumber, "medicaidid", 1.0},
	{model.FieldTypeMedicaidNumber, "medicaid", 0.9},

	{model.FieldTypeDriversLicense, "driverslicense", 1.0},
	{model.FieldTypeDriversLicense, "licensenumber", 0.9},
	{model.FieldTypeDriversLicense, "dlnumber", 0.9},
	{model.FieldTypeDriversLicense, "license", 0.6},

	{model.FieldTypeAddress, "streetaddress", 1.0},
	{model.FieldTypeAddress, "mailingaddress", 1.0},
	{model.FieldTypeAddress, "address", 0.9},
	{model.FieldTypeAddress, "addr", 0.7},

	{model.FieldTypePhone, "phonenumber", 1.0},
	{model.FieldTypePhone, "telephone", 0.95},
	{model.FieldTypePhone, "phone", 0.9},
	{model.FieldTypePhone, "mobile", 0.8},
	{model.FieldTypePhone, "cell", 0.7},

	{model.FieldTypeEmail, "emailaddress", 1.0},
	{model.FieldTypeEmail, "email", 0.95},

	{model.FieldTypeProviderName, "providername", 1.0},
	{model.FieldTypeProviderName, "attendingprovider", 1.0},
	{model.FieldTypeProviderName, "physician", 0.9},
	{model.FieldTypeProviderName, "doctor", 0.85},
	{model.FieldTypeProviderName, "provider", 0.8},

	{model.FieldTypeFacilityName, "facilityname", 1.0},
	{model.FieldTypeFacilityName, "hospital", 0.85},
	{model.FieldTypeFacilityName, "facility", 0.8},
	{model.FieldTypeFacilityName, "clinic", 0.8},
}

// shapeRule pairs a field type with its value-shape pattern and the default
// synthetic form used when a value carries no usable structure.
type shapeRule struct {
	fieldType   model.FieldType
	pattern     string
	defaultForm string
}

// Patterns shared verbatim between field types deliberately use the same
// string so shape specificity can be derived by counting sharers.
const (
	singleWordPattern = `^[A-Za-z][A-Za-z'\-]*$`
	multiWordPattern  = `^[A-Za-z][A-Za-z.'\-]*(?: [A-Za-z0-9][A-Za-z0-9.'\-]*)+$`
	datePattern       = `^(?:\d{4}[-/]\d{2}[-/]\d{2}|\d{2}[-/]\d{2}[-/]\d{4}|\d{8}|[A-Za-z]{3,9} \d{1,2}, \d{4})$`
)

var shapeRules = []shapeRule{
	{model.FieldTypeFirstName, singleWordPattern, "??????"},
	{model.FieldTypeLastName, singleWordPattern, "??????"},
	{model.FieldTypeMiddleName, singleWordPattern, "?"},
	{model.FieldTypeFullName, multiWordPattern, "?????? ??????"},
	{model.FieldTypeProviderName, multiWordPattern, "?????? ??????"},
	{model.FieldTypeFacilityName, multiWordPattern, "?????? ??????"},

	{model.FieldTypeDateOfBirth, datePattern, "2006-01-02"},
	{model.FieldTypeAppointmentDate, datePattern, "2006-01-02"},

	{model.FieldTypeSSN, `^\d{3}-?\d{2}-?\d{4}$`, "###-##-####"},
	{model.FieldTypeMRN, `^[A-Za-z]?\d{5,10}$`, "########"},
	{model.FieldTypeInsuranceID, `^[A-Za-z][A-Za-z0-9\- ]{4,16}[A-Za-z0-9]$`, "??#######"},
	{model.FieldTypeMedicaidNumber, `^(?:[A-Z]{2}\d{5}[A-Z]|\d{7,12}|[A-Z]{2}-\d{8})$`, "##########"},
	{model.FieldTypeDriversLicense, `^[A-Za-z]{0,2}[A-Za-z0-9]{4,10}\d$`, "?#######"},

	{model.FieldTypeAddress, `^\d+ [A-Za-z0-9 .,'#\-]+$`, "### ?????? St"},
	{model.FieldTypePhone, `^\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}(?: ?(?:x|ext\.?) ?\d+)?$`, "###-###-####"},
	{model.FieldTypeEmail, `^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`, "????????@??????.com"},
}
