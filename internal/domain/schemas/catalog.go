package schemas

import (
	"regexp"

	"github.com/shopspring/decimal"

	"citizen-portal.backend/internal/domain/entities"
	v "citizen-portal.backend/internal/domain/validation"
)

const (
	applicationDuplicateMessage  = "An application with this email is already pending or approved"
	consultationDuplicateMessage = "A consultation request already exists"
)

var accountNumberPattern = regexp.MustCompile(`^[0-9]{9,18}$`)

var (
	idProofTypes  = []string{"aadhar", "pan", "voter", "passport", "driving_licence"}
	genders       = []string{"male", "female", "other"}
	companySizes  = []string{"1-10", "11-50", "51-200", "200+"}
	businessTypes = []string{"proprietorship", "partnership", "llp", "private_limited", "public_limited"}
)

// CA and lawyer consultation types per variant.
var (
	CAIndividualServices     = []string{"Tax", "Audit", "GST", "Accounting", "Business Setup"}
	CAFirmServices           = []string{"Tax", "Audit", "GST", "Accounting", "Business Setup"}
	LawyerIndividualServices = []string{"Civil", "Criminal", "Family", "Property", "Consumer"}
	LawyerFirmServices       = []string{"Corporate", "Contract", "Intellectual Property", "Employment", "Litigation"}
)

func req(name string, rules ...v.Rule) v.Field {
	return v.Field{Name: name, Rules: append([]v.Rule{v.Required()}, rules...)}
}

func opt(name string, rules ...v.Rule) v.Field {
	return v.Field{Name: name, Rules: rules}
}

func slot(name string, policy v.FilePolicy) v.Slot {
	return v.Slot{Name: name, Policy: policy}
}

func optionalSlot(name string, policy v.FilePolicy) v.Slot {
	return v.Slot{Name: name, Policy: policy, Optional: true}
}

func rupees(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func applicant(extra ...v.Field) []v.Field {
	base := []v.Field{
		req("fullName", v.MinLength(2)),
		req("email", v.Email()),
		req("phoneNumber", v.Phone()),
		req("address", v.MinLength(5)),
	}
	return append(base, extra...)
}

func single(slug string, s *Schema) *Family {
	if s.PhoneField == "" {
		s.PhoneField = "phoneNumber"
	}
	if s.DuplicateMessage == "" {
		s.DuplicateMessage = applicationDuplicateMessage
	}
	return &Family{Slug: slug, Product: entities.ProductApplication, Schemas: []*Schema{s}}
}

// Catalog returns fresh descriptors for every family the portal serves.
func Catalog() []*Family {
	return []*Family{
		single("income-certificate", &Schema{
			Kind:  entities.KindIncomeCertificate,
			Title: "Income Certificate",
			Fields: applicant(
				req("annualIncome", v.PositiveNumber()),
				req("idProofType", v.OneOf(idProofTypes...)),
				opt("fatherName"),
				opt("occupation"),
				opt("purpose"),
			),
			Slots: []v.Slot{
				slot("photo", v.ImagePolicy),
				optionalSlot("idProof", v.DocumentPolicy),
				optionalSlot("incomeProof", v.DocumentPolicy),
			},
			Statuses: entities.ReviewStatuses,
			Fee:      rupees(50),
		}),
		single("caste-certificate", &Schema{
			Kind:  entities.KindCasteCertificate,
			Title: "Caste Certificate",
			Fields: applicant(
				req("fatherName"),
				req("dateOfBirth", v.PastDate()),
				req("caste"),
				req("category", v.OneOf("SC", "ST", "OBC", "EWS")),
				opt("religion"),
			),
			Slots: []v.Slot{
				slot("photo", v.ImagePolicy),
				slot("idProof", v.DocumentPolicy),
				slot("casteProof", v.DocumentPolicy),
			},
			Statuses: entities.ReviewStatuses,
			Fee:      rupees(50),
		}),
		single("domicile-certificate", &Schema{
			Kind:  entities.KindDomicileCertificate,
			Title: "Domicile Certificate",
			Fields: applicant(
				req("fatherName"),
				req("dateOfBirth", v.PastDate()),
				req("yearsOfResidence", v.PositiveNumber()),
				req("purpose", v.MinLength(3)),
			),
			Slots: []v.Slot{
				slot("photo", v.ImagePolicy),
				slot("idProof", v.DocumentPolicy),
				slot("addressProof", v.DocumentPolicy),
			},
			Statuses: entities.ReviewStatuses,
			Fee:      rupees(60),
		}),
		single("birth-certificate", &Schema{
			Kind:  entities.KindBirthCertificate,
			Title: "Birth Certificate",
			Fields: []v.Field{
				req("childName", v.MinLength(2)),
				req("dateOfBirth", v.PastDate()),
				req("placeOfBirth"),
				req("gender", v.OneOf(genders...)),
				req("fatherName"),
				req("motherName"),
				req("email", v.Email()),
				req("phoneNumber", v.Phone()),
				req("address", v.MinLength(5)),
			},
			Slots: []v.Slot{
				slot("hospitalRecord", v.DocumentPolicy),
				slot("parentIdProof", v.DocumentPolicy),
			},
			Statuses: entities.ReviewStatuses,
			Fee:      rupees(30),
		}),
		single("passport", &Schema{
			Kind:  entities.KindPassport,
			Title: "Passport",
			Fields: applicant(
				req("dateOfBirth", v.PastDate()),
				req("placeOfBirth"),
				req("passportType", v.OneOf("normal", "tatkal")),
				req("aadhaarNumber", v.Aadhaar()),
				opt("gender", v.OneOf(genders...)),
			),
			Slots: []v.Slot{
				slot("photo", v.PhotoPolicy),
				slot("idProof", v.DocumentPolicy),
				slot("addressProof", v.DocumentPolicy),
				slot("birthProof", v.DocumentPolicy),
			},
			Statuses:        entities.ProcessingStatuses,
			IdentifierField: "aadhaarNumber",
			Fee:             rupees(1500),
		}),
		single("pan-card", &Schema{
			Kind:  entities.KindPANCard,
			Title: "PAN Card",
			Fields: applicant(
				req("fatherName"),
				req("dateOfBirth", v.PastDate()),
				req("aadhaarNumber", v.Aadhaar()),
			),
			Slots: []v.Slot{
				slot("photo", v.PhotoPolicy),
				slot("signature", v.ImagePolicy),
				slot("idProof", v.DocumentPolicy),
				slot("addressProof", v.DocumentPolicy),
			},
			Statuses:        entities.ProcessingStatuses,
			IdentifierField: "aadhaarNumber",
			Fee:             rupees(107),
		}),
		single("aadhaar-update", &Schema{
			Kind:  entities.KindAadhaarUpdate,
			Title: "Aadhaar Update",
			Fields: applicant(
				req("aadhaarNumber", v.Aadhaar()),
				req("updateType", v.OneOf("name", "address", "dateOfBirth", "mobile", "email", "biometric")),
				opt("newValue"),
			),
			Slots: []v.Slot{
				slot("supportingDocument", v.DocumentPolicy),
			},
			Statuses:        entities.ProcessingStatuses,
			IdentifierField: "aadhaarNumber",
			Fee:             rupees(50),
		}),
		single("voter-id", &Schema{
			Kind:  entities.KindVoterID,
			Title: "Voter ID",
			Fields: applicant(
				req("fatherName"),
				req("dateOfBirth", v.PastDate()),
				req("gender", v.OneOf(genders...)),
				req("constituency"),
			),
			Slots: []v.Slot{
				slot("photo", v.ImagePolicy),
				slot("ageProof", v.DocumentPolicy),
				slot("addressProof", v.DocumentPolicy),
			},
			Statuses: entities.ProcessingStatuses,
			Fee:      rupees(25),
		}),
		single("driving-licence", &Schema{
			Kind:  entities.KindDrivingLicence,
			Title: "Driving Licence",
			Fields: applicant(
				req("dateOfBirth", v.PastDate()),
				req("licenceType", v.OneOf("learner", "permanent")),
				req("vehicleClass", v.OneOf("MCWG", "LMV", "HMV", "TRANS")),
				opt("bloodGroup", v.OneOf("A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-")),
			),
			Slots: []v.Slot{
				slot("photo", v.ImagePolicy),
				slot("signature", v.ImagePolicy),
				slot("ageProof", v.DocumentPolicy),
				slot("addressProof", v.DocumentPolicy),
			},
			Statuses: entities.ProcessingStatuses,
			Fee:      rupees(200),
		}),
		single("ration-card", &Schema{
			Kind:  entities.KindRationCard,
			Title: "Ration Card",
			Fields: applicant(
				req("familyMembers", v.PositiveNumber()),
				req("annualIncome", v.PositiveNumber()),
				req("cardType", v.OneOf("APL", "BPL", "AAY")),
			),
			Slots: []v.Slot{
				slot("photo", v.ImagePolicy),
				slot("addressProof", v.DocumentPolicy),
				slot("incomeProof", v.DocumentPolicy),
			},
			Statuses: entities.ReviewStatuses,
			Fee:      rupees(45),
		}),
		single("gst-registration", &Schema{
			Kind:  entities.KindGSTRegistration,
			Title: "GST Registration",
			Fields: []v.Field{
				req("businessName", v.MinLength(2)),
				req("ownerName", v.MinLength(2)),
				req("email", v.Email()),
				req("phoneNumber", v.Phone()),
				req("businessAddress", v.MinLength(5)),
				req("panNumber", v.PAN()),
				req("businessType", v.OneOf(businessTypes...)),
				req("commencementDate", v.PastDate()),
				req("bankAccountNumber", v.Pattern(accountNumberPattern, "must be a 9 to 18 digit account number")),
				req("ifscCode", v.IFSC()),
			},
			Slots: []v.Slot{
				slot("panCard", v.DocumentPolicy),
				slot("addressProof", v.DocumentPolicy),
				slot("bankStatement", v.DocumentPolicy),
				slot("photo", v.ImagePolicy),
			},
			Statuses:        entities.ReviewStatuses,
			IdentifierField: "panNumber",
			Fee:             rupees(500),
		}),
		single("msme-registration", &Schema{
			Kind:  entities.KindMSMERegistration,
			Title: "MSME Registration",
			Fields: []v.Field{
				req("enterpriseName", v.MinLength(2)),
				req("ownerName", v.MinLength(2)),
				req("email", v.Email()),
				req("phoneNumber", v.Phone()),
				req("address", v.MinLength(5)),
				req("aadhaarNumber", v.Aadhaar()),
				req("panNumber", v.PAN()),
				opt("gstin", v.GSTIN()),
				req("enterpriseType", v.OneOf("micro", "small", "medium")),
				req("commencementDate", v.PastDate()),
				req("investment", v.PositiveNumber()),
				req("turnover", v.PositiveNumber()),
			},
			Slots: []v.Slot{
				slot("aadhaarCard", v.DocumentPolicy),
				slot("panCard", v.DocumentPolicy),
			},
			Statuses:        entities.ReviewStatuses,
			IdentifierField: "panNumber",
			Fee:             rupees(300),
		}),
		single("trade-licence", &Schema{
			Kind:  entities.KindTradeLicence,
			Title: "Trade Licence",
			Fields: []v.Field{
				req("businessName", v.MinLength(2)),
				req("ownerName", v.MinLength(2)),
				req("email", v.Email()),
				req("phoneNumber", v.Phone()),
				req("businessAddress", v.MinLength(5)),
				req("tradeType"),
				opt("gstin", v.GSTIN()),
				req("commencementDate", v.PastDate()),
				opt("numberOfEmployees", v.PositiveNumber()),
			},
			Slots: []v.Slot{
				slot("ownerPhoto", v.ImagePolicy),
				slot("idProof", v.DocumentPolicy),
				slot("premisesProof", v.DocumentPolicy),
			},
			Statuses: entities.ReviewStatuses,
			Fee:      rupees(750),
		}),
		consultation("lawyer", entities.ProductLawyer,
			&Schema{
				Kind:       entities.KindLawyerIndividual,
				Title:      "Lawyer Consultation",
				ClientType: entities.ClientTypeIndividual,
				Fields: []v.Field{
					req("fullName", v.MinLength(2)),
					req("email", v.Email()),
					req("phone", v.Phone()),
					req("consultationType", v.OneOf(LawyerIndividualServices...)),
					req("preferredDate", v.FutureDate()),
					req("caseDescription", v.MinLength(20)),
					opt("address"),
				},
				Slots: []v.Slot{optionalSlot("supportingDocument", v.DocumentPolicy)},
			},
			&Schema{
				Kind:       entities.KindLawyerFirm,
				Title:      "Lawyer Consultation (Firm)",
				ClientType: entities.ClientTypeFirm,
				Fields: []v.Field{
					req("companyName", v.MinLength(2)),
					req("contactPerson", v.MinLength(2)),
					req("email", v.Email()),
					req("phone", v.Phone()),
					req("companySize", v.OneOf(companySizes...)),
					req("consultationType", v.OneOf(LawyerFirmServices...)),
					req("preferredDate", v.FutureDate()),
					req("caseDescription", v.MinLength(20)),
					opt("gstin", v.GSTIN()),
				},
				Slots: []v.Slot{optionalSlot("companyDocument", v.DocumentPolicy)},
			},
		),
		consultation("ca", entities.ProductCA,
			&Schema{
				Kind:       entities.KindCAIndividual,
				Title:      "CA Consultation",
				ClientType: entities.ClientTypeIndividual,
				Fields: []v.Field{
					req("fullName", v.MinLength(2)),
					req("email", v.Email()),
					req("phone", v.Phone()),
					req("panNumber", v.PAN()),
					req("consultationType", v.OneOf(CAIndividualServices...)),
					req("preferredDate", v.FutureDate()),
					req("description", v.MinLength(20)),
				},
				Slots: []v.Slot{optionalSlot("supportingDocument", v.DocumentPolicy)},
			},
			&Schema{
				Kind:       entities.KindCAFirm,
				Title:      "CA Consultation (Firm)",
				ClientType: entities.ClientTypeFirm,
				Fields: []v.Field{
					req("companyName", v.MinLength(2)),
					req("contactPerson", v.MinLength(2)),
					req("email", v.Email()),
					req("phone", v.Phone()),
					req("companySize", v.OneOf(companySizes...)),
					req("gstin", v.GSTIN()),
					opt("panNumber", v.PAN()),
					req("consultationType", v.OneOf(CAFirmServices...)),
					req("preferredDate", v.FutureDate()),
					req("description", v.MinLength(20)),
				},
				Slots: []v.Slot{optionalSlot("financialStatement", v.DocumentPolicy)},
			},
		),
	}
}

func consultation(slug string, product entities.PaymentProduct, variants ...*Schema) *Family {
	for _, s := range variants {
		s.PhoneField = "phone"
		s.Statuses = entities.ProcessingStatuses
		s.DuplicateMessage = consultationDuplicateMessage
	}
	return &Family{Slug: slug, Product: product, Schemas: variants}
}

// Default returns the registry built from Catalog.
func Default() *Registry {
	r, err := NewRegistry(Catalog()...)
	if err != nil {
		panic(err)
	}
	return r
}
