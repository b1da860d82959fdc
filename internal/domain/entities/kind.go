package entities

import "fmt"

// Kind identifies one application collection. Values are fixed server-side and are the only
// accepted way to address a table.
type Kind string

const (
	KindIncomeCertificate   Kind = "income_certificate"
	KindCasteCertificate    Kind = "caste_certificate"
	KindDomicileCertificate Kind = "domicile_certificate"
	KindBirthCertificate    Kind = "birth_certificate"
	KindPassport            Kind = "passport"
	KindPANCard             Kind = "pan_card"
	KindAadhaarUpdate       Kind = "aadhaar_update"
	KindVoterID             Kind = "voter_id"
	KindDrivingLicence      Kind = "driving_licence"
	KindRationCard          Kind = "ration_card"
	KindGSTRegistration     Kind = "gst_registration"
	KindMSMERegistration    Kind = "msme_registration"
	KindTradeLicence        Kind = "trade_licence"

	KindLawyerIndividual Kind = "lawyer_individual"
	KindLawyerFirm       Kind = "lawyer_firm"
	KindCAIndividual     Kind = "ca_individual"
	KindCAFirm           Kind = "ca_firm"
)

// AllKinds lists every persisted collection.
var AllKinds = []Kind{
	KindIncomeCertificate,
	KindCasteCertificate,
	KindDomicileCertificate,
	KindBirthCertificate,
	KindPassport,
	KindPANCard,
	KindAadhaarUpdate,
	KindVoterID,
	KindDrivingLicence,
	KindRationCard,
	KindGSTRegistration,
	KindMSMERegistration,
	KindTradeLicence,
	KindLawyerIndividual,
	KindLawyerFirm,
	KindCAIndividual,
	KindCAFirm,
}

// ParseKind resolves a client-supplied value against the fixed enumeration.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown application kind %q", s)
}

// TableName returns the table backing the kind.
func (k Kind) TableName() string {
	return string(k) + "_applications"
}

// ClientType selects the consultation variant.
type ClientType string

const (
	ClientTypeIndividual ClientType = "Individual"
	ClientTypeFirm       ClientType = "Firm"
)
