package enums

type RegistrationStatus string

const (
	RegistrationStatusRequested RegistrationStatus = "requested"
	RegistrationStatusActive    RegistrationStatus = "active"
	RegistrationStatusExpired   RegistrationStatus = "expired"
)

type RegistrationType string

const (
	RegistrationTypeInscription  RegistrationType = "inscription"
	RegistrationTypeRenewal      RegistrationType = "renewal"
	RegistrationTypeModification RegistrationType = "modification"
)

func (t RegistrationType) Valid() bool {
	switch t {
	case RegistrationTypeInscription, RegistrationTypeRenewal, RegistrationTypeModification:
		return true
	}
	return false
}

type RegistrationDuration string

const (
	RegistrationDurationTemporary RegistrationDuration = "temporary"
	RegistrationDurationPermanent RegistrationDuration = "permanent"
)

func (d RegistrationDuration) Valid() bool {
	switch d {
	case RegistrationDurationTemporary, RegistrationDurationPermanent:
		return true
	}
	return false
}
