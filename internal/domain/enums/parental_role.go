package enums

type ParentalRole string

const (
	ParentalRoleFather        ParentalRole = "father"
	ParentalRoleMother        ParentalRole = "mother"
	ParentalRoleLegalGuardian ParentalRole = "legal_guardian"
)

func (p ParentalRole) Valid() bool {
	switch p {
	case ParentalRoleFather, ParentalRoleMother, ParentalRoleLegalGuardian:
		return true
	}
	return false
}
