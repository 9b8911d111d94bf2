package enums

// ProfileType is the declared purpose of a consular profile. It drives
// which address and family sections count toward the completion score.
type ProfileType string

const (
	ProfileTypeLongStay      ProfileType = "long_stay"
	ProfileTypeShortStay     ProfileType = "short_stay"
	ProfileTypeVisaLongStay  ProfileType = "visa_long_stay"
	ProfileTypeVisaTourism   ProfileType = "visa_tourism"
	ProfileTypeVisaBusiness  ProfileType = "visa_business"
	ProfileTypeAdminServices ProfileType = "admin_services"
)

func (p ProfileType) Valid() bool {
	switch p {
	case ProfileTypeLongStay, ProfileTypeShortStay, ProfileTypeVisaLongStay,
		ProfileTypeVisaTourism, ProfileTypeVisaBusiness, ProfileTypeAdminServices:
		return true
	}
	return false
}
