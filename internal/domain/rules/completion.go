package rules

import (
	"math"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

// typeRequirements declares which conditional sections count toward the
// completion score for a given profile type. Unknown types fall back to
// requiring all three.
type typeRequirements struct {
	Residence bool
	Homeland  bool
	Family    bool
}

var requirementsByType = map[enums.ProfileType]typeRequirements{
	enums.ProfileTypeLongStay:      {Residence: true, Homeland: true, Family: true},
	enums.ProfileTypeShortStay:     {Residence: true, Homeland: false, Family: false},
	enums.ProfileTypeVisaLongStay:  {Residence: true, Homeland: true, Family: true},
	enums.ProfileTypeVisaTourism:   {Residence: true, Homeland: false, Family: false},
	enums.ProfileTypeVisaBusiness:  {Residence: true, Homeland: false, Family: true},
	enums.ProfileTypeAdminServices: {Residence: false, Homeland: true, Family: true},
}

var defaultRequirements = typeRequirements{Residence: true, Homeland: true, Family: true}

// CompletionScore maps a profile snapshot and its declared type to a
// 0..100 percentage of required fields present. Ten fields always count:
// six identity fields, the passport number, phone, email, and the presence
// of at least one emergency contact. Residence address, homeland address
// and marital status each add one slot when the type requires them.
func CompletionScore(p model.Profile, profileType enums.ProfileType) int {
	req, ok := requirementsByType[profileType]
	if !ok {
		req = defaultRequirements
	}

	total := 0
	filled := 0

	count := func(present bool) {
		total++
		if present {
			filled++
		}
	}

	count(p.Identity.FirstName != "")
	count(p.Identity.LastName != "")
	count(p.Identity.BirthDate != nil)
	count(p.Identity.BirthPlace != "")
	count(p.Identity.Gender != "")
	count(p.Identity.Nationality != "")
	count(p.PassportInfo.Number != "")
	count(p.Contacts.Phone != "")
	count(p.Contacts.Email != "")
	count(len(p.EmergencyContacts) > 0)

	if req.Residence {
		count(p.Addresses.Residence != nil)
	}
	if req.Homeland {
		count(p.Addresses.Homeland != nil)
	}
	if req.Family {
		count(p.Family.MaritalStatus != "")
	}

	// total is at least 10 with the fixed table; the guard protects
	// against an empty-table regression, not a reachable state.
	if total == 0 {
		return 0
	}

	return int(math.Round(100 * float64(filled) / float64(total)))
}
