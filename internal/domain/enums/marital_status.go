package enums

type MaritalStatus string

const (
	MaritalStatusSingle     MaritalStatus = "single"
	MaritalStatusMarried    MaritalStatus = "married"
	MaritalStatusDivorced   MaritalStatus = "divorced"
	MaritalStatusWidowed    MaritalStatus = "widowed"
	MaritalStatusCivilUnion MaritalStatus = "civil_union"
	MaritalStatusCohabiting MaritalStatus = "cohabiting"
)

func (m MaritalStatus) Valid() bool {
	switch m {
	case MaritalStatusSingle, MaritalStatusMarried, MaritalStatusDivorced,
		MaritalStatusWidowed, MaritalStatusCivilUnion, MaritalStatusCohabiting:
		return true
	}
	return false
}
