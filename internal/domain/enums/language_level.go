package enums

type LanguageLevel string

const (
	LanguageLevelA1     LanguageLevel = "A1"
	LanguageLevelA2     LanguageLevel = "A2"
	LanguageLevelB1     LanguageLevel = "B1"
	LanguageLevelB2     LanguageLevel = "B2"
	LanguageLevelC1     LanguageLevel = "C1"
	LanguageLevelC2     LanguageLevel = "C2"
	LanguageLevelNative LanguageLevel = "native"
)

func (l LanguageLevel) Valid() bool {
	switch l {
	case LanguageLevelA1, LanguageLevelA2, LanguageLevelB1, LanguageLevelB2,
		LanguageLevelC1, LanguageLevelC2, LanguageLevelNative:
		return true
	}
	return false
}
