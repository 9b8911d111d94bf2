package enums

type EmergencyContactType string

const (
	EmergencyContactResident EmergencyContactType = "resident"
	EmergencyContactHomeland EmergencyContactType = "home_land"
)
