package enums

type WorkStatus string

const (
	WorkStatusSelfEmployed WorkStatus = "self_employed"
	WorkStatusEmployee     WorkStatus = "employee"
	WorkStatusEntrepreneur WorkStatus = "entrepreneur"
	WorkStatusUnemployed   WorkStatus = "unemployed"
	WorkStatusRetired      WorkStatus = "retired"
	WorkStatusStudent      WorkStatus = "student"
	WorkStatusOther        WorkStatus = "other"
)
