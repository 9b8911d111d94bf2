package enums

type ServiceCategory string

const (
	ServiceCategoryIdentity       ServiceCategory = "identity"
	ServiceCategoryPassport       ServiceCategory = "passport"
	ServiceCategoryCivilStatus    ServiceCategory = "civil_status"
	ServiceCategoryVisa           ServiceCategory = "visa"
	ServiceCategoryCertification  ServiceCategory = "certification"
	ServiceCategoryRegistration   ServiceCategory = "registration"
	ServiceCategoryAssistance     ServiceCategory = "assistance"
	ServiceCategoryTravelDocument ServiceCategory = "travel_document"
	ServiceCategoryOther          ServiceCategory = "other"
)

type ServiceStatus string

const (
	ServiceStatusActive    ServiceStatus = "active"
	ServiceStatusInactive  ServiceStatus = "inactive"
	ServiceStatusSuspended ServiceStatus = "suspended"
)
