package enums

type NationalityAcquisition string

const (
	AcquisitionBirth          NationalityAcquisition = "birth"
	AcquisitionNaturalization NationalityAcquisition = "naturalization"
	AcquisitionMarriage       NationalityAcquisition = "marriage"
	AcquisitionAdoption       NationalityAcquisition = "adoption"
	AcquisitionOther          NationalityAcquisition = "other"
)
