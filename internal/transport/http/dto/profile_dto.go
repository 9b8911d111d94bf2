package dto

import (
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

// ProfileUpsertRequest is a patch body: sections left out of the payload
// keep their stored value.
type ProfileUpsertRequest struct {
	ProfileType        string                   `json:"profile_type"`
	IsNational         *bool                    `json:"is_national"`
	CountryOfResidence *string                  `json:"country_of_residence"`
	Identity           *model.Identity          `json:"identity"`
	PassportInfo       *model.PassportInfo      `json:"passport_info"`
	Addresses          *model.Addresses         `json:"addresses"`
	Contacts           *model.Contacts          `json:"contacts"`
	EmergencyContacts  []model.EmergencyContact `json:"emergency_contacts"`
	Family             *model.Family            `json:"family"`
	Profession         *model.Profession        `json:"profession"`
}

type EmergencyContactsRequest struct {
	Contacts []model.EmergencyContact `json:"contacts"`
}

type DocumentLinkRequest struct {
	DocType    string `json:"doc_type"`
	DocumentID int64  `json:"document_id"`
}
