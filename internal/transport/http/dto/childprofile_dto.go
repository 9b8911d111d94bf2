package dto

import (
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

type ChildProfileCreateRequest struct {
	Identity           model.Identity     `json:"identity"`
	CountryOfResidence string             `json:"country_of_residence"`
	NIPCode            string             `json:"nip_code"`
	Parents            []model.ParentInfo `json:"parents"`
}

type ChildProfileUpdateRequest struct {
	Identity           model.Identity `json:"identity"`
	CountryOfResidence string         `json:"country_of_residence"`
	NIPCode            string         `json:"nip_code"`
}

type ChildParentsRequest struct {
	Parents []model.ParentInfo `json:"parents"`
}

type ChildDocumentLinkRequest struct {
	DocType    string `json:"doc_type"`
	DocumentID int64  `json:"document_id"`
}
