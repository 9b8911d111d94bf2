package dto

import (
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

type DocumentListResponse struct {
	Documents []model.Document `json:"documents"`
}

type DocumentURLResponse struct {
	URL string `json:"url"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
