package dto

import (
	"mime/multipart"

	apierrors "github.com/feral-file/ff-card-indexer/internal/api/shared/errors"
)

// Response is the envelope of every API response
type Response struct {
	Success bool                `json:"success"`
	Data    interface{}         `json:"data,omitempty"`
	Error   *apierrors.APIError `json:"error,omitempty"`
}

// ListCardsQuery holds the pagination of the card list
type ListCardsQuery struct {
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Offset uint64 `form:"offset"`
}

// PrepareCardForm is the multipart body of mint and edit preparation.
// Socials is a JSON object of provider to handle.
type PrepareCardForm struct {
	Nickname     string                `form:"nickname" binding:"required,max=64"`
	Role         string                `form:"role" binding:"max=64"`
	Bio          string                `form:"bio" binding:"max=280"`
	Socials      string                `form:"socials"`
	ProfileImage *multipart.FileHeader `form:"profile_image"`
}

// RollbackRequest names the staged artifact to delete
type RollbackRequest struct {
	CID string `json:"cid" binding:"required"`
}

// SyncResponse acknowledges a background backfill
type SyncResponse struct {
	Task    string `json:"task"`
	Address string `json:"address"`
}
