package rest

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/api/middleware"
	"github.com/feral-file/ff-card-indexer/internal/api/shared/dto"
	"github.com/feral-file/ff-card-indexer/internal/cards"
	"github.com/feral-file/ff-card-indexer/internal/coordinator"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/indexer"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetCard retrieves a single card by its id
	// GET /api/v1/cards/:id
	GetCard(c *gin.Context)

	// ListCards retrieves minted cards, newest first
	// GET /api/v1/cards?limit=<limit>&offset=<offset>
	ListCards(c *gin.Context)

	// PrepareMint stages the card image and returns mintBaseCard arguments
	// POST /api/v1/cards/mint/prepare (multipart)
	PrepareMint(c *gin.Context)

	// PrepareEdit stages a new image if needed and returns editBaseCard arguments
	// POST /api/v1/cards/edit/prepare (multipart)
	PrepareEdit(c *gin.Context)

	// Rollback deletes a staged artifact the client abandoned
	// POST /api/v1/cards/rollback
	Rollback(c *gin.Context)

	// Sync schedules a background reconciliation of the caller's card
	// POST /api/v1/cards/sync
	Sync(c *gin.Context)

	// IndexerStatus reports the chain indexer state
	// GET /api/v1/indexer/status
	IndexerStatus(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

type handler struct {
	cards         cards.Service
	coordinator   coordinator.Coordinator
	indexer       indexer.Indexer
	maxUploadSize int64
	json          adapter.JSON
}

// NewHandler creates a new REST API handler. idx may be nil when the indexer is disabled.
func NewHandler(
	cardService cards.Service,
	coord coordinator.Coordinator,
	idx indexer.Indexer,
	maxUploadSize int64,
	json adapter.JSON,
) Handler {
	return &handler{
		cards:         cardService,
		coordinator:   coord,
		indexer:       idx,
		maxUploadSize: maxUploadSize,
		json:          json,
	}
}

func (h *handler) GetCard(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Card id is required")
		return
	}

	card, err := h.cards.GetCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get card")
		return
	}

	respondOK(c, http.StatusOK, card)
}

func (h *handler) ListCards(c *gin.Context) {
	var query dto.ListCardsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid query: %v", err))
		return
	}

	page, err := h.cards.ListCards(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		respondError(c, err, "Failed to list cards")
		return
	}

	respondOK(c, http.StatusOK, page)
}

func (h *handler) PrepareMint(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	form, image, socials, ok := h.bindCardForm(c, true)
	if !ok {
		return
	}

	result, err := h.coordinator.PrepareMint(c.Request.Context(), coordinator.MintInput{
		Caller:       caller,
		Nickname:     form.Nickname,
		Role:         form.Role,
		Bio:          form.Bio,
		ProfileImage: image,
		Socials:      socials,
	})
	if err != nil {
		respondError(c, err, "Failed to prepare mint")
		return
	}

	respondOK(c, http.StatusOK, result)
}

func (h *handler) PrepareEdit(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	form, image, socials, ok := h.bindCardForm(c, false)
	if !ok {
		return
	}

	result, err := h.coordinator.PrepareEdit(c.Request.Context(), coordinator.EditInput{
		Caller:       caller,
		Nickname:     form.Nickname,
		Role:         form.Role,
		Bio:          form.Bio,
		ProfileImage: image,
		Socials:      socials,
	})
	if err != nil {
		respondError(c, err, "Failed to prepare edit")
		return
	}

	respondOK(c, http.StatusOK, result)
}

func (h *handler) Rollback(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req dto.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := h.coordinator.Rollback(c.Request.Context(), caller, req.CID)
	if err != nil {
		respondError(c, err, "Failed to roll back artifact")
		return
	}

	respondOK(c, http.StatusOK, result)
}

func (h *handler) Sync(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	h.coordinator.SpawnBackfill(c.Request.Context(), caller)

	respondOK(c, http.StatusAccepted, dto.SyncResponse{
		Task:    domain.TASK_CARD_BACKFILL,
		Address: caller.WalletAddress,
	})
}

func (h *handler) IndexerStatus(c *gin.Context) {
	if h.indexer == nil {
		respondOK(c, http.StatusOK, indexer.Status{State: indexer.StateStopped})
		return
	}
	respondOK(c, http.StatusOK, h.indexer.Status())
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-card-api",
	})
}

// bindCardForm parses the multipart card form. It writes the error response itself.
func (h *handler) bindCardForm(c *gin.Context, socialsRequired bool) (*dto.PrepareCardForm, []byte, map[string]string, bool) {
	var form dto.PrepareCardForm
	if err := c.ShouldBind(&form); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid form: %v", err))
		return nil, nil, nil, false
	}

	var socials map[string]string
	if form.Socials != "" {
		if err := h.json.Unmarshal([]byte(form.Socials), &socials); err != nil {
			respondValidationError(c, fmt.Sprintf("Invalid socials: %v", err))
			return nil, nil, nil, false
		}
	}
	if socials == nil && socialsRequired {
		socials = map[string]string{}
	}

	var image []byte
	if form.ProfileImage != nil {
		var err error
		image, err = h.readUpload(form.ProfileImage)
		if err != nil {
			respondBadRequest(c, "Invalid profile image", err.Error())
			return nil, nil, nil, false
		}
	}

	return &form, image, socials, true
}

func (h *handler) readUpload(header *multipart.FileHeader) ([]byte, error) {
	if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
		return nil, fmt.Errorf("file exceeds %d bytes", h.maxUploadSize)
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if h.maxUploadSize > 0 {
		r = io.LimitReader(f, h.maxUploadSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if h.maxUploadSize > 0 && int64(len(data)) > h.maxUploadSize {
		return nil, fmt.Errorf("file exceeds %d bytes", h.maxUploadSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	return data, nil
}
