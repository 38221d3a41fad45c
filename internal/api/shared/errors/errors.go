package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/ff-card-indexer/internal/coordinator"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/render"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeForbidden        ErrorCode = "forbidden"
	ErrCodeRateLimited      ErrorCode = "rate_limited"

	// Card mutation errors
	ErrCodeCardNotFound       ErrorCode = "card_not_found"
	ErrCodeCardNotMinted      ErrorCode = "card_not_minted"
	ErrCodeAlreadyMinted      ErrorCode = "already_minted"
	ErrCodeWrongWalletOwner   ErrorCode = "wrong_wallet_owner"
	ErrCodeSimulationReverted ErrorCode = "simulation_reverted"
	ErrCodeInvalidAddress     ErrorCode = "invalid_address"
	ErrCodeUnsupportedImage   ErrorCode = "unsupported_image"

	// Server errors (5xx)
	ErrCodeInternalError        ErrorCode = "internal_error"
	ErrCodeArtifactUploadFailed ErrorCode = "artifact_upload_failed"
	ErrCodeServiceError         ErrorCode = "service_error"
	ErrCodeChainDisabled        ErrorCode = "chain_disabled"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// SimulationDetails describes a reverted dry-run
type SimulationDetails struct {
	Method      string `json:"method"`
	Reason      string `json:"reason"`
	RollbackCID string `json:"rollbackCid,omitempty"`
}

// WrongWalletDetails names the wallet the caller should switch to
type WrongWalletDetails struct {
	CallerAddress string `json:"callerAddress"`
	OwnerAddress  string `json:"ownerAddress"`
	ClientType    string `json:"clientType,omitempty"`
}

func details(d []string) interface{} {
	if len(d) == 0 {
		return nil
	}
	return strings.Join(d, ", ")
}

// Error constructors for common error types
func NewBadRequestError(message string, d ...string) *APIError {
	return &APIError{Code: ErrCodeBadRequest, Message: message, Details: details(d)}
}

func NewNotFoundError(message string, d ...string) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: message, Details: details(d)}
}

func NewValidationError(d ...string) *APIError {
	return &APIError{Code: ErrCodeValidationFailed, Message: "Validation failed", Details: details(d)}
}

func NewUnauthorizedError(message string, d ...string) *APIError {
	return &APIError{Code: ErrCodeUnauthorized, Message: message, Details: details(d)}
}

func NewRateLimitedError(retryAfterSeconds int) *APIError {
	return &APIError{
		Code:    ErrCodeRateLimited,
		Message: "Too many requests",
		Details: map[string]int{"retryAfterSeconds": retryAfterSeconds},
	}
}

func NewInternalError(message string, d ...string) *APIError {
	return &APIError{Code: ErrCodeInternalError, Message: message, Details: details(d)}
}

func NewServiceError(message string, d ...string) *APIError {
	return &APIError{Code: ErrCodeServiceError, Message: message, Details: details(d)}
}

// FromError maps a domain error to its HTTP status and API error.
// Unrecognised errors map to a 500 without leaking the cause.
func FromError(err error) (int, *APIError) {
	var (
		revertErr  *domain.SimulationRevertedError
		uploadErr  *domain.ArtifactUploadError
		walletErr  *domain.WrongWalletOwnerError
		apiErr     *APIError
		statusCode = http.StatusInternalServerError
	)

	switch {
	case errors.As(err, &apiErr):
		return statusCode, apiErr
	case errors.As(err, &revertErr):
		return http.StatusUnprocessableEntity, &APIError{
			Code:    ErrCodeSimulationReverted,
			Message: "The contract would reject this transaction",
			Details: SimulationDetails{Method: revertErr.Method, Reason: revertErr.Reason, RollbackCID: revertErr.RollbackCID},
		}
	case errors.As(err, &uploadErr):
		return http.StatusBadGateway, &APIError{
			Code:    ErrCodeArtifactUploadFailed,
			Message: "Failed to store the card image",
			Details: uploadErr.Error(),
		}
	case errors.As(err, &walletErr):
		return http.StatusConflict, &APIError{
			Code:    ErrCodeWrongWalletOwner,
			Message: walletErr.Error(),
			Details: WrongWalletDetails{CallerAddress: walletErr.CallerAddress, OwnerAddress: walletErr.OwnerAddress, ClientType: walletErr.ClientType},
		}
	case errors.Is(err, domain.ErrCardNotFound):
		return http.StatusNotFound, &APIError{Code: ErrCodeCardNotFound, Message: "Card not found"}
	case errors.Is(err, domain.ErrAlreadyMinted):
		return http.StatusConflict, &APIError{Code: ErrCodeAlreadyMinted, Message: "This wallet already holds a card"}
	case errors.Is(err, domain.ErrCardNotMinted):
		return http.StatusConflict, &APIError{Code: ErrCodeCardNotMinted, Message: "Card has not been minted yet"}
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, &APIError{Code: ErrCodeInvalidAddress, Message: "Caller wallet address is invalid"}
	case errors.Is(err, render.ErrUnsupportedImage):
		return http.StatusBadRequest, &APIError{Code: ErrCodeUnsupportedImage, Message: "Profile image must be an image file", Details: err.Error()}
	case errors.Is(err, domain.ErrChainDisabled):
		return http.StatusServiceUnavailable, &APIError{Code: ErrCodeChainDisabled, Message: "Card minting and editing are not enabled"}
	case errors.Is(err, coordinator.ErrUnknownUser):
		return http.StatusForbidden, &APIError{Code: ErrCodeForbidden, Message: "Caller is not a registered user"}
	default:
		return statusCode, NewInternalError("Internal server error")
	}
}
