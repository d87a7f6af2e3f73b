package dto

import (
	"time"

	"github.com/spec-kit/land-registry/internal/domain"
)

// RegisterLandRequest payload for recording a new parcel.
type RegisterLandRequest struct {
	SurveyID     string `json:"survey_id"`
	DocumentHash string `json:"document_hash"`
	Location     string `json:"location"`
	Area         string `json:"area"`
	Price        uint64 `json:"price"`
}

// ListForSaleRequest payload; a nil price keeps the recorded price.
type ListForSaleRequest struct {
	Price *uint64 `json:"price,omitempty"`
}

// TransferRequestResponse describes an in-flight transfer.
type TransferRequestResponse struct {
	Requester   string    `json:"requester"`
	RequestedAt time.Time `json:"requested_at"`
}

// PropertyResponse describes a parcel record.
type PropertyResponse struct {
	ID              uint64                   `json:"id"`
	SurveyID        string                   `json:"survey_id"`
	DocumentHash    string                   `json:"document_hash"`
	Location        string                   `json:"location"`
	Area            string                   `json:"area"`
	Price           uint64                   `json:"price"`
	Owner           string                   `json:"owner"`
	State           domain.PropertyState     `json:"state"`
	ForSale         bool                     `json:"for_sale"`
	PendingTransfer *TransferRequestResponse `json:"pending_transfer,omitempty"`
	RegisteredAt    time.Time                `json:"registered_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// FromProperty maps the domain model.
func FromProperty(property *domain.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:           property.ID,
		SurveyID:     property.SurveyID,
		DocumentHash: property.DocumentHash,
		Location:     property.Location,
		Area:         property.Area,
		Price:        property.Price,
		Owner:        property.Owner,
		State:        property.State,
		ForSale:      property.ForSale(),
		RegisteredAt: property.RegisteredAt,
		UpdatedAt:    property.UpdatedAt,
	}
	if property.PendingTransfer != nil {
		resp.PendingTransfer = &TransferRequestResponse{
			Requester:   property.PendingTransfer.Requester,
			RequestedAt: property.PendingTransfer.RequestedAt,
		}
	}
	return resp
}

// FromProperties maps a slice of domain models.
func FromProperties(properties []domain.Property) []PropertyResponse {
	result := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		result = append(result, FromProperty(&properties[i]))
	}
	return result
}
