package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/land-registry/internal/api/dto"
	"github.com/spec-kit/land-registry/internal/domain"
	"github.com/spec-kit/land-registry/internal/repository"
)

// SearchHandler serves best-effort queries from the database mirror. The
// mirror lags the ledger; responses may be stale and say so in the envelope.
type SearchHandler struct {
	properties repository.PropertyMirrorRepository
}

// NewSearchHandler constructs handler.
func NewSearchHandler(properties repository.PropertyMirrorRepository) *SearchHandler {
	return &SearchHandler{properties: properties}
}

// SearchProperties handles GET /v1/search/properties.
func (h *SearchHandler) SearchProperties(c *fiber.Ctx) error {
	if h.properties == nil {
		return fiber.NewError(http.StatusServiceUnavailable, "search mirror not configured")
	}

	filter := repository.PropertyFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if status := c.Query("status"); status != "" {
		state := domain.PropertyState(status)
		if !domain.ValidPropertyState(state) {
			return fiber.NewError(http.StatusBadRequest, "unknown status")
		}
		filter.State = &state
	}
	if owner := c.Query("owner"); owner != "" {
		filter.Owner = &owner
	}
	if surveyID := c.Query("survey_id"); surveyID != "" {
		filter.SurveyID = &surveyID
	}
	if term := c.Query("q"); term != "" {
		filter.SearchTerm = &term
	}

	properties, err := h.properties.ListWithFilter(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":   dto.FromProperties(properties),
		"source": "mirror",
	})
}
