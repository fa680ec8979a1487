package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/heladeria/flavor-catalog/internal/app/service"
	apperrors "github.com/heladeria/flavor-catalog/internal/errors"
	"github.com/heladeria/flavor-catalog/internal/middleware"
	"github.com/heladeria/flavor-catalog/pkg/logger"
)

type FlavorController struct {
	flavorService service.FlavorService
}

func NewFlavorController(flavorService service.FlavorService) *FlavorController {
	return &FlavorController{
		flavorService: flavorService,
	}
}

type ListFlavorsQuery struct {
	Available *bool `form:"available"`
}

// ListFlavors returns every flavor; ?available=true or ?available=false
// narrows the list to flavors with that availability
// GET /api/flavors
func (ctrl *FlavorController) ListFlavors(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var query ListFlavorsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.Warn("Invalid flavor list query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "available must be true or false")
		return
	}

	opts := service.ListOptions{Available: query.Available}
	flavors, err := ctrl.flavorService.ListFlavors(c.Request.Context(), opts)
	if err != nil {
		log.Error("Failed to fetch flavors", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list flavors")
		return
	}

	log.Debug("Flavors fetched successfully", map[string]interface{}{
		"count": len(flavors),
	})
	c.JSON(http.StatusOK, flavors)
}

// GetFlavor returns a flavor by ID
// GET /api/flavors/:id
func (ctrl *FlavorController) GetFlavor(c *gin.Context) {
	id, ok := parseFlavorID(c)
	if !ok {
		return
	}

	flavor, err := ctrl.flavorService.GetFlavor(c.Request.Context(), id)
	if err != nil {
		respondFlavorError(c, err, "get flavor")
		return
	}
	c.JSON(http.StatusOK, flavor)
}

// CreateFlavor creates a flavor; name and price are required
// POST /api/flavors
func (ctrl *FlavorController) CreateFlavor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.FlavorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid flavor creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Request body must be a JSON object with name (string) and price (number)")
		return
	}

	flavor, err := ctrl.flavorService.CreateFlavor(c.Request.Context(), req)
	if err != nil {
		respondFlavorError(c, err, "create flavor")
		return
	}

	log.Info("Flavor created successfully", map[string]interface{}{
		"flavor_id": flavor.ID,
		"name":      flavor.Name,
	})
	c.JSON(http.StatusCreated, flavor)
}

// UpdateFlavor changes only the fields present in the body
// PUT /api/flavors/:id
func (ctrl *FlavorController) UpdateFlavor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseFlavorID(c)
	if !ok {
		return
	}

	var req service.FlavorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid flavor update request", map[string]interface{}{
			"flavor_id": id,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Request body must be a JSON object with the fields to update")
		return
	}

	flavor, err := ctrl.flavorService.UpdateFlavor(c.Request.Context(), id, req)
	if err != nil {
		respondFlavorError(c, err, "update flavor")
		return
	}

	log.Info("Flavor updated successfully", map[string]interface{}{
		"flavor_id": flavor.ID,
	})
	c.JSON(http.StatusOK, flavor)
}

// DeleteFlavor removes a flavor permanently
// DELETE /api/flavors/:id
func (ctrl *FlavorController) DeleteFlavor(c *gin.Context) {
	id, ok := parseFlavorID(c)
	if !ok {
		return
	}

	if _, err := ctrl.flavorService.DeleteFlavor(c.Request.Context(), id); err != nil {
		respondFlavorError(c, err, "delete flavor")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Flavor deleted successfully", map[string]interface{}{
		"flavor_id": id,
	})
	c.Status(http.StatusNoContent)
}

func parseFlavorID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid flavor ID format", map[string]interface{}{
			"flavor_id": idStr,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid flavor ID")
		return 0, false
	}
	return uint(id), true
}

// respondFlavorError maps service errors onto status codes and error bodies.
func respondFlavorError(c *gin.Context, err error, context string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		apperrors.RespondWithValidationError(c, validationCode(vErr), vErr.Message, map[string]string{
			vErr.Field: vErr.Message,
		})
	case errors.Is(err, service.ErrFlavorNotFound):
		apperrors.NotFound(c, apperrors.FlavorNotFound, "Flavor not found")
	case errors.Is(err, service.ErrFlavorNameTaken):
		apperrors.Conflict(c, apperrors.FlavorNameExists, "A flavor with that name already exists")
	default:
		middleware.GetLoggerFromContext(c).Error("Unexpected flavor error", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

func validationCode(vErr *service.ValidationError) string {
	switch {
	case strings.HasSuffix(vErr.Message, "is required"):
		return apperrors.ValidationRequired
	case vErr.Field == "price":
		return apperrors.ValidationInvalidRange
	default:
		return apperrors.ValidationInvalidInput
	}
}

// flavorErrorMessage renders err as a flash-friendly sentence.
func flavorErrorMessage(err error) string {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return "Error: " + vErr.Message + "."
	case errors.Is(err, service.ErrFlavorNotFound):
		return "Error: flavor not found."
	case errors.Is(err, service.ErrFlavorNameTaken):
		return "Error: a flavor with that name already exists."
	default:
		logger.Error("Unexpected flavor error", err)
		return "Error: " + apperrors.ParseError(err, "save flavor").Message + "."
	}
}

func flavorErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidFlavor):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFlavorNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrFlavorNameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
