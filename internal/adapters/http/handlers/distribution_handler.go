package handlers

import (
	"lendtrack/internal/core/services"
	"lendtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DistributionHandler handles distribution lifecycle endpoints
type DistributionHandler struct {
	distService *services.DistributionService
}

// NewDistributionHandler creates a new distribution handler
func NewDistributionHandler(distService *services.DistributionService) *DistributionHandler {
	return &DistributionHandler{distService: distService}
}

// ReturnRequest represents the return request body
type ReturnRequest struct {
	Notes string `json:"notes,omitempty"`
}

// Distribute handles handing a laptop to a recipient
// @Summary Distribute laptop
// @Description Hand an available laptop to a recipient. Creates the distribution record and flips the laptop to Distributed atomically.
// @Tags Distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DistributeInput true "Distribution data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /distributions [post]
func (h *DistributionHandler) Distribute(c *fiber.Ctx) error {
	var input services.DistributeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	dist, err := h.distService.Distribute(c.Context(), &input)
	if err != nil {
		return respondDomainError(c, err, "Failed to distribute laptop")
	}

	return response.Created(c, "Laptop distributed successfully", dist)
}

// Return handles closing a distribution record
// @Summary Return laptop
// @Description Close an open distribution record and make the laptop Available again, atomically.
// @Tags Distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Distribution ID"
// @Param body body ReturnRequest false "Return notes"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /distributions/{id}/return [post]
func (h *DistributionHandler) Return(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid distribution ID")
	}

	var req ReturnRequest
	// body is optional
	_ = c.BodyParser(&req)

	dist, err := h.distService.Return(c.Context(), id, req.Notes)
	if err != nil {
		return respondDomainError(c, err, "Failed to return laptop")
	}

	return response.Success(c, "Laptop returned successfully", dist)
}

// GetAll handles listing all distribution records
// @Summary List distributions
// @Description List all distribution records, newest first
// @Tags Distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /distributions [get]
func (h *DistributionHandler) GetAll(c *fiber.Ctx) error {
	dists, err := h.distService.GetAll(c.Context())
	if err != nil {
		return respondDomainError(c, err, "Failed to list distributions")
	}

	return response.Success(c, "Distributions retrieved successfully", dists)
}

// GetByID handles getting a distribution record by ID
// @Summary Get distribution
// @Description Get a distribution record by ID
// @Tags Distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Distribution ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /distributions/{id} [get]
func (h *DistributionHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid distribution ID")
	}

	dist, err := h.distService.GetByID(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err, "Failed to get distribution")
	}

	return response.Success(c, "Distribution retrieved successfully", dist)
}

// GetByLaptopID handles getting the distribution history of a laptop
// @Summary Laptop distribution history
// @Description List the distribution records of one laptop, newest first
// @Tags Distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laptopId path int true "Laptop ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /distributions/laptop/{laptopId} [get]
func (h *DistributionHandler) GetByLaptopID(c *fiber.Ctx) error {
	laptopID, err := parseParamUint(c, "laptopId")
	if err != nil {
		return response.BadRequest(c, "Invalid laptop ID")
	}

	dists, err := h.distService.GetByLaptopID(c.Context(), laptopID)
	if err != nil {
		return respondDomainError(c, err, "Failed to get distribution history")
	}

	return response.Success(c, "Distribution history retrieved successfully", dists)
}

// Update handles a partial update of a distribution record
// @Summary Update distribution
// @Description Update distribution fields. laptop_id and date_distributed are immutable. Setting date_returned on an open record also makes the laptop Available.
// @Tags Distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Distribution ID"
// @Param body body services.UpdateDistributionInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /distributions/{id} [put]
func (h *DistributionHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid distribution ID")
	}

	var input services.UpdateDistributionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	dist, err := h.distService.Update(c.Context(), id, &input)
	if err != nil {
		return respondDomainError(c, err, "Failed to update distribution")
	}

	return response.Success(c, "Distribution updated successfully", dist)
}

// Delete handles deleting a distribution record
// @Summary Delete distribution
// @Description Remove a distribution record. Admin only. Does not touch the laptop status.
// @Tags Distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Distribution ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /distributions/{id} [delete]
func (h *DistributionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid distribution ID")
	}

	if err := h.distService.Delete(c.Context(), id); err != nil {
		return respondDomainError(c, err, "Failed to delete distribution")
	}

	return response.Success(c, "Distribution deleted successfully", nil)
}
