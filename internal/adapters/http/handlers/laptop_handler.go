package handlers

import (
	"strconv"

	"lendtrack/internal/core/services"
	"lendtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LaptopHandler handles laptop inventory endpoints
type LaptopHandler struct {
	laptopService *services.LaptopService
}

// NewLaptopHandler creates a new laptop handler
func NewLaptopHandler(laptopService *services.LaptopService) *LaptopHandler {
	return &LaptopHandler{laptopService: laptopService}
}

// Create handles laptop creation
// @Summary Create laptop
// @Description Register a new laptop in the inventory
// @Tags Laptops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateLaptopInput true "Laptop data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /laptops [post]
func (h *LaptopHandler) Create(c *fiber.Ctx) error {
	var input services.CreateLaptopInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	laptop, err := h.laptopService.Create(c.Context(), &input)
	if err != nil {
		return respondDomainError(c, err, "Failed to create laptop")
	}

	return response.Created(c, "Laptop created successfully", laptop)
}

// GetAll handles listing all laptops
// @Summary List laptops
// @Description List all laptops in the inventory
// @Tags Laptops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /laptops [get]
func (h *LaptopHandler) GetAll(c *fiber.Ctx) error {
	laptops, err := h.laptopService.GetAll(c.Context())
	if err != nil {
		return respondDomainError(c, err, "Failed to list laptops")
	}

	return response.Success(c, "Laptops retrieved successfully", laptops)
}

// GetByID handles getting a laptop by ID
// @Summary Get laptop
// @Description Get a laptop by ID
// @Tags Laptops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Laptop ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /laptops/{id} [get]
func (h *LaptopHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid laptop ID")
	}

	laptop, err := h.laptopService.GetByID(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err, "Failed to get laptop")
	}

	return response.Success(c, "Laptop retrieved successfully", laptop)
}

// Update handles updating a laptop
// @Summary Update laptop
// @Description Update laptop fields. Status Distributed is owned by the distribution lifecycle and cannot be set here.
// @Tags Laptops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Laptop ID"
// @Param body body services.UpdateLaptopInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /laptops/{id} [put]
func (h *LaptopHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid laptop ID")
	}

	var input services.UpdateLaptopInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	laptop, err := h.laptopService.Update(c.Context(), id, &input)
	if err != nil {
		return respondDomainError(c, err, "Failed to update laptop")
	}

	return response.Success(c, "Laptop updated successfully", laptop)
}

// Delete handles deleting a laptop
// @Summary Delete laptop
// @Description Remove a laptop from the inventory
// @Tags Laptops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Laptop ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /laptops/{id} [delete]
func (h *LaptopHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid laptop ID")
	}

	if err := h.laptopService.Delete(c.Context(), id); err != nil {
		return respondDomainError(c, err, "Failed to delete laptop")
	}

	return response.Success(c, "Laptop deleted successfully", nil)
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *fiber.Ctx) (uint, error) {
	return parseParamUint(c, "id")
}

func parseParamUint(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
