package handler

import (
	"github.com/aerocrest/fbo-api/internal/application/service"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/request"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FuelTypeHandler handles fuel type admin requests
type FuelTypeHandler struct {
	fuelTypeService *service.FuelTypeService
}

func NewFuelTypeHandler(fuelTypeService *service.FuelTypeService) *FuelTypeHandler {
	return &FuelTypeHandler{fuelTypeService: fuelTypeService}
}

func (h *FuelTypeHandler) Create(c *gin.Context) {
	var req request.FuelTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	fuelType, err := h.fuelTypeService.CreateFuelType(c.Request.Context(), &service.FuelTypeInput{
		Code:                  req.Code,
		Name:                  req.Name,
		CurrentPricePerGallon: req.CurrentPricePerGallon,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Fuel type created successfully", fuelType)
}

func (h *FuelTypeHandler) List(c *gin.Context) {
	fuelTypes, err := h.fuelTypeService.ListFuelTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fuel types retrieved successfully", fuelTypes)
}

func (h *FuelTypeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fuel type ID")
		return
	}

	var req request.FuelTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	fuelType, err := h.fuelTypeService.UpdateFuelType(c.Request.Context(), id, &service.FuelTypeInput{
		Code:                  req.Code,
		Name:                  req.Name,
		CurrentPricePerGallon: req.CurrentPricePerGallon,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fuel type updated successfully", fuelType)
}

// UpdatePrice changes the pump price only. Existing receipts keep their
// snapshotted price.
func (h *FuelTypeHandler) UpdatePrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fuel type ID")
		return
	}

	var req request.FuelPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	fuelType, err := h.fuelTypeService.UpdatePrice(c.Request.Context(), id, req.PricePerGallon)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fuel price updated successfully", fuelType)
}

func (h *FuelTypeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fuel type ID")
		return
	}

	if err := h.fuelTypeService.DeleteFuelType(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
