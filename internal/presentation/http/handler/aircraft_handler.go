package handler

import (
	"github.com/aerocrest/fbo-api/internal/application/service"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/request"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AircraftHandler handles classification and aircraft type admin requests
type AircraftHandler struct {
	aircraftService *service.AircraftService
}

func NewAircraftHandler(aircraftService *service.AircraftService) *AircraftHandler {
	return &AircraftHandler{aircraftService: aircraftService}
}

func (h *AircraftHandler) CreateClassification(c *gin.Context) {
	var req request.ClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	classification, err := h.aircraftService.CreateClassification(c.Request.Context(), &service.ClassificationInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Classification created successfully", classification)
}

func (h *AircraftHandler) ListClassifications(c *gin.Context) {
	classifications, err := h.aircraftService.ListClassifications(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Classifications retrieved successfully", classifications)
}

func (h *AircraftHandler) UpdateClassification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid classification ID")
		return
	}

	var req request.ClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	classification, err := h.aircraftService.UpdateClassification(c.Request.Context(), id, &service.ClassificationInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Classification updated successfully", classification)
}

func (h *AircraftHandler) DeleteClassification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid classification ID")
		return
	}

	if err := h.aircraftService.DeleteClassification(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *AircraftHandler) CreateType(c *gin.Context) {
	var req request.AircraftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	aircraftType, err := h.aircraftService.CreateType(c.Request.Context(), &service.AircraftTypeInput{
		ICAOCode:         req.ICAOCode,
		Name:             req.Name,
		ClassificationID: req.ClassificationID,
		MaxTakeoffWeight: req.MaxTakeoffWeight,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Aircraft type created successfully", aircraftType)
}

func (h *AircraftHandler) GetType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid aircraft type ID")
		return
	}

	aircraftType, err := h.aircraftService.GetType(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Aircraft type retrieved successfully", aircraftType)
}

// ListTypes lists aircraft types, optionally filtered by classification_id
func (h *AircraftHandler) ListTypes(c *gin.Context) {
	var classificationID *uuid.UUID
	if classStr := c.Query("classification_id"); classStr != "" {
		id, err := uuid.Parse(classStr)
		if err != nil {
			response.BadRequest(c, "Invalid classification_id")
			return
		}
		classificationID = &id
	}

	types, err := h.aircraftService.ListTypes(c.Request.Context(), classificationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Aircraft types retrieved successfully", types)
}

func (h *AircraftHandler) UpdateType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid aircraft type ID")
		return
	}

	var req request.AircraftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	aircraftType, err := h.aircraftService.UpdateType(c.Request.Context(), id, &service.AircraftTypeInput{
		ICAOCode:         req.ICAOCode,
		Name:             req.Name,
		ClassificationID: req.ClassificationID,
		MaxTakeoffWeight: req.MaxTakeoffWeight,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Aircraft type updated successfully", aircraftType)
}

func (h *AircraftHandler) DeleteType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid aircraft type ID")
		return
	}

	if err := h.aircraftService.DeleteType(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
