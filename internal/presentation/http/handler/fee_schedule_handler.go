package handler

import (
	"github.com/aerocrest/fbo-api/internal/application/service"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/request"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FeeScheduleHandler handles fee rule and override admin requests
type FeeScheduleHandler struct {
	feeScheduleService *service.FeeScheduleService
}

// NewFeeScheduleHandler creates a new fee schedule handler
func NewFeeScheduleHandler(feeScheduleService *service.FeeScheduleService) *FeeScheduleHandler {
	return &FeeScheduleHandler{feeScheduleService: feeScheduleService}
}

// CreateFeeRule handles creating a new fee rule
func (h *FeeScheduleHandler) CreateFeeRule(c *gin.Context) {
	var req request.FeeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rule, err := h.feeScheduleService.CreateFeeRule(c.Request.Context(), feeRuleInputFrom(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Fee rule created successfully", rule)
}

// GetFeeRule handles retrieving a fee rule with its overrides
func (h *FeeScheduleHandler) GetFeeRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee rule ID")
		return
	}

	rule, err := h.feeScheduleService.GetFeeRule(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee rule retrieved successfully", rule)
}

// ListFeeRules handles listing all fee rules
func (h *FeeScheduleHandler) ListFeeRules(c *gin.Context) {
	rules, err := h.feeScheduleService.ListFeeRules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee rules retrieved successfully", rules)
}

// UpdateFeeRule handles updating a fee rule
func (h *FeeScheduleHandler) UpdateFeeRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee rule ID")
		return
	}

	var req request.FeeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rule, err := h.feeScheduleService.UpdateFeeRule(c.Request.Context(), id, feeRuleInputFrom(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee rule updated successfully", rule)
}

// DeleteFeeRule handles deleting a fee rule
func (h *FeeScheduleHandler) DeleteFeeRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee rule ID")
		return
	}

	if err := h.feeScheduleService.DeleteFeeRule(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListOverrides lists the overrides attached to a fee rule
// EffectiveAmount resolves the amount a fee rule would charge, applying the
// aircraft's override chain (aircraft > classification > base).
func (h *FeeScheduleHandler) EffectiveAmount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee rule ID")
		return
	}

	var aircraftTypeID *uuid.UUID
	if raw := c.Query("aircraft_type_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid aircraft type ID")
			return
		}
		aircraftTypeID = &parsed
	}

	amount, err := h.feeScheduleService.GetEffectiveAmount(c.Request.Context(), id, aircraftTypeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Effective amount resolved successfully", gin.H{
		"fee_rule_id":      id,
		"aircraft_type_id": aircraftTypeID,
		"effective_amount": amount,
	})
}

// ListForClassification lists the fee rules applicable to a classification
func (h *FeeScheduleHandler) ListForClassification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid classification ID")
		return
	}

	rules, err := h.feeScheduleService.ListRulesForClassification(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee rules retrieved successfully", rules)
}

func (h *FeeScheduleHandler) ListOverrides(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee rule ID")
		return
	}

	overrides, err := h.feeScheduleService.ListOverrides(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overrides retrieved successfully", overrides)
}

// UpsertOverride creates or replaces an override for a classification or
// aircraft type target
func (h *FeeScheduleHandler) UpsertOverride(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee rule ID")
		return
	}

	var req request.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	override, err := h.feeScheduleService.UpsertOverride(c.Request.Context(), &service.OverrideInput{
		FeeRuleID:        id,
		ClassificationID: req.ClassificationID,
		AircraftTypeID:   req.AircraftTypeID,
		OverrideAmount:   req.OverrideAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Override saved successfully", override)
}

// BatchUpsertOverrides applies a set of override upserts in one transaction
func (h *FeeScheduleHandler) BatchUpsertOverrides(c *gin.Context) {
	var req request.BatchOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	inputs := make([]service.OverrideInput, 0, len(req.Overrides))
	for _, o := range req.Overrides {
		inputs = append(inputs, service.OverrideInput{
			FeeRuleID:        o.FeeRuleID,
			ClassificationID: o.ClassificationID,
			AircraftTypeID:   o.AircraftTypeID,
			OverrideAmount:   o.OverrideAmount,
		})
	}

	overrides, err := h.feeScheduleService.BatchUpsertOverrides(c.Request.Context(), inputs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overrides saved successfully", overrides)
}

// DeleteOverride deletes a single override
func (h *FeeScheduleHandler) DeleteOverride(c *gin.Context) {
	overrideID, err := uuid.Parse(c.Param("override_id"))
	if err != nil {
		response.BadRequest(c, "Invalid override ID")
		return
	}

	if err := h.feeScheduleService.DeleteOverride(c.Request.Context(), overrideID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func feeRuleInputFrom(req *request.FeeRuleRequest) *service.FeeRuleInput {
	return &service.FeeRuleInput{
		FeeCode:                     req.FeeCode,
		Description:                 req.Description,
		ClassificationID:            req.ClassificationID,
		Amount:                      req.Amount,
		CalculationBasis:            req.CalculationBasis,
		IsWaivableByFuelUplift:      req.IsWaivableByFuelUplift,
		WaiverMinimumFuelGallons:    req.WaiverMinimumFuelGallons,
		HasCAAOverride:              req.HasCAAOverride,
		CAAOverrideAmount:           req.CAAOverrideAmount,
		CAAWaiverMinimumFuelGallons: req.CAAWaiverMinimumFuelGallons,
	}
}
