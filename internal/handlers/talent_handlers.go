package handlers

import (
	"net/http"

	"oa_backend/internal/repositories"
	"oa_backend/internal/services"
	"oa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TalentHandler serves the talent pool.
type TalentHandler struct {
	talentService services.TalentService
}

func NewTalentHandler(ts services.TalentService) *TalentHandler {
	return &TalentHandler{talentService: ts}
}

// GetTalents lists talents filtered by keyword, status and source.
func (h *TalentHandler) GetTalents(c *gin.Context) {
	status, ok := queryInt(c, "status")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	filter := repositories.TalentFilter{
		Keyword: c.Query("keyword"),
		Status:  status,
		Source:  c.Query("source"),
		Page:    page,
		Limit:   limit,
	}
	talents, total, err := h.talentService.List(filter)
	if err != nil {
		respondServiceError(c, err, "GetTalents")
		return
	}
	listResponse(c, talents, total, page, limit)
}

func (h *TalentHandler) GetTalent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	t, err := h.talentService.Get(id)
	if err != nil {
		respondServiceError(c, err, "GetTalent")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TalentHandler) CreateTalent(c *gin.Context) {
	var req services.TalentRequest
	if !bindJSON(c, &req, "CreateTalent") {
		return
	}
	t, err := h.talentService.Create(req)
	if err != nil {
		respondServiceError(c, err, "CreateTalent")
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TalentHandler) UpdateTalent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.TalentRequest
	if !bindJSON(c, &req, "UpdateTalent") {
		return
	}
	t, err := h.talentService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateTalent")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TalentHandler) DeleteTalent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.talentService.Delete(id); err != nil {
		respondServiceError(c, err, "DeleteTalent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Talent deleted successfully"})
}

func (h *TalentHandler) LinkRecruitment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.LinkRecruitmentRequest
	if !bindJSON(c, &req, "LinkRecruitment") {
		return
	}
	if err := h.talentService.LinkRecruitment(id, req); err != nil {
		respondServiceError(c, err, "LinkRecruitment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Talent linked to recruitment position"})
}

// ConvertToOnboarding turns a talent into an onboarding application.
func (h *TalentHandler) ConvertToOnboarding(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.ConvertToOnboardingRequest
	if !bindJSON(c, &req, "ConvertToOnboarding") {
		return
	}
	result, err := h.talentService.ConvertToOnboarding(id, req)
	if err != nil {
		respondServiceError(c, err, "ConvertToOnboarding")
		return
	}
	utils.LogInfo("talent converted to onboarding", map[string]interface{}{
		"talent_id": id, "onboarding_id": result.OnboardingID, "user_id": result.UserID, "user_created": result.UserCreated,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Talent converted to onboarding application",
		"onboarding_id": result.OnboardingID,
		"user_id":       result.UserID,
		"user_created":  result.UserCreated,
	})
}
