package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"oa_backend/internal/services"
	"oa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service sentinels onto API errors. Anything unrecognised
// is reported as a generic internal failure.
func respondServiceError(c *gin.Context, err error, op string) {
	utils.LogError(err, op)
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
	case errors.Is(err, services.ErrPreconditionFailed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodePreconditionFailed, err.Error(), ""))
	case errors.Is(err, services.ErrRecordNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Record not found.", err.Error()))
	case errors.Is(err, services.ErrInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Record is in use and cannot be deleted.", err.Error()))
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Record already exists.", err.Error()))
	default:
		utils.RespondInternalError(c, op+" failed.")
	}
}

// idParam reads the :id path parameter.
func idParam(c *gin.Context) (int64, bool) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid ID format.", c.Param("id")))
		return 0, false
	}
	return id, true
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, req interface{}, op string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.LogError(err, op+": Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return false
	}
	return true
}

// queryInt64 parses an optional integer query parameter.
func queryInt64(c *gin.Context, key string) (*int64, bool) {
	v, err := utils.OptionalInt64(c.Query(key))
	if err != nil {
		utils.RespondValidationFailed(c, key+" must be an integer")
		return nil, false
	}
	return v, true
}

func queryInt(c *gin.Context, key string) (*int, bool) {
	v, err := utils.OptionalInt(c.Query(key))
	if err != nil {
		utils.RespondValidationFailed(c, key+" must be an integer")
		return nil, false
	}
	return v, true
}

// queryString returns nil for an absent or blank parameter.
func queryString(c *gin.Context, key string) *string {
	return utils.NewNullString(c.Query(key))
}

// pageParams reads page/limit; unparsable values fall back to the defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return utils.NormalizePage(page, limit)
}

func listResponse(c *gin.Context, data interface{}, total, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data":  data,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
