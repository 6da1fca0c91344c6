package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saddleworks/stablecare-backend/internal/http/response"
	"github.com/saddleworks/stablecare-backend/internal/services"
)

type IntakeHandler struct {
	intakeService services.IntakeService
}

func NewIntakeHandler(intakeService services.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

// Submit is the public intake form endpoint. It always answers success
// once the request is stored, even if the confirmation email fails.
func (ih *IntakeHandler) Submit(c *gin.Context) {
	var req services.IntakeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := ih.intakeService.Submit(c.Request.Context(), req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, res)
}
