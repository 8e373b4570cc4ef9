package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensetsu-dev/kensetsu/internal/employees"
)

type EmployeeHandlers struct {
	Service *employees.Service
}

func NewEmployeeHandlers(svc *employees.Service) *EmployeeHandlers {
	return &EmployeeHandlers{Service: svc}
}

// ListEmployees serves the assignee choices: active employees only.
func (h *EmployeeHandlers) ListEmployees(ctx *gin.Context) {
	emps, err := h.Service.ListActive(ctx.Request.Context())
	if err != nil {
		log.Printf("Failed to retrieve employees: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve employees"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"employees": emps})
}
