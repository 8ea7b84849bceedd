package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartlex/lexml/internal/application/assessment"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/pkg/errors"
	typescontract "github.com/smartlex/lexml/pkg/types/contract"
)

// AnalysisHandler serves the contract analysis endpoints.
type AnalysisHandler struct {
	svc *assessment.Service
	log logging.Logger
}

// NewAnalysisHandler builds the handler.
func NewAnalysisHandler(svc *assessment.Service, log logging.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, log: log.Named("analysis_handler")}
}

// Analyze handles POST /api/v1/contracts/analyze.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req typescontract.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(c, errors.New(errors.ErrCodeContractEmptyText, "contract text cannot be empty"))
		return
	}

	report, err := h.svc.Analyze(c.Request.Context(), req.Text, req.ShouldPersist())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

// History handles GET /api/v1/contracts/history?limit=N.
func (h *AnalysisHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, errors.New(errors.ErrCodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	entries, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, typescontract.HistoryResponse{Entries: entries, Count: len(entries)})
}
