package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
)

// AllocationHandler lida com as alocações de investidores e o resumo do cap table.
type AllocationHandler struct {
	Service *services.CapTableService
	logger  *zap.Logger
}

func NewAllocationHandler(s *services.CapTableService, logger *zap.Logger) *AllocationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationHandler{Service: s, logger: logger}
}

// CreateAllocation registra uma alocação pendente.
// POST /allocations
func (h *AllocationHandler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req services.AllocationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	allocation, err := h.Service.CreateAllocation(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, allocation)
}

// ListAllocations lista alocações.
// GET /allocations?status=&search=&tokenId=
func (h *AllocationHandler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.AllocationFilter{
		Status:  models.AllocationStatus(q.Get("status")),
		TokenID: q.Get("tokenId"),
		Search:  q.Get("search"),
	}
	allocations, err := h.Service.ListAllocations(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, allocations)
}

// Request struct para atualização de status em lote
type BulkStatusRequest struct {
	IDs    []string                `json:"ids"`
	Status models.AllocationStatus `json:"status"`
}

// BulkUpdateStatus aplica um status a várias alocações.
// PATCH /allocations/status
func (h *AllocationHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req BulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.Service.BulkUpdateStatus(r.Context(), req.IDs, req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

// Summary devolve os totais do cap table.
// GET /captable/summary
func (h *AllocationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
