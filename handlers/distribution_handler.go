package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
)

// DistributionHandler registra entregas de tokens emitidos aos investidores.
type DistributionHandler struct {
	Service *services.CapTableService
	logger  *zap.Logger
}

func NewDistributionHandler(s *services.CapTableService, logger *zap.Logger) *DistributionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistributionHandler{Service: s, logger: logger}
}

// Request struct para registrar uma distribuição
type CreateDistributionRequest struct {
	AllocationID    string `json:"allocation_id"`
	WalletAddress   string `json:"wallet_address"`
	TransactionHash string `json:"transaction_hash"`
}

// CreateDistribution distribui uma alocação já emitida.
// POST /distributions
func (h *DistributionHandler) CreateDistribution(w http.ResponseWriter, r *http.Request) {
	var req CreateDistributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AllocationID == "" {
		http.Error(w, "ID da alocação é obrigatório", http.StatusBadRequest)
		return
	}
	dist, err := h.Service.CreateDistribution(r.Context(), req.AllocationID, req.WalletAddress, req.TransactionHash)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dist)
}

// ListDistributions lista distribuições.
// GET /distributions?tokenId=
func (h *DistributionHandler) ListDistributions(w http.ResponseWriter, r *http.Request) {
	dists, err := h.Service.ListDistributions(r.Context(), r.URL.Query().Get("tokenId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dists)
}
