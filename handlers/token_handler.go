package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
)

// TokenHandler lida com o design, o versionamento e a emissão de tokens.
type TokenHandler struct {
	Design  *services.TokenDesignService
	Minting *services.MintingService
	logger  *zap.Logger
}

func NewTokenHandler(design *services.TokenDesignService, minting *services.MintingService, logger *zap.Logger) *TokenHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenHandler{Design: design, Minting: minting, logger: logger}
}

func decodeSpec(w http.ResponseWriter, r *http.Request) (models.TokenSpecification, bool) {
	var spec models.TokenSpecification
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return spec, false
	}
	return spec, true
}

// PreviewDraft gera o contrato sem persistir.
// POST /tokens/preview
func (h *TokenHandler) PreviewDraft(w http.ResponseWriter, r *http.Request) {
	spec, ok := decodeSpec(w, r)
	if !ok {
		return
	}
	result, err := h.Design.PreviewDraft(spec)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateToken cria um token em rascunho com a versão 1.
// POST /tokens
func (h *TokenHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	spec, ok := decodeSpec(w, r)
	if !ok {
		return
	}
	result, err := h.Design.CreateToken(r.Context(), spec)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListTokens lista os tokens, com filtro opcional ?status=.
// GET /tokens
func (h *TokenHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	status := models.TokenStatus(r.URL.Query().Get("status"))
	tokens, err := h.Design.ListTokens(r.Context(), status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// GetToken obtém um token pelo ID.
// GET /tokens/{id}
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.Design.GetToken(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// UpdateToken substitui a especificação e gera uma nova versão.
// PUT /tokens/{id}
func (h *TokenHandler) UpdateToken(w http.ResponseWriter, r *http.Request) {
	spec, ok := decodeSpec(w, r)
	if !ok {
		return
	}
	result, err := h.Design.UpdateToken(r.Context(), chi.URLParam(r, "id"), spec)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListVersions devolve o histórico de versões.
// GET /tokens/{id}/versions
func (h *TokenHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.Design.ListVersions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

// GetVersion obtém uma versão específica.
// GET /tokens/{id}/versions/{version}
func (h *TokenHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || number <= 0 {
		http.Error(w, "Número de versão inválido", http.StatusBadRequest)
		return
	}
	version, err := h.Design.GetVersion(r.Context(), chi.URLParam(r, "id"), number)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

// Request struct para adicionar uma tranche; a taxa chega em percentual
type AddTrancheRequest struct {
	Name         string  `json:"name"`
	Value        uint64  `json:"value"`
	InterestRate float64 `json:"interest_rate"`
}

// AddTranche anexa uma tranche com o próximo ID livre.
// POST /tokens/{id}/tranches
func (h *TokenHandler) AddTranche(w http.ResponseWriter, r *http.Request) {
	var req AddTrancheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.InterestRate < 0 {
		http.Error(w, "Taxa de juros não pode ser negativa", http.StatusBadRequest)
		return
	}
	result, tranche, err := h.Design.AddTranche(r.Context(), chi.URLParam(r, "id"), req.Name, req.Value, req.InterestRate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Tranche models.Tranche `json:"tranche"`
		services.DraftResult
	}{Tranche: tranche, DraftResult: result})
}

// RemoveTranche remove uma tranche sem renumerar as demais.
// DELETE /tokens/{id}/tranches/{trancheID}
func (h *TokenHandler) RemoveTranche(w http.ResponseWriter, r *http.Request) {
	trancheID, err := strconv.Atoi(chi.URLParam(r, "trancheID"))
	if err != nil {
		http.Error(w, "ID de tranche inválido", http.StatusBadRequest)
		return
	}
	result, err := h.Design.RemoveTranche(r.Context(), chi.URLParam(r, "id"), trancheID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateStatus move o token no fluxo de aprovação.
// PATCH /tokens/{id}/status
func (h *TokenHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.TokenStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Design.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterMint associa o endereço do Mint na Solana ao token.
// POST /tokens/{id}/mint
func (h *TokenHandler) RegisterMint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MintAddress string `json:"mint_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	token, err := h.Minting.RegisterMint(r.Context(), chi.URLParam(r, "id"), req.MintAddress)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, token)
}

// VerifyMint consulta o supply on-chain imediatamente.
// POST /tokens/{id}/mint/verify
func (h *TokenHandler) VerifyMint(w http.ResponseWriter, r *http.Request) {
	token, err := h.Minting.VerifyMint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}
