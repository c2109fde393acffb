package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/contractgen"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/storage"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor traduz erros de domínio em códigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidSpecification),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidAllocation),
		errors.Is(err, services.ErrInvalidWalletAddress),
		errors.Is(err, services.ErrInvalidMintAddress):
		return http.StatusBadRequest
	case errors.Is(err, contractgen.ErrUnsupportedStandard),
		errors.Is(err, contractgen.ErrDuplicateTrancheID):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrTokenNotFound),
		errors.Is(err, services.ErrVersionNotFound),
		errors.Is(err, services.ErrTrancheNotFound),
		errors.Is(err, services.ErrAllocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyMinted),
		errors.Is(err, services.ErrMintNotRegistered),
		errors.Is(err, services.ErrAllocationNotMinted),
		errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError responde com o status mapeado; erros internos são logados e não expostos.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Erro interno ao processar requisição", zap.Error(err))
		http.Error(w, "erro interno", status)
		return
	}
	http.Error(w, err.Error(), status)
}
