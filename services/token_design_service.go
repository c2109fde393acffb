package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/contractgen"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

var (
	ErrInvalidSpecification = errors.New("especificação de token inválida")
	ErrTokenNotFound        = errors.New("token não encontrado")
	ErrVersionNotFound      = errors.New("versão não encontrada")
	ErrTrancheNotFound      = errors.New("tranche não encontrada")
	ErrInvalidStatus        = errors.New("status inválido")
)

// TokenStore é a parte do storage.DB usada pelo fluxo de design de tokens.
type TokenStore interface {
	SaveToken(ctx context.Context, token models.TokenRecord, version *models.TokenVersion) error
	GetToken(ctx context.Context, id string) (models.TokenRecord, bool, error)
	ListTokens(ctx context.Context, status models.TokenStatus, limit int) ([]models.TokenRecord, error)
	UpdateTokenStatus(ctx context.Context, id string, status models.TokenStatus) (bool, error)
	LatestVersionNumber(ctx context.Context, tokenID string) (int, error)
	ListVersions(ctx context.Context, tokenID string) ([]models.TokenVersion, error)
	GetVersion(ctx context.Context, tokenID string, number int) (models.TokenVersion, bool, error)
}

// DraftResult junta o registro persistido, o rascunho gerado e a checagem de tranches.
type DraftResult struct {
	Token      models.TokenRecord        `json:"token"`
	Draft      contractgen.ContractDraft `json:"draft"`
	TrancheSum contractgen.TrancheSum    `json:"tranche_sum"`
}

// TokenDesignService orquestra geração de contrato, persistência e histórico de versões.
type TokenDesignService struct {
	DB       TokenStore
	Composer *contractgen.Composer
	logger   *zap.Logger
	now      func() time.Time
}

// NewTokenDesignService cria o serviço. composer nil usa o registro padrão.
func NewTokenDesignService(db TokenStore, composer *contractgen.Composer, logger *zap.Logger) *TokenDesignService {
	if composer == nil {
		composer = contractgen.NewComposer(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenDesignService{DB: db, Composer: composer, logger: logger, now: time.Now}
}

// ValidateSpecification checa os campos obrigatórios antes da geração.
func ValidateSpecification(spec models.TokenSpecification) error {
	var problems []string
	if strings.TrimSpace(spec.Name) == "" {
		problems = append(problems, "nome é obrigatório")
	}
	if strings.TrimSpace(spec.Symbol) == "" {
		problems = append(problems, "símbolo é obrigatório")
	}
	if spec.Decimals < 0 || spec.Decimals > models.MaxDecimals {
		problems = append(problems, fmt.Sprintf("decimals deve estar entre 0 e %d", models.MaxDecimals))
	}
	if spec.Standard == "" {
		problems = append(problems, "padrão é obrigatório")
	}
	if spec.Metadata.ConversionRate < 0 || math.IsNaN(spec.Metadata.ConversionRate) || math.IsInf(spec.Metadata.ConversionRate, 0) {
		problems = append(problems, "conversion_rate deve ser um número não negativo")
	}
	for _, t := range spec.Metadata.Tranches {
		if t.ID <= 0 {
			problems = append(problems, fmt.Sprintf("tranche %q precisa de id positivo", t.Name))
		}
		if t.InterestRateBasisPoints < 0 {
			problems = append(problems, fmt.Sprintf("tranche %d com interest_rate_bps negativo", t.ID))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSpecification, strings.Join(problems, "; "))
	}
	return nil
}

// PreviewDraft gera o rascunho sem persistir nada.
func (s *TokenDesignService) PreviewDraft(spec models.TokenSpecification) (DraftResult, error) {
	if err := ValidateSpecification(spec); err != nil {
		return DraftResult{}, err
	}
	draft, err := s.Composer.Compose(spec)
	if err != nil {
		return DraftResult{}, err
	}
	return DraftResult{Draft: draft, TrancheSum: s.Composer.CheckTrancheSum(spec)}, nil
}

// CreateToken gera o contrato, grava o token como rascunho e abre a versão 1.
func (s *TokenDesignService) CreateToken(ctx context.Context, spec models.TokenSpecification) (DraftResult, error) {
	result, err := s.PreviewDraft(spec)
	if err != nil {
		return DraftResult{}, err
	}

	now := s.now().UTC()
	token := models.TokenRecord{
		ID:           uuid.New().String(),
		Name:         spec.Name,
		Symbol:       spec.Symbol,
		Standard:     spec.Standard,
		Spec:         spec,
		ContractText: result.Draft.FullText,
		Status:       models.TokenStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	version := s.newVersion(token.ID, 1, spec, now)

	if err := s.DB.SaveToken(ctx, token, &version); err != nil {
		return DraftResult{}, fmt.Errorf("falha ao salvar token: %w", err)
	}
	s.logger.Info("Token criado",
		zap.String("token_id", token.ID),
		zap.String("standard", string(spec.Standard)),
		zap.Strings("fragments", result.Draft.IncludedFragmentIDs))

	result.Token = token
	return result, nil
}

// UpdateToken substitui a especificação, regenera o contrato e anexa uma nova versão.
func (s *TokenDesignService) UpdateToken(ctx context.Context, id string, spec models.TokenSpecification) (DraftResult, error) {
	token, err := s.GetToken(ctx, id)
	if err != nil {
		return DraftResult{}, err
	}
	return s.saveRevision(ctx, token, spec)
}

// AddTranche anexa uma tranche com ID max+1; a taxa chega em percentual.
func (s *TokenDesignService) AddTranche(ctx context.Context, id, name string, value uint64, ratePercent float64) (DraftResult, models.Tranche, error) {
	token, err := s.GetToken(ctx, id)
	if err != nil {
		return DraftResult{}, models.Tranche{}, err
	}
	bps := contractgen.ToBasisPoints(ratePercent)
	if bps < 0 || bps > math.MaxInt32 || math.IsNaN(ratePercent) {
		return DraftResult{}, models.Tranche{}, fmt.Errorf("%w: taxa de juros fora do intervalo: %v", ErrInvalidSpecification, ratePercent)
	}
	spec := cloneSpec(token.Spec)
	tranche := spec.AddTranche(strings.TrimSpace(name), value, int(bps))

	result, err := s.saveRevision(ctx, token, spec)
	if err != nil {
		return DraftResult{}, models.Tranche{}, err
	}
	return result, tranche, nil
}

// RemoveTranche remove a tranche sem renumerar as demais.
func (s *TokenDesignService) RemoveTranche(ctx context.Context, id string, trancheID int) (DraftResult, error) {
	token, err := s.GetToken(ctx, id)
	if err != nil {
		return DraftResult{}, err
	}
	spec := cloneSpec(token.Spec)
	if !spec.RemoveTranche(trancheID) {
		return DraftResult{}, fmt.Errorf("%w: %d", ErrTrancheNotFound, trancheID)
	}
	return s.saveRevision(ctx, token, spec)
}

// RestoreVersion reaplica o snapshot de uma versão antiga como uma nova versão.
func (s *TokenDesignService) RestoreVersion(ctx context.Context, id string, number int) (DraftResult, error) {
	token, err := s.GetToken(ctx, id)
	if err != nil {
		return DraftResult{}, err
	}
	version, err := s.GetVersion(ctx, id, number)
	if err != nil {
		return DraftResult{}, err
	}
	return s.saveRevision(ctx, token, version.Spec)
}

// RegenerateDraft recompõe o contrato a partir da especificação salva, sem gravar.
func (s *TokenDesignService) RegenerateDraft(ctx context.Context, id string) (DraftResult, error) {
	token, err := s.GetToken(ctx, id)
	if err != nil {
		return DraftResult{}, err
	}
	draft, err := s.Composer.Compose(token.Spec)
	if err != nil {
		return DraftResult{}, err
	}
	return DraftResult{Token: token, Draft: draft, TrancheSum: s.Composer.CheckTrancheSum(token.Spec)}, nil
}

// saveRevision não altera o status: ele é gravado só por UpdateStatus e pelo fluxo de emissão.
func (s *TokenDesignService) saveRevision(ctx context.Context, token models.TokenRecord, spec models.TokenSpecification) (DraftResult, error) {
	if token.Status == models.TokenStatusMinted {
		return DraftResult{}, ErrAlreadyMinted
	}
	result, err := s.PreviewDraft(spec)
	if err != nil {
		return DraftResult{}, err
	}

	latest, err := s.DB.LatestVersionNumber(ctx, token.ID)
	if err != nil {
		return DraftResult{}, fmt.Errorf("falha ao buscar última versão: %w", err)
	}

	now := s.now().UTC()
	token.Name = spec.Name
	token.Symbol = spec.Symbol
	token.Standard = spec.Standard
	token.Spec = spec
	token.ContractText = result.Draft.FullText
	token.UpdatedAt = now
	version := s.newVersion(token.ID, latest+1, spec, now)

	if err := s.DB.SaveToken(ctx, token, &version); err != nil {
		return DraftResult{}, fmt.Errorf("falha ao salvar revisão do token: %w", err)
	}
	s.logger.Info("Token revisado",
		zap.String("token_id", token.ID),
		zap.Int("version", version.VersionNumber),
		zap.Bool("tranche_sum_matches", result.TrancheSum.Matches))

	result.Token = token
	return result, nil
}

func (s *TokenDesignService) newVersion(tokenID string, number int, spec models.TokenSpecification, at time.Time) models.TokenVersion {
	return models.TokenVersion{
		ID:            uuid.New().String(),
		TokenID:       tokenID,
		VersionNumber: number,
		Spec:          spec,
		CreatedAt:     at,
	}
}

// GetToken busca o token ou devolve ErrTokenNotFound. IDs que não são UUID nunca existem.
func (s *TokenDesignService) GetToken(ctx context.Context, id string) (models.TokenRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.TokenRecord{}, ErrTokenNotFound
	}
	token, found, err := s.DB.GetToken(ctx, id)
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("erro ao buscar token: %w", err)
	}
	if !found {
		return models.TokenRecord{}, ErrTokenNotFound
	}
	return token, nil
}

// ListTokens lista tokens, opcionalmente por status.
func (s *TokenDesignService) ListTokens(ctx context.Context, status models.TokenStatus) ([]models.TokenRecord, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.DB.ListTokens(ctx, status, 0)
}

// UpdateStatus move o token para outra etapa do fluxo.
func (s *TokenDesignService) UpdateStatus(ctx context.Context, id string, status models.TokenStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrTokenNotFound
	}
	found, err := s.DB.UpdateTokenStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !found {
		return ErrTokenNotFound
	}
	s.logger.Info("Status do token alterado", zap.String("token_id", id), zap.String("status", string(status)))
	return nil
}

// ListVersions devolve o histórico do token.
func (s *TokenDesignService) ListVersions(ctx context.Context, id string) ([]models.TokenVersion, error) {
	if _, err := s.GetToken(ctx, id); err != nil {
		return nil, err
	}
	return s.DB.ListVersions(ctx, id)
}

// GetVersion busca uma versão específica.
func (s *TokenDesignService) GetVersion(ctx context.Context, id string, number int) (models.TokenVersion, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.TokenVersion{}, ErrTokenNotFound
	}
	version, found, err := s.DB.GetVersion(ctx, id, number)
	if err != nil {
		return models.TokenVersion{}, err
	}
	if !found {
		return models.TokenVersion{}, fmt.Errorf("%w: %d", ErrVersionNotFound, number)
	}
	return version, nil
}

// cloneSpec copia as fatias para que edições não alterem o registro carregado.
func cloneSpec(spec models.TokenSpecification) models.TokenSpecification {
	out := spec
	out.Blocks.Compliance = append([]string(nil), spec.Blocks.Compliance...)
	out.Blocks.Features = append([]string(nil), spec.Blocks.Features...)
	out.Blocks.Governance = append([]string(nil), spec.Blocks.Governance...)
	out.Metadata.Tranches = append([]models.Tranche(nil), spec.Metadata.Tranches...)
	out.Metadata.JurisdictionRestrictions = append([]string(nil), spec.Metadata.JurisdictionRestrictions...)
	return out
}
