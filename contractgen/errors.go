package contractgen

import (
	"errors"
	"fmt"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

var (
	// ErrUnsupportedStandard é devolvido quando o padrão não está no registro.
	ErrUnsupportedStandard = errors.New("padrão de token não suportado")
	// ErrDuplicateTrancheID é devolvido quando duas tranches compartilham o mesmo ID.
	ErrDuplicateTrancheID = errors.New("id de tranche duplicado")
)

// UnsupportedStandardError identifica o padrão rejeitado.
type UnsupportedStandardError struct {
	Standard models.Standard
}

func (e *UnsupportedStandardError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedStandard, e.Standard)
}

func (e *UnsupportedStandardError) Is(target error) bool {
	return target == ErrUnsupportedStandard
}

// DuplicateTrancheIDError identifica o ID repetido.
type DuplicateTrancheIDError struct {
	ID int
}

func (e *DuplicateTrancheIDError) Error() string {
	return fmt.Sprintf("%s: %d", ErrDuplicateTrancheID, e.ID)
}

func (e *DuplicateTrancheIDError) Is(target error) bool {
	return target == ErrDuplicateTrancheID
}
