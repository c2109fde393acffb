package contractgen

import (
	"strings"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

// Fragment é um trecho do corpo gerado por uma regra.
type Fragment struct {
	FragmentID string `json:"fragment_id"`
	Text       string `json:"text"`
}

// ContractDraft é o artefato final. É sempre criado do zero a cada geração.
type ContractDraft struct {
	Standard            models.Standard `json:"standard"`
	HeaderText          string          `json:"header_text"` // cabeçalho + construtor
	BodyFragments       []Fragment      `json:"body_fragments"`
	TrancheStatements   []string        `json:"tranche_statements,omitempty"`
	FooterText          string          `json:"footer_text"`
	FullText            string          `json:"full_text"`
	IncludedFragmentIDs []string        `json:"included_fragment_ids"`
	IgnoredBlocks       []string        `json:"ignored_blocks,omitempty"`
	Warnings            []Warning       `json:"warnings,omitempty"`
}

// HasWarning indica se o rascunho carrega o aviso com o código informado.
func (d ContractDraft) HasWarning(code string) bool {
	for _, w := range d.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// assemble concatena cabeçalho ⧺ fragmentos ⧺ instruções de tranche ⧺ rodapé.
func assemble(standard models.Standard, header string, fragments []Fragment, slots *SlotTemplate, statements []string, footer string) ContractDraft {
	var b strings.Builder
	b.WriteString(header)

	body := make([]Fragment, 0, len(fragments))
	ids := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if !strings.HasSuffix(f.Text, "\n") {
			f.Text += "\n"
		}
		b.WriteString(f.Text)
		body = append(body, f)
		ids = append(ids, f.FragmentID)
	}

	if slots != nil && len(statements) > 0 {
		b.WriteString(slots.Open)
		b.WriteString(FormatList(statements, func(s string) string { return s }))
		b.WriteString(slots.Close)
	}
	b.WriteString(footer)

	return ContractDraft{
		Standard:            standard,
		HeaderText:          header,
		BodyFragments:       body,
		TrancheStatements:   statements,
		FooterText:          footer,
		FullText:            b.String(),
		IncludedFragmentIDs: ids,
	}
}
