package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/contractgen"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/services"
)

func newDraftCmd() *cobra.Command {
	var specPath, outPath string
	c := &cobra.Command{
		Use:   "draft",
		Short: "Gera o rascunho do contrato a partir de uma especificação YAML, sem banco",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := loadSpec(specPath)
			if err != nil {
				return err
			}
			result, err := services.NewTokenDesignService(nil, nil, nil).PreviewDraft(spec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("falha ao criar %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}
			if _, err := io.WriteString(out, result.Draft.FullText); err != nil {
				return err
			}
			reportDraft(cmd.ErrOrStderr(), result.Draft)
			return nil
		},
	}
	c.Flags().StringVar(&specPath, "spec", "", "arquivo YAML com a especificação do token")
	c.Flags().StringVar(&outPath, "out", "", "grava o contrato neste arquivo em vez da saída padrão")
	c.MarkFlagRequired("spec")
	return c
}

func loadSpec(path string) (models.TokenSpecification, error) {
	var spec models.TokenSpecification
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("falha ao ler especificação %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("especificação YAML inválida: %w", err)
	}
	return spec, nil
}

func reportDraft(w io.Writer, draft contractgen.ContractDraft) {
	fmt.Fprintf(w, "fragmentos: %v\n", draft.IncludedFragmentIDs)
	for _, block := range draft.IgnoredBlocks {
		fmt.Fprintf(w, "bloco ignorado: %s\n", block)
	}
	for _, warning := range draft.Warnings {
		fmt.Fprintf(w, "aviso [%s]: %s\n", warning.Code, warning.Message)
	}
}
