package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/backup"
)

func exportarCmd() *cobra.Command {
	var saida string
	cmd := &cobra.Command{
		Use:   "exportar",
		Short: "Grava o backup completo em JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amb, err := abrirAmbiente()
			if err != nil {
				return err
			}
			defer amb.Close()

			svc := backup.NewService(amb.arm, amb.notif, amb.log)
			escrever := func(w io.Writer) error { return svc.Escrever(cmd.Context(), w) }

			if saida == "" || saida == "-" {
				err = escrever(cmd.OutOrStdout())
			} else {
				err = gravarArquivo(saida, escrever)
			}
			if err != nil {
				return fmt.Errorf("exportar: %w", err)
			}
			amb.log.Info("backup_exported", "output", saida)
			return nil
		},
	}
	cmd.Flags().StringVarP(&saida, "saida", "o", "", "arquivo de destino (padrão: stdout)")
	return cmd
}

func importarCmd() *cobra.Command {
	var entrada string
	cmd := &cobra.Command{
		Use:   "importar",
		Short: "Substitui todos os dados pelo conteúdo de um backup",
		Long: `Apaga colaboradores, empréstimos e lançamentos e grava exatamente o
conteúdo do backup, com os ids originais. Nenhuma regra do cadastro é
verificada.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if entrada == "" {
				return fmt.Errorf("informe o backup com --entrada")
			}
			amb, err := abrirAmbiente()
			if err != nil {
				return err
			}
			defer amb.Close()

			var r io.Reader = cmd.InOrStdin()
			if entrada != "-" {
				f, err := os.Open(entrada)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			svc := backup.NewService(amb.arm, amb.notif, amb.log)
			if err := svc.Ler(cmd.Context(), r); err != nil {
				return fmt.Errorf("importar: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&entrada, "entrada", "i", "", "arquivo de backup (\"-\" para stdin)")
	return cmd
}

// gravarArquivo cria o arquivo, escreve e fecha. Se qualquer passo falhar,
// inclusive o Close, o arquivo parcial é removido e o erro volta.
func gravarArquivo(caminho string, escrever func(io.Writer) error) error {
	f, err := os.Create(caminho)
	if err != nil {
		return err
	}
	if err := escrever(f); err != nil {
		_ = f.Close()
		_ = os.Remove(caminho)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(caminho)
		return err
	}
	return nil
}
