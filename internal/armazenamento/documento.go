package armazenamento

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/metricas"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/models"
)

// Documento guarda o grafo inteiro em um único arquivo JSON.
//
// A gravação passa por um arquivo temporário no mesmo diretório e um rename,
// então um processo interrompido deixa o arquivo antigo ou o novo, nunca um
// meio-termo. Não há log de transações nem trava entre processos.
type Documento struct {
	caminho string
	log     *slog.Logger
	agora   func() time.Time
}

// NewDocumento prepara o diretório do arquivo. O arquivo em si só é criado
// na primeira gravação.
func NewDocumento(caminho string, log *slog.Logger) (*Documento, error) {
	if caminho == "" {
		return nil, errors.New("caminho do arquivo de dados é obrigatório")
	}
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(caminho), 0o755); err != nil {
		return nil, falha("abrir documento", err)
	}
	return &Documento{caminho: caminho, log: log, agora: time.Now}, nil
}

// Caminho devolve o arquivo de dados em uso.
func (d *Documento) Caminho() string { return d.caminho }

// Carregar lê o arquivo. Arquivo ausente vira grafo vazio; arquivo corrompido
// também, mas é renomeado para o lado e gera um aviso no log e na métrica.
func (d *Documento) Carregar(_ context.Context) (*models.Dados, error) {
	b, err := os.ReadFile(d.caminho)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NovosDados(), nil
		}
		return nil, falha("carregar documento", err)
	}

	dados := models.NovosDados()
	if err := json.Unmarshal(b, dados); err != nil {
		d.recuperarCorrompido(err)
		return models.NovosDados(), nil
	}
	dados.Normalizar()
	return dados, nil
}

func (d *Documento) recuperarCorrompido(causa error) {
	metricas.LeiturasRecuperadas.WithLabelValues("json_invalido").Inc()

	destino := fmt.Sprintf("%s.corrompido-%s", d.caminho, d.agora().Format("20060102T150405"))
	if err := os.Rename(d.caminho, destino); err != nil {
		d.log.Warn("storage_corrupt_file",
			"path", d.caminho,
			"err", causa,
			"rename_err", err,
		)
		return
	}
	d.log.Warn("storage_corrupt_file",
		"path", d.caminho,
		"moved_to", destino,
		"err", causa,
	)
}

// Salvar sobrescreve o arquivo com o grafo completo.
func (d *Documento) Salvar(_ context.Context, dados *models.Dados) error {
	dados.Normalizar()
	b, err := json.MarshalIndent(dados, "", "  ")
	if err != nil {
		return falha("serializar documento", err)
	}
	if err := gravarAtomico(d.caminho, b, 0o644); err != nil {
		return falha("salvar documento", err)
	}
	return nil
}

// ExcluirColaborador remove o colaborador e tudo que depende dele em uma
// única gravação do arquivo.
func (d *Documento) ExcluirColaborador(ctx context.Context, id string) (ResultadoExclusao, error) {
	dados, err := d.Carregar(ctx)
	if err != nil {
		return ResultadoExclusao{}, err
	}
	idx := dados.IndiceColaborador(id)
	if idx < 0 {
		return ResultadoExclusao{}, models.ErrColaboradorNaoEncontrado
	}

	res := ResultadoExclusao{EmprestimosRemovidos: len(dados.Colaboradores[idx].Emprestimos)}
	dados.Colaboradores = append(dados.Colaboradores[:idx], dados.Colaboradores[idx+1:]...)

	restantes := dados.Lancamentos[:0]
	for _, l := range dados.Lancamentos {
		if l.ColaboradorID == id {
			res.LancamentosRemovidos++
			continue
		}
		restantes = append(restantes, l)
	}
	dados.Lancamentos = restantes

	if err := d.Salvar(ctx, dados); err != nil {
		return ResultadoExclusao{}, err
	}
	return res, nil
}

// Substituir grava o grafo recebido no lugar do atual.
func (d *Documento) Substituir(ctx context.Context, dados *models.Dados) error {
	return d.Salvar(ctx, dados)
}

func (d *Documento) Close() error { return nil }

func gravarAtomico(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
