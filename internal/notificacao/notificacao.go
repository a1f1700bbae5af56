// Package notificacao avisa sistemas externos sobre eventos do cadastro.
// O envio é de melhor esforço: falhas vão para o log e nunca derrubam a
// requisição que gerou o evento.
package notificacao

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KromaEnergia/api-departamento-pessoal/internal/config"
	"github.com/KromaEnergia/api-departamento-pessoal/internal/metricas"
)

// Tipos de evento.
const (
	EventoCPFDuplicado         = "cpf_duplicado"
	EventoColaboradorExcluido  = "colaborador_excluido"
	EventoLancamentoFinalizado = "lancamento_finalizado"
	EventoDadosRestaurados     = "dados_restaurados"
)

// Evento é o corpo enviado a todos os canais.
type Evento struct {
	Tipo     string         `json:"tipo"`
	Mensagem string         `json:"mensagem"`
	Dados    map[string]any `json:"dados,omitempty"`
	Momento  time.Time      `json:"momento"`
}

// Notificador entrega um evento a um canal.
type Notificador interface {
	Notificar(ctx context.Context, ev Evento) error
	Close() error
}

// Nenhum descarta os eventos.
type Nenhum struct{}

func (Nenhum) Notificar(context.Context, Evento) error { return nil }
func (Nenhum) Close() error { return nil }

// Multiplo repassa o evento para todos os canais e junta os erros.
type Multiplo []Notificador

func (m Multiplo) Notificar(ctx context.Context, ev Evento) error {
	var errs []error
	for _, n := range m {
		if err := n.Notificar(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multiplo) Close() error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.Close())
	}
	return errors.Join(errs...)
}

// Novo monta os canais configurados. Sem nenhum canal, devolve Nenhum.
// Falha ao conectar na fila não impede o serviço de subir.
func Novo(cfg config.Notificacao, log *slog.Logger) Notificador {
	var canais Multiplo
	if cfg.WebhookURL != "" {
		canais = append(canais, NewWebhook(cfg.WebhookURL))
	}
	if cfg.RabbitURI != "" {
		fila, err := NewFila(cfg.RabbitURI, cfg.RabbitQueue)
		if err != nil {
			log.Warn("notification_queue_unavailable", "queue", cfg.RabbitQueue, "err", err)
		} else {
			canais = append(canais, fila)
		}
	}
	if len(canais) == 0 {
		return Nenhum{}
	}
	return canais
}

// Disparar envia o evento sem propagar erro. O contexto da requisição pode
// já ter sido cancelado quando o evento sai, então o envio usa uma cópia sem
// cancelamento.
func Disparar(ctx context.Context, n Notificador, log *slog.Logger, ev Evento) {
	if n == nil {
		return
	}
	if ev.Momento.IsZero() {
		ev.Momento = time.Now()
	}
	if err := n.Notificar(context.WithoutCancel(ctx), ev); err != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Warn("notification_failed", "tipo", ev.Tipo, "err", err)
	}
}

func contar(canal string, err error) {
	resultado := "ok"
	if err != nil {
		resultado = "erro"
	}
	metricas.Notificacoes.WithLabelValues(canal, resultado).Inc()
}
