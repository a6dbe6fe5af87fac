// Package insights asks a language model for a short production summary.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"confeccao/internal/storage"
)

const (
	FallbackEmpty = "Não foi possível gerar a análise no momento."
	FallbackError = "Erro ao conectar com a IA da Kavin's. Verifique a chave de API nas configurações do servidor."
	Unavailable   = "Análise por IA desativada: nenhuma chave de API configurada."
)

// Summarizer turns a prompt into text.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

type Result struct {
	Text      string `json:"text"`
	Available bool   `json:"available"`
}

type distribution struct {
	Seamstress string              `json:"seamstress"`
	Status     storage.OrderStatus `json:"status"`
	Pieces     int                 `json:"pieces"`
}

type orderView struct {
	Ref           string              `json:"ref"`
	Status        storage.OrderStatus `json:"status"`
	Fabric        string              `json:"fabric"`
	TotalItems    int                 `json:"totalItems"`
	CuttingStock  int                 `json:"cuttingStock"`
	Distributions []distribution      `json:"distributions"`
}

type seamstressView struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type snapshot struct {
	Orders       []orderView      `json:"orders"`
	Seamstresses []seamstressView `json:"seamstresses"`
}

// Snapshot is the compact JSON sent along with the prompt.
func Snapshot(orders []storage.ProductionOrder, seamstresses []storage.Seamstress) ([]byte, error) {
	s := snapshot{
		Orders:       make([]orderView, 0, len(orders)),
		Seamstresses: make([]seamstressView, 0, len(seamstresses)),
	}

	for _, o := range orders {
		v := orderView{
			Ref:           o.ReferenceCode,
			Status:        o.Status,
			Fabric:        o.Fabric,
			TotalItems:    len(o.Items),
			CuttingStock:  storage.SumPieces(o.ActiveCuttingItems),
			Distributions: make([]distribution, 0, len(o.Splits)),
		}
		for _, split := range o.Splits {
			v.Distributions = append(v.Distributions, distribution{
				Seamstress: split.SeamstressName,
				Status:     split.Status,
				Pieces:     split.Pieces(),
			})
		}
		s.Orders = append(s.Orders, v)
	}

	for _, w := range seamstresses {
		s.Seamstresses = append(s.Seamstresses, seamstressView{Name: w.Name, Specialty: w.Specialty})
	}

	return json.Marshal(s)
}

// Prompt builds the request for the production manager summary.
func Prompt(data []byte) string {
	var b strings.Builder
	b.WriteString(`Você é um gerente de produção têxtil experiente da empresa "Kavin's".
Analise os dados de produção abaixo (em JSON) e forneça um relatório executivo curto e direto.

Foque em:
1. Gargalos de produção (muitos itens parados em estoque de corte sem costureira?).
2. Desempenho (quem está com muitos pacotes acumulados?).
3. Sugestões de prioridade baseadas no status atual.
4. Use formatação Markdown (negrito, bullet points).
5. Seja motivador mas profissional.

Dados:
`)
	b.Write(data)
	b.WriteString("\n")
	return b.String()
}

type Service struct {
	log        *slog.Logger
	summarizer Summarizer
}

// NewService takes a nil summarizer when no model is configured.
func NewService(log *slog.Logger, summarizer Summarizer) *Service {
	return &Service{log: log, summarizer: summarizer}
}

// Generate never fails: model errors are logged and replaced by a fallback text.
func (s *Service) Generate(ctx context.Context, orders []storage.ProductionOrder, seamstresses []storage.Seamstress) Result {
	const op = "service.insights.Generate"

	log := s.log.With(slog.String("op", op))

	if s.summarizer == nil {
		return Result{Text: Unavailable}
	}

	data, err := Snapshot(orders, seamstresses)
	if err != nil {
		log.Error("failed to encode snapshot", slog.String("err", err.Error()))
		return Result{Text: FallbackError, Available: true}
	}

	text, err := s.summarizer.Summarize(ctx, Prompt(data))
	if err != nil {
		log.Error("failed to generate insights", slog.String("err", fmt.Errorf("%s: %w", op, err).Error()))
		return Result{Text: FallbackError, Available: true}
	}

	if strings.TrimSpace(text) == "" {
		return Result{Text: FallbackEmpty, Available: true}
	}

	return Result{Text: text, Available: true}
}
