// Package httperr maps service errors onto HTTP responses.
package httperr

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"confeccao/internal/service/printsheet"
	"confeccao/internal/service/production"
	"confeccao/internal/service/report"
	"confeccao/internal/storage"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type rule struct {
	target  error
	status  int
	message string
}

// first match wins
var rules = []rule{
	{production.ErrInvalidInput, http.StatusBadRequest, "dados inválidos"},
	{production.ErrInvalidAmount, http.StatusBadRequest, "a quantidade deve ser maior que zero"},
	{production.ErrExceedsCuttingStock, http.StatusBadRequest, "quantidade maior que o estoque de corte"},
	{production.ErrNothingToDistribute, http.StatusBadRequest, "nenhuma peça para distribuir"},
	{production.ErrSeamstressInactive, http.StatusBadRequest, "costureira inativa"},
	{report.ErrInvalidFilter, http.StatusBadRequest, "filtro inválido"},
	{production.ErrSplitNotFound, http.StatusNotFound, "pacote não encontrado"},
	{storage.ErrNotFound, http.StatusNotFound, "registro não encontrado"},
	{printsheet.ErrNothingToPrint, http.StatusNotFound, "nenhuma ordem planejada para imprimir"},
	{production.ErrIllegalTransition, http.StatusConflict, "operação não permitida no status atual"},
	{production.ErrSplitFinished, http.StatusConflict, "pacote já finalizado"},
	{production.ErrProductInUse, http.StatusConflict, "referência em uso por ordens de produção"},
	{production.ErrOrderExists, http.StatusConflict, "número de ordem já utilizado"},
	{storage.ErrDuplicate, http.StatusConflict, "registro duplicado"},
}

// Status returns the response code and user-facing message for err.
func Status(err error) (int, string) {
	for _, rl := range rules {
		if errors.Is(err, rl.target) {
			return rl.status, rl.message
		}
	}
	return http.StatusInternalServerError, "erro interno do servidor"
}

// detail is the part of the message after the sentinel text, e.g.
// "color is required" for "op: invalid input: color is required".
func detail(err, target error) string {
	msg := err.Error()
	i := strings.Index(msg, target.Error())
	if i < 0 {
		return ""
	}
	return strings.TrimPrefix(msg[i+len(target.Error()):], ": ")
}

// Write renders err as JSON. Server errors are logged at error level,
// client errors at debug.
func Write(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	status, message := Status(err)

	l := log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)
	if status >= http.StatusInternalServerError {
		l.Error(message)
	} else {
		l.Debug(message, slog.Int("status", status))
	}

	resp := Response{Error: message}
	if status == http.StatusBadRequest {
		for _, rl := range rules {
			if errors.Is(err, rl.target) {
				resp.Detail = detail(err, rl.target)
				break
			}
		}
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

// BadJSON answers a request body that could not be decoded.
func BadJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	).Debug("bad request body")

	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Response{Error: "erro ao ler o JSON da requisição"})
}
