package insights

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"confeccao/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func orders() []storage.ProductionOrder {
	return []storage.ProductionOrder{{
		ReferenceCode: "REF01",
		Status:        storage.StatusSewing,
		Fabric:        "Viscose",
		Items:         []storage.OrderItem{{Color: "Azul"}, {Color: "Rosa"}},
		ActiveCuttingItems: []storage.OrderItem{
			{Color: "Azul", ActualPieces: 10},
			{Color: "Rosa", ActualPieces: 0},
		},
		Splits: []storage.OrderSplit{{
			SeamstressName: "Ana",
			Status:         storage.StatusSewing,
			Items:          []storage.OrderItem{{ActualPieces: 10}, {ActualPieces: 5}},
		}},
	}}
}

func TestSnapshot(t *testing.T) {
	data, err := Snapshot(orders(), []storage.Seamstress{{Name: "Ana", Specialty: "Reta", Phone: "123"}})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	order := got["orders"].([]any)[0].(map[string]any)
	assert.Equal(t, "REF01", order["ref"])
	assert.EqualValues(t, 2, order["totalItems"])
	assert.EqualValues(t, 10, order["cuttingStock"])

	dist := order["distributions"].([]any)[0].(map[string]any)
	assert.Equal(t, "Ana", dist["seamstress"])
	assert.EqualValues(t, 15, dist["pieces"])

	worker := got["seamstresses"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"name": "Ana", "specialty": "Reta"}, worker)
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("summary", func(t *testing.T) {
		m := new(MockSummarizer)
		m.On("Summarize", ctx, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, `"Kavin's"`) && strings.Contains(p, `"ref":"REF01"`)
		})).Return("**Tudo certo**", nil)

		res := NewService(discard(), m).Generate(ctx, orders(), nil)

		assert.Equal(t, Result{Text: "**Tudo certo**", Available: true}, res)
		m.AssertExpectations(t)
	})

	t.Run("empty answer", func(t *testing.T) {
		m := new(MockSummarizer)
		m.On("Summarize", ctx, mock.Anything).Return("  ", nil)

		res := NewService(discard(), m).Generate(ctx, orders(), nil)

		assert.Equal(t, FallbackEmpty, res.Text)
	})

	t.Run("model error", func(t *testing.T) {
		m := new(MockSummarizer)
		m.On("Summarize", ctx, mock.Anything).Return("", errors.New("quota exceeded"))

		res := NewService(discard(), m).Generate(ctx, orders(), nil)

		assert.Equal(t, FallbackError, res.Text)
		assert.True(t, res.Available)
	})

	t.Run("not configured", func(t *testing.T) {
		res := NewService(discard(), nil).Generate(ctx, orders(), nil)

		assert.Equal(t, Result{Text: Unavailable}, res)
	})
}

func TestNewGeminiSummarizer_NoKey(t *testing.T) {
	s, err := NewGeminiSummarizer(context.Background(), "", "")

	require.NoError(t, err)
	assert.Nil(t, s)
}
