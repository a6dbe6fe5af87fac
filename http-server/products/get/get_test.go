package get

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"confeccao/internal/storage"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) ListProducts(ctx context.Context) ([]storage.ProductReference, error) {
	args := m.Called(ctx)
	return args.Get(0).([]storage.ProductReference), args.Error(1)
}

func TestGetProducts(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	yield := 40

	m := new(MockProducts)
	m.On("ListProducts", mock.Anything).Return([]storage.ProductReference{
		{ID: "p1", Code: "REF01", Description: "Blusa", DefaultGrid: storage.GridStandard, EstimatedPiecesPerRoll: &yield},
	}, nil).Once()
	m.On("ListProducts", mock.Anything).Return([]storage.ProductReference(nil), errors.New("db down")).Once()

	rr := httptest.NewRecorder()
	GetProducts(log, m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []storage.ProductReference
	require.NoError(t, render.DecodeJSON(rr.Body, &got))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].EstimatedPiecesPerRoll)
	assert.Equal(t, 40, *got[0].EstimatedPiecesPerRoll)

	rr = httptest.NewRecorder()
	GetProducts(log, m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	m.AssertExpectations(t)
}
