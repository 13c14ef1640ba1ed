package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ingenium9/plum-assignment/client"
	"github.com/Ingenium9/plum-assignment/dto"
	"github.com/Ingenium9/plum-assignment/service"
)

type noopFallback struct{}

func (noopFallback) Classify(ctx context.Context, text string) ([]dto.LabeledAmount, float64, error) {
	return nil, 0.3, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	ocrService := service.NewOCRService(
		client.NewTesseractClient(""),
		service.NewPDFProcessor(),
		client.NewQRClient(),
	)
	billService := service.NewBillService(
		service.NewClassifierService(noopFallback{}, service.NewFallbackState()),
		service.NewReasoningService(),
		service.NewGuardrailService(),
	)
	billHandler := NewBillHandler(ocrService, billService)

	router := gin.New()
	router.POST("/api/v1/bills/process", billHandler.ProcessBill)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProcessBillTextSuccess(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/bills/process", dto.ProcessTextRequest{
		Text: "Total: Rs 1200 Paid: 500",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, dto.StatusOK, response.Status)
	assert.Equal(t, "INR", response.Currency)
	assert.Len(t, response.Amounts, 3)
	assert.Empty(t, response.ClassificationSource, "verbose fields omitted by default")
}

func TestProcessBillVerbose(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/bills/process?verbose=true", dto.ProcessTextRequest{
		Text: "Total: Rs 1200 Paid: 500",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, dto.SourceRule, response.ClassificationSource)
	require.NotNil(t, response.Breakdown)
	assert.Equal(t, 1.0, response.Breakdown.OCR)
	assert.NotEmpty(t, response.IntermediateSteps)
}

func TestProcessBillNoInput(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/bills/process", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, dto.StatusBadRequest, response.Status)
}

func TestProcessBillGuardrailFailure(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/bills/process", dto.ProcessTextRequest{
		Text: "Total 100 Paid 150",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, dto.StatusInvalidPaid, response.Status)
}
