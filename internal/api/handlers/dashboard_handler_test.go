package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"finboard/dashboard/internal/api/handlers"
	"finboard/dashboard/internal/models"
	"finboard/dashboard/internal/services"
)

func setupDashboardRouter(mockSvc *MockDashboardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewDashboardHandler(mockSvc)
	r := gin.New()
	r.GET("/v1/dashboard", handler.GetOverview)
	return r
}

func TestDashboardHandler_GetOverview(t *testing.T) {
	mockSvc := new(MockDashboardService)
	router := setupDashboardRouter(mockSvc)

	mockSvc.On("CardData", mock.Anything).Return(&services.CardData{
		NumberOfInvoices:  13,
		NumberOfCustomers: 6,
		TotalPaid:         10000,
		TotalPending:      5000,
	}, nil)
	mockSvc.On("Revenue", mock.Anything).Return([]models.Revenue{
		{Month: "Jan", Revenue: 2000},
	}, nil)
	mockSvc.On("LatestInvoices", mock.Anything).Return([]models.InvoiceRow{
		{ID: "inv-1", CustomerName: "Amy Burns", Amount: 5050},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/dashboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Cards struct {
			NumberOfInvoices int64 `json:"number_of_invoices"`
		} `json:"cards"`
		Revenue        []models.Revenue    `json:"revenue"`
		LatestInvoices []models.InvoiceRow `json:"latest_invoices"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(13), resp.Cards.NumberOfInvoices)
	assert.Len(t, resp.Revenue, 1)
	assert.Len(t, resp.LatestInvoices, 1)
	mockSvc.AssertExpectations(t)
}

func TestDashboardHandler_GetOverview_Error(t *testing.T) {
	mockSvc := new(MockDashboardService)
	router := setupDashboardRouter(mockSvc)

	mockSvc.On("CardData", mock.Anything).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/dashboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
