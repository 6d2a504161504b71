package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/events"
	"github.com/carson-networks/expense-server/internal/operator"
	"github.com/carson-networks/expense-server/internal/service"
	"github.com/carson-networks/expense-server/internal/storage"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	hub     *events.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := storage.NewMemoryStorage()
	hub := events.NewHub(logger, events.DefaultBuffer)
	delegator := operator.NewOperatorDelegator(store, 2, hub, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	tokens := auth.NewTokens("test-secret", time.Hour)
	rest := &Rest{
		Logger:  logger,
		Service: service.NewService(store, delegator, tokens, time.UTC),
		Tokens:  tokens,
		Hub:     hub,
	}
	return &testServer{t: t, handler: rest.Handler(), hub: hub}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

type txResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

func TestStatusAndHealth(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/status", "", nil).Code)

	w := s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[struct {
		OK bool `json:"ok"`
	}](t, w).OK)
}

func TestExpenseFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ada := decode[session](t, w)
	require.NotEmpty(t, ada.Token)

	w = s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Ada", "email": "ADA@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/v1/transactions", "", nil).Code)

	changes, cancel := s.hub.SubscribeAll()
	defer cancel()

	// Ten records on consecutive days, every third one a bill.
	var ids []string
	for day := 1; day <= 10; day++ {
		category := "Food"
		if day%3 == 0 {
			category = "Bills"
		}
		w = s.do(http.MethodPost, "/v1/transaction", ada.Token, map[string]string{
			"title":    "Item",
			"amount":   "10",
			"category": category,
			"date":     time.Date(2025, 11, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode[txResponse](t, w).ID)
	}
	select {
	case event := <-changes:
		assert.Equal(t, events.TransactionCreated, event.Type)
	case <-time.After(time.Second):
		t.Fatal("no change event published")
	}

	w = s.do(http.MethodGet, "/v1/transactions?page=2&limit=4", ada.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Items []txResponse `json:"items"`
		Total int          `json:"total"`
	}](t, w)
	assert.Equal(t, 10, page.Total)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "2025-11-06", page.Items[0].Date)
	assert.Equal(t, "2025-11-03", page.Items[3].Date)

	w = s.do(http.MethodGet, "/v1/transactions?category=Food&limit=100", ada.Token, nil)
	food := decode[struct {
		Items []txResponse `json:"items"`
		Total int          `json:"total"`
	}](t, w)
	assert.Equal(t, 7, food.Total)
	for _, item := range food.Items {
		assert.Equal(t, "Food", item.Category)
	}

	// Another user sees none of Ada's records.
	w = s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "secret2",
	})
	bob := decode[session](t, w)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/transaction/"+ids[0], bob.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/v1/transaction/"+ids[0], bob.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/v1/user/"+ada.User.ID, bob.Token, nil).Code)

	w = s.do(http.MethodPut, "/v1/transaction/"+ids[0], ada.Token, map[string]string{
		"title": "Salary", "amount": "500", "category": "Other", "kind": "income", "settlement": "paid", "date": "10-11-2025",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2025-11-10", decode[txResponse](t, w).Date)

	w = s.do(http.MethodGet, "/v1/dashboard?window=14", ada.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dash := decode[struct {
		Summary struct {
			TotalExpense string `json:"totalExpense"`
			TotalIncome  string `json:"totalIncome"`
			Net          string `json:"net"`
		} `json:"summary"`
		Series struct {
			Labels  []string `json:"labels"`
			HasData bool     `json:"hasData"`
		} `json:"series"`
	}](t, w)
	assert.Equal(t, "90", dash.Summary.TotalExpense)
	assert.Equal(t, "500", dash.Summary.TotalIncome)
	assert.Equal(t, "410", dash.Summary.Net)
	assert.Len(t, dash.Series.Labels, 14)

	w = s.do(http.MethodDelete, "/v1/transaction/"+ids[1], ada.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/transaction/"+ids[1], ada.Token, nil).Code)
}

func TestRegister_MultiBytePasswordOverLimit(t *testing.T) {
	s := newTestServer(t)

	// 40 characters passes the schema but is 80 bytes.
	w := s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": strings.Repeat("é", 40),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestListTransactions_HugePage(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ada := decode[session](t, w)

	w = s.do(http.MethodGet, "/v1/transactions?page=4611686018427387904&limit=4", ada.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodGet, "/v1/transactions?page=1000000&limit=100", ada.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[struct {
		Items []txResponse `json:"items"`
		Total int          `json:"total"`
		Page  int          `json:"page"`
	}](t, w)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1000000, page.Page)
}
