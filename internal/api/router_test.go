package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fin-ledger/internal/api"
	"fin-ledger/internal/api/handlers"
	"fin-ledger/internal/dto"
	"fin-ledger/internal/events"
	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"
	"fin-ledger/internal/repository/memory"
	"fin-ledger/internal/service"
	"fin-ledger/pkg/auth"
	"fin-ledger/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLLM struct {
	text string
	err  error
}

func (s *stubLLM) Generate(context.Context, string) (string, error) { return s.text, s.err }
func (s *stubLLM) Close() error                                     { return nil }

type testApp struct {
	app   *fiber.App
	store *repository.Store
	llm   *stubLLM
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := zap.NewNop()
	store := memory.New()
	client := &stubLLM{text: "Overview: spend less on food."}
	publisher := &events.Recorder{}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	ledger := service.NewLedgerService(store, publisher, logger)
	aggregator := service.NewAggregatorService(ledger, logger)
	insights := service.NewInsightService(store, ledger, client, publisher, service.InsightConfig{
		Timeout:            time.Second,
		RecentTransactions: 10,
	}, logger)

	app := api.SetupRouter(api.Handlers{
		Auth:         handlers.NewAuthHandler(service.NewAuthService(store.Users, jwtManager, logger), logger),
		Profile:      handlers.NewProfileHandler(service.NewUserService(store.Users, logger), logger),
		Transactions: handlers.NewTransactionHandler(ledger, logger),
		Categories:   handlers.NewCategoryHandler(ledger, logger),
		Summary:      handlers.NewSummaryHandler(aggregator, logger),
		Suggestions:  handlers.NewSuggestionHandler(insights, logger),
	}, jwtManager, config.ServerConfig{ReadTimeout: 5 * time.Second, WriteTimeout: 7 * time.Second}, logger)

	return &testApp{app: app, store: store, llm: client}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (a *testApp) register(t *testing.T, email string) string {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/user/auth/register", "", dto.RegisterRequest{
		Username: "user",
		Email:    email,
		Password: "secret-password",
		Name:     "Test User",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.AccessToken
}

func (a *testApp) globalCategory(t *testing.T, name string) string {
	t.Helper()
	c := &models.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	require.NoError(t, a.store.Categories.Create(context.Background(), c))
	return c.ID.String()
}

func amount(v float64) *float64 { return &v }

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestServerTimeoutsApplied(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, 5*time.Second, a.app.Config().ReadTimeout)
	assert.Equal(t, 7*time.Second, a.app.Config().WriteTimeout)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t)

	status, _ := a.do(t, http.MethodGet, "/api/v1/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = a.do(t, http.MethodGet, "/api/v1/transactions", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthFlow(t *testing.T) {
	a := newTestApp(t)
	a.register(t, "alice@example.com")

	status, _ := a.do(t, http.MethodPost, "/user/auth/register", "", dto.RegisterRequest{
		Username: "again", Email: "ALICE@example.com", Password: "x",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body := a.do(t, http.MethodPost, "/user/auth/login", "", dto.LoginRequest{
		Email: "alice@example.com", Password: "secret-password",
	})
	require.Equal(t, http.StatusOK, status)
	login := decode[dto.AuthResponse](t, body)

	status, _ = a.do(t, http.MethodPost, "/user/auth/login", "", dto.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = a.do(t, http.MethodPost, "/user/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[dto.AuthResponse](t, body).AccessToken)
}

func TestRegisterWithAverageIncome(t *testing.T) {
	a := newTestApp(t)

	status, body := a.do(t, http.MethodPost, "/user/auth/register", "", dto.RegisterRequest{
		Username: "carol", Email: "carol@example.com", Password: "secret-password", AverageIncome: amount(2500),
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	resp := decode[dto.AuthResponse](t, body)
	require.NotNil(t, resp.User.AverageIncome)
	assert.InDelta(t, 2500, *resp.User.AverageIncome, 0.001)

	status, body = a.do(t, http.MethodGet, "/api/v1/profile", resp.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	profile := decode[dto.UserResponse](t, body)
	require.NotNil(t, profile.AverageIncome)
	assert.InDelta(t, 2500, *profile.AverageIncome, 0.001)

	status, _ = a.do(t, http.MethodPost, "/user/auth/register", "", dto.RegisterRequest{
		Username: "dave", Email: "dave@example.com", Password: "secret-password", AverageIncome: amount(-10),
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProfileIncome(t *testing.T) {
	a := newTestApp(t)
	token := a.register(t, "alice@example.com")

	status, body := a.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, decode[dto.UserResponse](t, body).AverageIncome)

	status, body = a.do(t, http.MethodPut, "/api/v1/profile", token, dto.UpdateProfileRequest{AverageIncome: amount(3200)})
	require.Equal(t, http.StatusOK, status)
	profile := decode[dto.UserResponse](t, body)
	require.NotNil(t, profile.AverageIncome)
	assert.InDelta(t, 3200, *profile.AverageIncome, 0.001)

	status, _ = a.do(t, http.MethodPut, "/api/v1/profile", token, dto.UpdateProfileRequest{AverageIncome: amount(-1)})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTransactionLifecycleAndOwnership(t *testing.T) {
	a := newTestApp(t)
	alice := a.register(t, "alice@example.com")
	bob := a.register(t, "bob@example.com")
	food := a.globalCategory(t, "Food")

	status, body := a.do(t, http.MethodPost, "/api/v1/transactions", alice, dto.TransactionRequest{
		Amount: amount(150), Kind: "expense", Date: "2024-07-05", CategoryID: food, Description: "groceries",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[dto.TransactionResponse](t, body)
	assert.Equal(t, "2024-07-05T00:00:00Z", created.Date)

	path := "/api/v1/transactions/" + created.ID

	status, _ = a.do(t, http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = a.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = a.do(t, http.MethodPut, path, alice, dto.TransactionRequest{
		Amount: amount(175.5), Kind: "expense", Date: "2024-07-06T10:00:00Z", CategoryID: food,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[dto.TransactionResponse](t, body)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.InDelta(t, 175.5, updated.Amount, 0.001)

	status, body = a.do(t, http.MethodGet, "/api/v1/transactions", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]dto.TransactionResponse](t, body))

	status, _ = a.do(t, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = a.do(t, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTransactionValidation(t *testing.T) {
	a := newTestApp(t)
	token := a.register(t, "alice@example.com")
	food := a.globalCategory(t, "Food")

	cases := map[string]dto.TransactionRequest{
		"negative amount":  {Amount: amount(-5), Kind: "expense", Date: "2024-07-01", CategoryID: food},
		"missing amount":   {Kind: "expense", Date: "2024-07-01", CategoryID: food},
		"bad kind":         {Amount: amount(5), Kind: "refund", Date: "2024-07-01", CategoryID: food},
		"uppercase kind":   {Amount: amount(5), Kind: "INCOME", Date: "2024-07-01", CategoryID: food},
		"padded kind":      {Amount: amount(5), Kind: " expense", Date: "2024-07-01", CategoryID: food},
		"bad date":         {Amount: amount(5), Kind: "income", Date: "07/01/2024", CategoryID: food},
		"unknown category": {Amount: amount(5), Kind: "income", Date: "2024-07-01", CategoryID: uuid.NewString()},
		"missing category": {Amount: amount(5), Kind: "income", Date: "2024-07-01"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := a.do(t, http.MethodPost, "/api/v1/transactions", token, req)
			assert.Equal(t, http.StatusBadRequest, status, string(body))
		})
	}

	status, _ := a.do(t, http.MethodGet, "/api/v1/transactions/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCategories(t *testing.T) {
	a := newTestApp(t)
	alice := a.register(t, "alice@example.com")
	bob := a.register(t, "bob@example.com")
	food := a.globalCategory(t, "Food")

	status, body := a.do(t, http.MethodPost, "/api/v1/categories", alice, dto.CategoryRequest{Name: "  Hobbies "})
	require.Equal(t, http.StatusCreated, status)
	hobbies := decode[dto.CategoryResponse](t, body)
	assert.Equal(t, "Hobbies", hobbies.Name)
	assert.False(t, hobbies.Global)

	status, body = a.do(t, http.MethodGet, "/api/v1/categories", alice, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]dto.CategoryResponse](t, body)
	require.Len(t, list, 2)
	assert.True(t, list[0].Global)
	assert.Equal(t, "Hobbies", list[1].Name)

	status, body = a.do(t, http.MethodGet, "/api/v1/categories", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.CategoryResponse](t, body), 1)

	status, _ = a.do(t, http.MethodDelete, "/api/v1/categories/"+hobbies.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = a.do(t, http.MethodDelete, "/api/v1/categories/"+food, alice, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = a.do(t, http.MethodDelete, "/api/v1/categories/"+uuid.NewString(), alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = a.do(t, http.MethodDelete, "/api/v1/categories/"+hobbies.ID, alice, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = a.do(t, http.MethodPost, "/api/v1/categories", alice, dto.CategoryRequest{Name: " "})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSummaryEndpoints(t *testing.T) {
	a := newTestApp(t)
	token := a.register(t, "alice@example.com")
	food := a.globalCategory(t, "Food")
	salary := a.globalCategory(t, "Salary")

	status, body := a.do(t, http.MethodPost, "/api/v1/categories", token, dto.CategoryRequest{Name: "Books"})
	require.Equal(t, http.StatusCreated, status)
	books := decode[dto.CategoryResponse](t, body)

	for _, req := range []dto.TransactionRequest{
		{Amount: amount(1000), Kind: "income", Date: "2024-07-01", CategoryID: salary},
		{Amount: amount(100), Kind: "expense", Date: "2024-07-10", CategoryID: food},
		{Amount: amount(50), Kind: "expense", Date: "2024-07-31T23:59:59Z", CategoryID: books.ID},
		{Amount: amount(70), Kind: "expense", Date: "2024-08-01", CategoryID: food},
		{Amount: amount(20), Kind: "expense", Date: "2024-06-30", CategoryID: food},
	} {
		status, body := a.do(t, http.MethodPost, "/api/v1/transactions", token, req)
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body = a.do(t, http.MethodGet, "/api/v1/summary?month=2024-07", token, nil)
	require.Equal(t, http.StatusOK, status)
	july := decode[dto.SummaryResponse](t, body)
	assert.InDelta(t, 1000, july.Income, 0.001)
	assert.InDelta(t, 150, july.Expense, 0.001)
	assert.InDelta(t, 850, july.Balance, 0.001)

	status, body = a.do(t, http.MethodGet, "/api/v1/summary?from=2024-07-10&to=2024-08-01", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 150, decode[dto.SummaryResponse](t, body).Expense, 0.001)

	status, _ = a.do(t, http.MethodGet, "/api/v1/summary?from=2024-08-01&to=2024-07-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = a.do(t, http.MethodGet, "/api/v1/summary?month=July", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// a deleted category is reported as Uncategorized
	status, _ = a.do(t, http.MethodDelete, "/api/v1/categories/"+books.ID, token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = a.do(t, http.MethodGet, "/api/v1/summary/categories?kind=expense&month=2024-07", token, nil)
	require.Equal(t, http.StatusOK, status)
	breakdown := decode[dto.BreakdownResponse](t, body)
	require.Len(t, breakdown.Categories, 2)
	assert.Equal(t, "Food", breakdown.Categories[0].Label)
	assert.Equal(t, models.UncategorizedLabel, breakdown.Categories[1].Label)
	assert.InDelta(t, 50, breakdown.Categories[1].Amount, 0.001)

	status, _ = a.do(t, http.MethodGet, "/api/v1/summary/categories?kind=refund&month=2024-07", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = a.do(t, http.MethodGet, "/api/v1/summary/trend?month=2024-08&months=3", token, nil)
	require.Equal(t, http.StatusOK, status)
	trend := decode[[]dto.TrendPoint](t, body)
	require.Len(t, trend, 3)
	assert.Equal(t, "2024-06", trend[0].Month)
	assert.InDelta(t, 20, trend[0].Expense, 0.001)
	assert.Equal(t, "2024-08", trend[2].Month)
	assert.InDelta(t, 70, trend[2].Expense, 0.001)

	status, _ = a.do(t, http.MethodGet, "/api/v1/summary/trend?months=25", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = a.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), decode[dto.DashboardResponse](t, body).Month)
}

func TestSuggestions(t *testing.T) {
	a := newTestApp(t)
	token := a.register(t, "alice@example.com")

	status, body := a.do(t, http.MethodPost, "/api/v1/suggestions", token, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	first := decode[dto.GenerateSuggestionResponse](t, body)
	assert.Equal(t, "Overview: spend less on food.", first.Suggestion.Response)
	assert.False(t, first.ContextDegraded)

	prompt := "Can I afford a holiday?"
	status, body = a.do(t, http.MethodPost, "/api/v1/suggestions", token, dto.SuggestionRequest{Prompt: &prompt})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Contains(t, decode[dto.GenerateSuggestionResponse](t, body).Suggestion.Prompt, prompt)

	a.llm.err = errors.New("provider down")
	status, _ = a.do(t, http.MethodPost, "/api/v1/suggestions", token, nil)
	assert.Equal(t, http.StatusBadGateway, status)

	a.llm.err = context.DeadlineExceeded
	status, _ = a.do(t, http.MethodPost, "/api/v1/suggestions", token, nil)
	assert.Equal(t, http.StatusGatewayTimeout, status)

	status, body = a.do(t, http.MethodGet, "/api/v1/suggestions", token, nil)
	require.Equal(t, http.StatusOK, status)
	history := decode[[]dto.SuggestionResponse](t, body)
	require.Len(t, history, 2)
	assert.Contains(t, history[0].Prompt, prompt)
}
