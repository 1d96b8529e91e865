package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	"github.com/smallbiznis/crm/internal/observability"
	obsmetrics "github.com/smallbiznis/crm/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubCustomers struct {
	customerdomain.Service
}

func (stubCustomers) Create(_ context.Context, in customerdomain.CreateCustomerInput) customerdomain.CreateCustomerResult {
	return customerdomain.CreateCustomerResult{Errors: []string{"Invalid email format."}}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	httpMetrics, err := obsmetrics.NewHTTPMetrics(obsmetrics.Config{Environment: "test"}, prometheus.NewRegistry())
	require.NoError(t, err)

	s, err := schema.New(schema.Params{
		Log:       zaptest.NewLogger(t),
		Customers: stubCustomers{},
		Products:  productdomain.Service(nil),
		Orders:    orderdomain.Service(nil),
	})
	require.NoError(t, err)

	engine := NewEngine(observability.Config{Environment: "test"}, httpMetrics)
	return NewServer(ServerParams{Gin: engine, Schema: s, Log: zaptest.NewLogger(t)})
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestGraphQLPost(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"query Greeting { hello }","operationName":"Greeting"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(s, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Hello, GraphQL!", data["hello"])
}

func TestGraphQLGet(t *testing.T) {
	s := newTestServer(t)
	w := serve(s, httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape("{ hello }"), nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Hello, GraphQL!", data["hello"])
}

func TestGraphQLMutationErrorsStayInPayload(t *testing.T) {
	s := newTestServer(t)
	body := `{"query":"mutation($n: String!, $e: String!) { createCustomer(name: $n, email: $e) { success errors } }","variables":{"n":"Alice","e":"bad"}}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(s, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Nil(t, resp["errors"])
	payload := resp["data"].(map[string]interface{})["createCustomer"].(map[string]interface{})
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, []interface{}{"Invalid email format."}, payload["errors"])
}

func TestGraphQLQueryErrorsReturnOK(t *testing.T) {
	s := newTestServer(t)
	w := serve(s, httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape("{ nope }"), nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["errors"])
}

func TestGraphQLRejectsMissingQuery(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	payload := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "validation_error", payload["type"])
	errs := payload["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid_query", errs[0].(map[string]interface{})["code"])
}

func TestGraphQLRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGraphQLRejectsBadVariables(t *testing.T) {
	s := newTestServer(t)
	target := "/graphql?query=" + url.QueryEscape("{ hello }") + "&variables=" + url.QueryEscape("[1,2")
	w := serve(s, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	w := serve(s, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["error"].(map[string]interface{})["type"])
}

func TestMapError(t *testing.T) {
	status, payload := mapError(customerdomain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", payload.Type)

	status, _ = mapError(ErrInvalidRequest)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = mapError(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)

	errType, code := classifyErrorForLog(newValidationError("query", "invalid_query", "query is required"))
	assert.Equal(t, "validation_error", errType)
	assert.Equal(t, "invalid_query", code)
}
