package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/household-ledger/internal/operator"
	"github.com/carson-networks/household-ledger/internal/service"
	"github.com/carson-networks/household-ledger/internal/storage/memory"
	"github.com/carson-networks/household-ledger/internal/txsort"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	d := operator.NewOperatorDelegator(memory.New(), operator.Options{Logger: logger})
	t.Cleanup(d.Stop)
	sorter, err := txsort.New("en")
	require.NoError(t, err)

	rest := &Rest{
		Logger:   logger,
		Service:  service.NewService(d, sorter, time.UTC, nil),
		Operator: d,
	}
	srv := httptest.NewServer(rest.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func TestRoutes_Status(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := do(t, http.MethodGet, srv.URL+"/status", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutes_HouseholdFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/v1/household", `{"name":"Home","owner":"Dana"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["household"].(map[string]any)["id"].(string)
	base := srv.URL + "/v1/household/" + id

	resp, body = do(t, http.MethodPost, base+"/account", `{"name":"Checking","member":"Dana","initialBalance":"100"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	accountID := body["id"].(string)

	resp, body = do(t, http.MethodPost, base+"/transaction",
		`{"type":"expense","amount":"30","category":"Supermarket","date":"`+time.Now().Format(time.DateOnly)+`","member":"Dana","accountID":"`+accountID+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	txID := body["id"].(string)

	resp, body = do(t, http.MethodGet, base+"/accounts?member=Dana", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var checking map[string]any
	for _, a := range body["accounts"].([]any) {
		if acc := a.(map[string]any); acc["id"] == accountID {
			checking = acc
		}
	}
	require.NotNil(t, checking)
	assert.Equal(t, "70", checking["balance"])

	resp, body = do(t, http.MethodGet, base+"/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "30.00", body["expense"])

	resp, _ = do(t, http.MethodDelete, base+"/account/"+accountID, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, base+"/transaction/"+txID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, base+"/account/"+accountID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
