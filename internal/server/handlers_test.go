package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fairshare-app/backend/internal/cache"
	"github.com/fairshare-app/backend/internal/models"
	"github.com/fairshare-app/backend/internal/service"
	"github.com/fairshare-app/backend/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "fairshare-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := service.NewExpenseService(store, cache.NewMemory(), 0)
	ts := httptest.NewServer(New(svc).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func dinnerBody() map[string]any {
	return map[string]any{
		"groupId": "g1",
		"title":   "Dinner",
		"amount":  90.0,
		"payers":  []map[string]any{{"userId": "alice", "paidAmount": 90.0}},
		"members": []map[string]any{
			{"userId": "alice", "amountOwed": 30.0},
			{"userId": "bob", "amountOwed": 30.0},
			{"userId": "carol", "amountOwed": 30.0},
		},
	}
}

func TestAllocateEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/allocate", map[string]any{
		"total": 90.0,
		"mode":  "equal",
		"members": []map[string]any{
			{"userId": "alice", "included": true},
			{"userId": "bob", "included": true},
			{"userId": "carol", "included": true},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body struct {
		Members []models.Member `json:"members"`
	}
	decodeBody(t, resp, &body)

	if len(body.Members) != 3 {
		t.Fatalf("got %d members, want 3", len(body.Members))
	}
	for _, m := range body.Members {
		if math.Abs(m.AmountOwed-30.0) > 0.01 {
			t.Errorf("%s owes %v, want 30.0", m.UserID, m.AmountOwed)
		}
	}
}

func TestAllocateEndpointBadMode(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/allocate", map[string]any{
		"total":   90.0,
		"mode":    "percentages",
		"members": []map[string]any{{"userId": "alice", "included": true}},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/expenses", dinnerBody())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created models.Expense
	decodeBody(t, resp, &created)
	if created.ID == "" {
		t.Fatal("created expense has no ID")
	}

	// Balances reflect the expense.
	resp, err := http.Get(ts.URL + "/api/v1/groups/g1/balances")
	if err != nil {
		t.Fatalf("GET balances failed: %v", err)
	}
	var balancesBody struct {
		Balances map[string]float64 `json:"balances"`
	}
	decodeBody(t, resp, &balancesBody)
	if math.Abs(balancesBody.Balances["alice"]-60.0) > 0.01 {
		t.Errorf("alice = %v, want 60.0", balancesBody.Balances["alice"])
	}

	// Settlement pays alice back.
	resp, err = http.Get(ts.URL + "/api/v1/groups/g1/settlement")
	if err != nil {
		t.Fatalf("GET settlement failed: %v", err)
	}
	var planBody struct {
		Transfers []models.Transfer `json:"transfers"`
	}
	decodeBody(t, resp, &planBody)
	if len(planBody.Transfers) != 2 {
		t.Errorf("got %d transfers, want 2", len(planBody.Transfers))
	}

	// List shows the expense.
	resp, err = http.Get(ts.URL + "/api/v1/groups/g1/expenses")
	if err != nil {
		t.Fatalf("GET expenses failed: %v", err)
	}
	var listBody struct {
		Expenses []*models.Expense `json:"expenses"`
	}
	decodeBody(t, resp, &listBody)
	if len(listBody.Expenses) != 1 {
		t.Fatalf("got %d expenses, want 1", len(listBody.Expenses))
	}

	// Delete reverses it.
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/expenses/%s", ts.URL, created.ID), nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp, err = http.Get(ts.URL + "/api/v1/groups/g1/balances")
	if err != nil {
		t.Fatalf("GET balances failed: %v", err)
	}
	// Reset the decode target: json.Unmarshal merges into a non-nil map,
	// which would keep the pre-delete entries.
	balancesBody.Balances = nil
	decodeBody(t, resp, &balancesBody)
	if len(balancesBody.Balances) != 0 {
		t.Errorf("balances after delete = %v, want empty", balancesBody.Balances)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing title", func(b map[string]any) { b["title"] = "" }},
		{"zero amount", func(b map[string]any) { b["amount"] = 0.0 }},
		{"missing group", func(b map[string]any) { b["groupId"] = "" }},
		{"members short of total", func(b map[string]any) {
			b["members"] = []map[string]any{{"userId": "alice", "amountOwed": 30.0}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := dinnerBody()
			tt.mutate(body)
			resp := postJSON(t, ts.URL+"/api/v1/expenses", body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestDeleteUnknownExpense(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/expenses/nope", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestUserSummaryEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/expenses", dinnerBody())
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	resp, err := http.Get(ts.URL + "/api/v1/users/bob/summary")
	if err != nil {
		t.Fatalf("GET summary failed: %v", err)
	}
	var summary service.UserSummary
	decodeBody(t, resp, &summary)
	if math.Abs(summary.Owes-30.0) > 0.01 {
		t.Errorf("owes = %v, want 30.0", summary.Owes)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}
