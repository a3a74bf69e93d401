package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"OutletScraper/internal/database"
	"OutletScraper/internal/models"

	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) (*httptest.Server, *database.DBRepository) {
	t.Helper()
	repo, err := database.Open(filepath.Join(t.TempDir(), "listings.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(repo.Close)

	srv := httptest.NewServer(NewHandler(repo))
	t.Cleanup(srv.Close)
	return srv, repo
}

func seed(t *testing.T, repo *database.DBRepository) {
	t.Helper()
	for i, price := range []string{"300", "100", "200"} {
		err := repo.SaveListing(models.Listing{
			Category:    "Notebooks",
			Description: "desc " + price,
			Model:       "HP " + price,
			Storage:     models.JSONStringSlice{"256GB NVME"},
			PartNum:     string(rune('A' + i)),
			Price:       decimal.RequireFromString(price),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestListingsEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	seed(t, repo)

	resp, err := http.Get(srv.URL + "/listings?category=Notebooks&limit=2&page=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body models.ListingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Pagination.TotalPages != 2 || body.Pagination.CurrentPage != 1 {
		t.Errorf("pagination = %+v", body.Pagination)
	}
	if len(body.Data) != 2 || body.Data[0].Model != "HP 100" || body.Data[1].Model != "HP 200" {
		t.Errorf("data = %+v", body.Data)
	}
}

func TestListingsEndpointBadPrice(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/listings?min_price=cheap")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", resp.StatusCode)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)

	resp, err := http.Get(srv.URL + "/categories")
	if err != nil {
		t.Fatal(err)
	}
	var empty []string
	json.NewDecoder(resp.Body).Decode(&empty)
	resp.Body.Close()
	if empty == nil || len(empty) != 0 {
		t.Errorf("categories on empty db = %#v; want []", empty)
	}

	seed(t, repo)
	resp, err = http.Get(srv.URL + "/categories")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var categories []string
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		t.Fatal(err)
	}
	if len(categories) != 1 || categories[0] != "Notebooks" {
		t.Errorf("categories = %v", categories)
	}
}

func TestParseEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		wantText   string
	}{
		{
			name:       "Valid Row",
			body:       `{"description":"HP EliteBook 840 G5 W10P-64 i5 8350U 1.7GHz 256GB NVME 1TB SATA 16GB(1x16GB) 14.0FHD WLAN BT No-FPR No","std_price":"$899.00","sale_price":"$749.00"}`,
			wantStatus: http.StatusOK,
			wantText:   `"storage":["256GB NVME","1TB SATA"]`,
		},
		{
			name:       "Missing OS",
			body:       `{"description":"HP EliteBook 840 G5 i5 1.7GHz","std_price":"$899.00"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantText:   `"input":"HP EliteBook 840 G5 i5 1.7GHz"`,
		},
		{
			name:       "Malformed Price",
			body:       `{"description":"HP 840 W10P-64 i5 1.7GHz 256GB NVME 8GB","std_price":"$TBD"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantText:   `"input":"$TBD"`,
		},
		{
			name:       "Invalid JSON",
			body:       `{"description":`,
			wantStatus: http.StatusBadRequest,
			wantText:   "invalid JSON body",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/parse", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			var raw json.RawMessage
			if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d; want %d (%s)", resp.StatusCode, tc.wantStatus, raw)
			}
			if !strings.Contains(string(raw), tc.wantText) {
				t.Errorf("body %s does not contain %s", raw, tc.wantText)
			}
		})
	}
}

func TestParseEndpointRejectsGet(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/parse")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d; want 405", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	parseResp, err := http.Post(srv.URL+"/parse", "application/json", strings.NewReader(`{"description":"no os here","std_price":"$1"}`))
	if err != nil {
		t.Fatal(err)
	}
	parseResp.Body.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `outlet_listings_rejected_total{reason="missing_OS"}`) {
		t.Errorf("metrics output lacks rejected counter:\n%s", body)
	}
}
