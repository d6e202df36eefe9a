package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	assetregistry "atelier/contexts/asset-core/asset-registry"
	treasury "atelier/contexts/finance-core/treasury"
	treasurymemory "atelier/contexts/finance-core/treasury/adapters/memory"
	marketplaceengine "atelier/contexts/market-core/marketplace-engine"
	enginememory "atelier/contexts/market-core/marketplace-engine/adapters/memory"
	"atelier/internal/platform/httpserver"
)

const adminAddress = "0xadmin"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	registryModule := assetregistry.NewInMemoryModule(nil)
	engineStore := enginememory.NewStore(adminAddress)
	moneyLedger := treasurymemory.NewLedger()
	custodyStore := treasurymemory.NewStore()

	treasuryModule := treasury.NewModule(treasury.Dependencies{
		Custody:     custodyStore,
		Ledger:      moneyLedger,
		Admin:       engineStore,
		Outbox:      engineStore,
		Clock:       custodyStore,
		IDGenerator: custodyStore,
	})

	engineModule := marketplaceengine.NewModule(marketplaceengine.Dependencies{
		Offers:      engineStore,
		Listings:    engineStore,
		Trades:      engineStore,
		Registry:    registryModule.Service,
		Ledger:      moneyLedger,
		Treasury:    treasuryModule.Service,
		Admin:       engineStore,
		Outbox:      engineStore,
		Clock:       engineStore,
		IDGenerator: engineStore,
	})

	server := httpserver.New(engineModule, registryModule, treasuryModule, nil, ":0")
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method string, path string, caller string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller-Address", caller)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response failed: %v", err)
	}
	return resp, buf.Bytes()
}

func TestMarketplaceFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	// Admin configures the primary sale.
	resp, body := doJSON(t, ts, http.MethodPost, "/v1/admin/mint-offers", adminAddress, map[string]any{
		"asset_ids": []uint64{1},
		"prices":    []int64{100},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set mint offers: status %d body %s", resp.StatusCode, body)
	}
	resp, body = doJSON(t, ts, http.MethodPost, "/v1/admin/royalty-recipients", adminAddress, map[string]any{
		"asset_ids":  []uint64{1},
		"recipients": []string{"0xartist"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set royalty recipients: status %d body %s", resp.StatusCode, body)
	}

	// Buyer mints at the offer price.
	resp, body = doJSON(t, ts, http.MethodPost, "/v1/assets/1/mint", "0xseller", map[string]any{
		"attached_value": 100,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("mint: status %d body %s", resp.StatusCode, body)
	}
	var mint struct {
		Data struct {
			RoyaltyPaid      int64 `json:"royalty_paid"`
			PlatformRetained int64 `json:"platform_retained"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &mint); err != nil {
		t.Fatalf("decode mint response failed: %v", err)
	}
	if mint.Data.RoyaltyPaid != 75 || mint.Data.PlatformRetained != 25 {
		t.Fatalf("unexpected mint payout: %s", body)
	}

	// Owner lists and a second buyer purchases.
	resp, body = doJSON(t, ts, http.MethodPost, "/v1/assets/1/list", "0xseller", map[string]any{"price": 50})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d body %s", resp.StatusCode, body)
	}
	resp, body = doJSON(t, ts, http.MethodPost, "/v1/assets/1/buy", "0xbuyer", map[string]any{"attached_value": 50})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("buy: status %d body %s", resp.StatusCode, body)
	}
	var buy struct {
		Data struct {
			SellerProceeds int64 `json:"seller_proceeds"`
			RoyaltyPaid    int64 `json:"royalty_paid"`
			PlatformFee    int64 `json:"platform_fee"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &buy); err != nil {
		t.Fatalf("decode buy response failed: %v", err)
	}
	if buy.Data.SellerProceeds != 45 || buy.Data.RoyaltyPaid != 3 || buy.Data.PlatformFee != 2 {
		t.Fatalf("unexpected resale split: %s", body)
	}

	// The asset view reflects the new owner and cleared listing.
	resp, body = doJSON(t, ts, http.MethodGet, "/v1/assets/1", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get asset: status %d body %s", resp.StatusCode, body)
	}
	var view struct {
		Data struct {
			Owner   string          `json:"owner"`
			Listing json.RawMessage `json:"listing"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("decode asset view failed: %v", err)
	}
	if view.Data.Owner != "0xbuyer" {
		t.Fatalf("expected owner 0xbuyer, got %s", view.Data.Owner)
	}
	if len(view.Data.Listing) != 0 {
		t.Fatalf("expected no listing after sale, got %s", view.Data.Listing)
	}

	// Custody holds 25 from the mint plus 2 from the resale.
	resp, body = doJSON(t, ts, http.MethodGet, "/v1/treasury/balance", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("treasury balance: status %d body %s", resp.StatusCode, body)
	}
	var balance struct {
		Data struct {
			Balance int64 `json:"balance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &balance); err != nil {
		t.Fatalf("decode balance failed: %v", err)
	}
	if balance.Data.Balance != 27 {
		t.Fatalf("expected custody balance 27, got %d", balance.Data.Balance)
	}

	// Only the administrator may withdraw.
	resp, _ = doJSON(t, ts, http.MethodPost, "/v1/treasury/withdraw", "0xbuyer", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin withdraw, got %d", resp.StatusCode)
	}
	resp, body = doJSON(t, ts, http.MethodPost, "/v1/treasury/withdraw", adminAddress, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("withdraw: status %d body %s", resp.StatusCode, body)
	}
	var withdraw struct {
		Data struct {
			Withdrawn int64 `json:"withdrawn"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &withdraw); err != nil {
		t.Fatalf("decode withdraw failed: %v", err)
	}
	if withdraw.Data.Withdrawn != 27 {
		t.Fatalf("expected withdrawal of 27, got %d", withdraw.Data.Withdrawn)
	}
}

func TestHTTPErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	// Missing caller header.
	resp, _ := doJSON(t, ts, http.MethodPost, "/v1/assets/1/mint", "", map[string]any{"attached_value": 100})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without caller header, got %d", resp.StatusCode)
	}

	// Malformed asset id.
	resp, _ = doJSON(t, ts, http.MethodPost, "/v1/assets/not-a-number/mint", "0xbuyer", map[string]any{"attached_value": 100})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad asset id, got %d", resp.StatusCode)
	}

	// Unoffered asset.
	resp, body := doJSON(t, ts, http.MethodPost, "/v1/assets/9/mint", "0xbuyer", map[string]any{"attached_value": 100})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for not-for-sale mint, got %d body %s", resp.StatusCode, body)
	}
	var errResp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}
	if errResp.Code != "not_for_sale" {
		t.Fatalf("expected code not_for_sale, got %s", errResp.Code)
	}

	// Non-admin configuration.
	resp, _ = doJSON(t, ts, http.MethodPost, "/v1/admin/mint-offers", "0xstranger", map[string]any{
		"asset_ids": []uint64{1},
		"prices":    []int64{100},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin config, got %d", resp.StatusCode)
	}
}

func TestOwnerAssetsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// Configure and mint three assets to the same owner.
	doJSON(t, ts, http.MethodPost, "/v1/admin/mint-offers", adminAddress, map[string]any{
		"asset_ids": []uint64{1, 2, 3},
		"prices":    []int64{10, 10, 10},
	})
	doJSON(t, ts, http.MethodPost, "/v1/admin/royalty-recipients", adminAddress, map[string]any{
		"asset_ids":  []uint64{1, 2, 3},
		"recipients": []string{"0xartist", "0xartist", "0xartist"},
	})
	for id := 1; id <= 3; id++ {
		resp, body := doJSON(t, ts, http.MethodPost, fmt.Sprintf("/v1/assets/%d/mint", id), "0xcollector", map[string]any{"attached_value": 10})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("mint %d: status %d body %s", id, resp.StatusCode, body)
		}
	}

	resp, body := doJSON(t, ts, http.MethodGet, "/v1/owners/0xcollector/assets", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner assets: status %d body %s", resp.StatusCode, body)
	}
	var owned struct {
		Data struct {
			Count    int      `json:"count"`
			AssetIDs []uint64 `json:"asset_ids"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &owned); err != nil {
		t.Fatalf("decode owner assets failed: %v", err)
	}
	if owned.Data.Count != 3 || len(owned.Data.AssetIDs) != 3 {
		t.Fatalf("expected 3 owned assets, got %+v", owned.Data)
	}
	for i, want := range []uint64{1, 2, 3} {
		if owned.Data.AssetIDs[i] != want {
			t.Fatalf("expected enumeration order [1 2 3], got %v", owned.Data.AssetIDs)
		}
	}
}
