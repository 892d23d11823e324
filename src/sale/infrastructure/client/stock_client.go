package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// StockMovementRequest es el request de impacto de inventario.
type StockMovementRequest struct {
	SKU       string          `json:"sku"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference"`
}

// StockMovementResponse es la respuesta del servicio de stock.
type StockMovementResponse struct {
	Success   bool   `json:"success"`
	SKU       string `json:"sku"`
	Message   string `json:"message,omitempty"`
	Reference string `json:"reference"`
}

// StockClient es el cliente HTTP del servicio de inventario: descuenta
// stock al vender y lo restituye al cancelar.
type StockClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewStockClient crea una nueva instancia del cliente.
func NewStockClient() *StockClient {
	baseURL := os.Getenv("STOCK_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8092" // Default para entorno local
	}

	return &StockClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// RegisterSale descuenta stock por una línea vendida.
func (c *StockClient) RegisterSale(ctx context.Context, sku string, quantity decimal.Decimal, reference string) error {
	return c.post(ctx, "/api/v1/stock/sale", sku, quantity, reference)
}

// RestoreStock restituye el stock de una línea cancelada.
func (c *StockClient) RestoreStock(ctx context.Context, sku string, quantity decimal.Decimal, reference string) error {
	return c.post(ctx, "/api/v1/stock/restore", sku, quantity, reference)
}

func (c *StockClient) post(ctx context.Context, path, sku string, quantity decimal.Decimal, reference string) error {
	url := c.baseURL + path

	body, err := json.Marshal(StockMovementRequest{SKU: sku, Quantity: quantity, Reference: reference})
	if err != nil {
		return fmt.Errorf("error marshaling stock request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling stock service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stock service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed StockMovementResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("error parsing stock response: %w", err)
	}
	if !parsed.Success {
		return fmt.Errorf("stock movement rejected for SKU %s: %s", sku, parsed.Message)
	}
	return nil
}
