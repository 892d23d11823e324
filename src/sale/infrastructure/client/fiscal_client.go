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

	"pdv/src/sale/domain/entity"
)

// FiscalClient es el cliente HTTP del emisor fiscal. Solo consume el
// contrato request/response; el protocolo con la autoridad tributaria es
// asunto del servicio emisor.
type FiscalClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFiscalClient crea una nueva instancia del cliente.
func NewFiscalClient() *FiscalClient {
	baseURL := os.Getenv("FISCAL_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8091" // Default para entorno local
	}

	return &FiscalClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// Issue pide la emisión del comprobante. Un status no-2xx con cuerpo
// legible se devuelve como FiscalResult{Success: false}; los errores de
// transporte se devuelven como error.
func (c *FiscalClient) Issue(ctx context.Context, fiscalReq *entity.FiscalRequest) (*entity.FiscalResult, error) {
	url := fmt.Sprintf("%s/api/v1/documents", c.baseURL)

	body, err := json.Marshal(fiscalReq)
	if err != nil {
		return nil, fmt.Errorf("error marshaling fiscal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling fiscal service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	var result entity.FiscalResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fiscal service returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("error parsing fiscal response: %w", err)
	}

	return &result, nil
}
