package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/grootboek-reconciliation-engine/internal/config"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

const serviceName = "classification service"

// Client is the HTTP implementation of Classifier
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an HTTP classifier client from configuration
func NewClient(logger *slog.Logger, cfg *config.ClassifierConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// analyzeRequest is the wire form of a classification request
type analyzeRequest struct {
	TransactionID    string    `json:"transaction_id"`
	Date             time.Time `json:"date"`
	Amount           int64     `json:"amount"`
	Description      string    `json:"description"`
	CounterpartyName string    `json:"counterparty_name,omitempty"`
	CounterpartyIBAN string    `json:"counterparty_iban,omitempty"`
}

// Analyze submits one transaction for classification. Transport failures and
// non-2xx responses surface as ExternalServiceError so bulk mode can treat
// them as "no suggestion".
func (c *Client) Analyze(ctx context.Context, txn *banktransaction.Transaction) (*Result, error) {
	payload := analyzeRequest{
		TransactionID:    txn.ID.String(),
		Date:             txn.Date,
		Amount:           txn.Amount,
		Description:      txn.Description,
		CounterpartyName: txn.CounterpartyName,
		CounterpartyIBAN: txn.CounterpartyIBAN,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build classification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.ExternalServiceError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, shared.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, shared.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("undecodable response: %w", err),
		}
	}

	if result.Score < 0 || result.Score > 100 {
		return nil, shared.ExternalServiceError{
			Service: serviceName,
			Err:     fmt.Errorf("score %d outside 0-100", result.Score),
		}
	}

	c.logger.Debug("Classification result received",
		"transaction_id", txn.ID.String(),
		"score", result.Score,
		"mode", result.Suggestion.Mode,
	)

	return &result, nil
}
