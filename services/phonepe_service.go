package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/utils"
)

const (
	payPath    = "/pg/v1/pay"
	statusPath = "/pg/v1/status"
)

// SettlementState is the gateway's authoritative view of a charge.
type SettlementState string

const (
	SettlementConfirmed SettlementState = "confirmed"
	SettlementFailed    SettlementState = "failed"
)

// PhonePeConfig holds gateway credentials. All values come from the
// environment; nothing here is ever a literal in code.
type PhonePeConfig struct {
	MerchantID string
	SaltKey    string
	SaltIndex  string
	BaseURL    string
	AppBaseURL string
}

func (c *PhonePeConfig) Validate() error {
	if c.MerchantID == "" {
		return fmt.Errorf("merchant id is not set")
	}
	if c.SaltKey == "" {
		return fmt.Errorf("salt key is not set")
	}
	if c.SaltIndex == "" {
		return fmt.Errorf("salt index is not set")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("gateway base url is not set")
	}
	return nil
}

// PhonePeService talks to the payment gateway. Requests are signed with
// sha256(payload + path + saltKey) and the salt index appended as
// "###<index>", carried in the X-VERIFY header.
type PhonePeService struct {
	config     *PhonePeConfig
	httpClient *http.Client
}

func NewPhonePeService(config *PhonePeConfig) *PhonePeService {
	return &PhonePeService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chargeRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Name                  string            `json:"name"`
	MobileNumber          string            `json:"mobileNumber"`
	Amount                int64             `json:"amount"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	PaymentInstrument     map[string]string `json:"paymentInstrument"`
}

// ChargeResponse is the subset of the gateway response the callers need.
type ChargeResponse struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// InitiateCharge submits a signed charge for an order. The payer's phone
// number must be exactly 10 digits. Transport failures map to
// GatewayUnavailable and leave the order safe to poll later; an explicit
// decline maps to GatewayRejected.
func (s *PhonePeService) InitiateCharge(order *models.Order, payerName, payerMobile string) (*ChargeResponse, error) {
	if len(payerMobile) != 10 || !allDigits(payerMobile) {
		return nil, utils.NewAppError(utils.KindInvalidInput, "invalid mobile number provided")
	}

	payload := chargeRequest{
		MerchantID:            s.config.MerchantID,
		MerchantUserID:        "MUID" + uuid.NewString(),
		Name:                  payerName,
		MobileNumber:          "+91" + payerMobile,
		Amount:                order.TotalAmount,
		MerchantTransactionID: order.OrderID,
		RedirectURL:           fmt.Sprintf("%s/table/paymentConfirm/%s", s.config.AppBaseURL, order.OrderID),
		RedirectMode:          "REDIRECT",
		PaymentInstrument:     map[string]string{"type": "PAY_PAGE"},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, utils.WrapError(utils.KindInternal, "marshal charge payload", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return nil, utils.WrapError(utils.KindInternal, "marshal charge body", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.BaseURL+payPath, bytes.NewReader(body))
	if err != nil {
		return nil, utils.WrapError(utils.KindInternal, "build charge request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", s.checksum(encoded+payPath))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, utils.WrapError(utils.KindGatewayUnavailable, "payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.WrapError(utils.KindGatewayUnavailable, "reading gateway response", err)
	}

	var chargeResp ChargeResponse
	if err := json.Unmarshal(respBody, &chargeResp); err != nil {
		return nil, utils.WrapError(utils.KindGatewayUnavailable, "malformed gateway response", err)
	}

	if !chargeResp.Success {
		utils.ErrorLogger.Printf("phonepe: charge declined for %s: %s %s", order.OrderID, chargeResp.Code, chargeResp.Message)
		return &chargeResp, utils.NewAppError(utils.KindGatewayRejected, "payment gateway declined the charge")
	}

	return &chargeResp, nil
}

// CheckStatus polls settlement state for an order id. It performs no store
// mutation; callers decide what a state change means.
func (s *PhonePeService) CheckStatus(orderID string) (SettlementState, error) {
	path := fmt.Sprintf("%s/%s/%s", statusPath, s.config.MerchantID, orderID)

	req, err := http.NewRequest(http.MethodGet, s.config.BaseURL+path, nil)
	if err != nil {
		return "", utils.WrapError(utils.KindInternal, "build status request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", s.checksum(path))
	req.Header.Set("X-MERCHANT-ID", s.config.MerchantID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", utils.WrapError(utils.KindGatewayUnavailable, "payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", utils.WrapError(utils.KindGatewayUnavailable, "reading gateway response", err)
	}

	var statusResp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return "", utils.WrapError(utils.KindGatewayUnavailable, "malformed gateway response", err)
	}

	if statusResp.Success {
		return SettlementConfirmed, nil
	}
	return SettlementFailed, nil
}

func (s *PhonePeService) checksum(stringToSign string) string {
	sum := sha256.Sum256([]byte(stringToSign + s.config.SaltKey))
	return hex.EncodeToString(sum[:]) + "###" + s.config.SaltIndex
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
