package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateTransaction = "transaction created successfully"
	MessageSuccessWebhook           = "notification processed"
	MessageSuccessGetTransactions   = "transactions retrieved successfully"

	MessageFailedCreateTransaction = "failed to create transaction"
	MessageFailedWebhook           = "failed to process notification"
	MessageFailedGetTransactions   = "failed to retrieve transactions"

	ErrUnknownPlan        = errors.New("unknown subscription plan")
	ErrInvalidSignature   = errors.New("invalid midtrans signature")
	ErrTransactionMissing = errors.New("transaction not found")
)

type (
	CreateTransactionRequest struct {
		PlanMonths int `json:"plan_months" validate:"required,oneof=1 12"`
	}

	CreateTransactionResponse struct {
		OrderID     string `json:"order_id"`
		SnapToken   string `json:"snap_token"`
		RedirectURL string `json:"redirect_url"`
		GrossAmount int64  `json:"gross_amount"`
	}

	// MidtransNotification is the webhook payload Midtrans posts back.
	MidtransNotification struct {
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status"`
		PaymentType       string `json:"payment_type"`
	}

	TransactionResponse struct {
		OrderID     string     `json:"order_id"`
		GrossAmount int64      `json:"gross_amount"`
		Status      string     `json:"status"`
		PaymentType string     `json:"payment_type,omitempty"`
		PlanMonths  int        `json:"plan_months"`
		SettledAt   *time.Time `json:"settled_at,omitempty"`
		CreatedAt   time.Time  `json:"created_at"`
	}
)
