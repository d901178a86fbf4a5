package billing

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/zy538324/homegrubhub-backend/domain"
	"github.com/zy538324/homegrubhub-backend/entities"
	"github.com/zy538324/homegrubhub-backend/internal/utils"
	"github.com/zy538324/homegrubhub-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

type (
	BillingService interface {
		CreateTransaction(ctx context.Context, req domain.CreateTransactionRequest, userID string) (domain.CreateTransactionResponse, error)
		HandleNotification(ctx context.Context, notif domain.MidtransNotification) error
		GetUserTransactions(ctx context.Context, userID string, page, limit int) ([]domain.TransactionResponse, int64, error)
	}

	billingService struct {
		billingRepository BillingRepository
		userRepository    user.UserRepository
		snapClient        snap.Client
	}
)

func NewBillingService(billingRepository BillingRepository, userRepository user.UserRepository) BillingService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(utils.GetConfig("SERVER_KEY"), env)

	return &billingService{
		billingRepository: billingRepository,
		userRepository:    userRepository,
		snapClient:        client,
	}
}

func (s *billingService) CreateTransaction(ctx context.Context, req domain.CreateTransactionRequest, userID string) (domain.CreateTransactionResponse, error) {
	amount, ok := utils.GetProPrice(req.PlanMonths)
	if !ok {
		return domain.CreateTransactionResponse{}, domain.ErrUnknownPlan
	}

	u, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		return domain.CreateTransactionResponse{}, domain.ErrUserNotFound
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateTransactionResponse{}, domain.ErrParseUUID
	}

	orderID := fmt.Sprintf("HGH-PRO-%s", uuid.New().String())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: u.Name,
			Email: u.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    fmt.Sprintf("pro-%dm", req.PlanMonths),
				Name:  fmt.Sprintf("HomeGrubHub Pro (%d months)", req.PlanMonths),
				Price: amount,
				Qty:   1,
			},
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return domain.CreateTransactionResponse{}, snapErr
	}

	tx := &entities.Transaction{
		ID:          uuid.New(),
		UserID:      userUUID,
		OrderID:     orderID,
		GrossAmount: amount,
		Status:      entities.TransactionPending,
		SnapToken:   snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
		PlanMonths:  req.PlanMonths,
	}
	if err := s.billingRepository.CreateTransaction(ctx, tx); err != nil {
		return domain.CreateTransactionResponse{}, err
	}

	return domain.CreateTransactionResponse{
		OrderID:     orderID,
		SnapToken:   snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
		GrossAmount: amount,
	}, nil
}

// HandleNotification processes the Midtrans webhook. The signature key is
// sha512(order_id + status_code + gross_amount + server_key).
func (s *billingService) HandleNotification(ctx context.Context, notif domain.MidtransNotification) error {
	if !s.validSignature(notif) {
		return domain.ErrInvalidSignature
	}

	tx, err := s.billingRepository.GetByOrderID(ctx, notif.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransactionMissing
		}
		return err
	}

	tx.PaymentType = notif.PaymentType

	switch notif.TransactionStatus {
	case "capture":
		if notif.FraudStatus != "accept" {
			tx.Status = entities.TransactionPending
			return s.billingRepository.UpdateTransaction(ctx, tx)
		}
		fallthrough
	case "settlement":
		now := time.Now()
		tx.Status = entities.TransactionSettled
		tx.SettledAt = &now
		if err := s.billingRepository.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
		return s.activatePro(ctx, tx)
	case "expire":
		tx.Status = entities.TransactionExpired
		return s.billingRepository.UpdateTransaction(ctx, tx)
	case "cancel", "deny":
		tx.Status = entities.TransactionCancelled
		return s.billingRepository.UpdateTransaction(ctx, tx)
	default:
		return s.billingRepository.UpdateTransaction(ctx, tx)
	}
}

func (s *billingService) activatePro(ctx context.Context, tx *entities.Transaction) error {
	u, err := s.userRepository.GetByID(ctx, tx.UserID.String())
	if err != nil {
		return err
	}

	// Extend from the current expiry when the subscription is still active.
	base := time.Now()
	if u.Tier == entities.TierPro && u.ProExpires != nil && u.ProExpires.After(base) {
		base = *u.ProExpires
	}
	expires := base.AddDate(0, tx.PlanMonths, 0)

	u.Tier = entities.TierPro
	u.ProExpires = &expires
	return s.userRepository.Update(ctx, u)
}

func (s *billingService) validSignature(notif domain.MidtransNotification) bool {
	payload := notif.OrderID + notif.StatusCode + notif.GrossAmount + utils.GetConfig("SERVER_KEY")
	sum := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(sum[:]) == notif.SignatureKey
}

func (s *billingService) GetUserTransactions(ctx context.Context, userID string, page, limit int) ([]domain.TransactionResponse, int64, error) {
	txs, count, err := s.billingRepository.GetUserTransactions(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		result = append(result, domain.TransactionResponse{
			OrderID:     tx.OrderID,
			GrossAmount: tx.GrossAmount,
			Status:      tx.Status,
			PaymentType: tx.PaymentType,
			PlanMonths:  tx.PlanMonths,
			SettledAt:   tx.SettledAt,
			CreatedAt:   tx.CreatedAt,
		})
	}
	return result, count, nil
}
