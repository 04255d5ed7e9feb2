package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

type mockWalletRepo struct {
	createFunc        func(ctx context.Context, w *entities.Wallet) error
	findByIDFunc      func(ctx context.Context, id int64) (*entities.Wallet, error)
	findByUserIDFunc  func(ctx context.Context, userID int64) (*entities.Wallet, error)
}

func (m *mockWalletRepo) Create(ctx context.Context, w *entities.Wallet) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, w)
	}
	return nil
}

func (m *mockWalletRepo) FindByID(ctx context.Context, id int64) (*entities.Wallet, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (m *mockWalletRepo) FindByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID)
	}
	return nil, domainerrors.ErrEntityNotFound
}

type mockWalletAccountRepo struct {
	findByWalletAndCurrencyFunc         func(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error)
	findByWalletAndCurrencyForUpdateFunc func(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error)
	findByWalletFunc                    func(ctx context.Context, walletID int64) ([]*entities.WalletAccount, error)
	createFunc                          func(ctx context.Context, a *entities.WalletAccount) error
	updateFunc                          func(ctx context.Context, a *entities.WalletAccount) error
}

func (m *mockWalletAccountRepo) FindByWalletAndCurrency(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error) {
	if m.findByWalletAndCurrencyFunc != nil {
		return m.findByWalletAndCurrencyFunc(ctx, walletID, currency)
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (m *mockWalletAccountRepo) FindByWalletAndCurrencyForUpdate(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error) {
	if m.findByWalletAndCurrencyForUpdateFunc != nil {
		return m.findByWalletAndCurrencyForUpdateFunc(ctx, walletID, currency)
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (m *mockWalletAccountRepo) FindByWallet(ctx context.Context, walletID int64) ([]*entities.WalletAccount, error) {
	if m.findByWalletFunc != nil {
		return m.findByWalletFunc(ctx, walletID)
	}
	return nil, nil
}

func (m *mockWalletAccountRepo) Create(ctx context.Context, a *entities.WalletAccount) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return nil
}

func (m *mockWalletAccountRepo) Update(ctx context.Context, a *entities.WalletAccount) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, a)
	}
	return nil
}

type mockTransactionRepo struct {
	createFunc               func(ctx context.Context, tx *entities.Transaction) error
	findByIDFunc             func(ctx context.Context, id int64) (*entities.Transaction, error)
	findByIdempotencyKeyFunc func(ctx context.Context, key string) (*entities.Transaction, error)
	findByCorrelationIDFunc  func(ctx context.Context, correlationID uuid.UUID) (*entities.Transaction, error)
	updateStatusFunc         func(ctx context.Context, id int64, status entities.TransactionStatus) error
	setExternalIDFunc        func(ctx context.Context, id int64, externalID string) error
	listByWalletFunc         func(ctx context.Context, walletID int64, offset, limit int) ([]*entities.Transaction, error)
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *entities.Transaction) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id int64) (*entities.Transaction, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (m *mockTransactionRepo) FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error) {
	if m.findByIdempotencyKeyFunc != nil {
		return m.findByIdempotencyKeyFunc(ctx, key)
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (m *mockTransactionRepo) FindByCorrelationID(ctx context.Context, correlationID uuid.UUID) (*entities.Transaction, error) {
	if m.findByCorrelationIDFunc != nil {
		return m.findByCorrelationIDFunc(ctx, correlationID)
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (m *mockTransactionRepo) UpdateStatus(ctx context.Context, id int64, status entities.TransactionStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockTransactionRepo) SetExternalID(ctx context.Context, id int64, externalID string) error {
	if m.setExternalIDFunc != nil {
		return m.setExternalIDFunc(ctx, id, externalID)
	}
	return nil
}

func (m *mockTransactionRepo) ListByWallet(ctx context.Context, walletID int64, offset, limit int) ([]*entities.Transaction, error) {
	if m.listByWalletFunc != nil {
		return m.listByWalletFunc(ctx, walletID, offset, limit)
	}
	return nil, nil
}

type mockCurrencyRateRepo struct {
	findByCodeFunc func(ctx context.Context, code string) (*entities.CurrencyRate, error)
	upsertFunc     func(ctx context.Context, rate *entities.CurrencyRate) error
	listFunc       func(ctx context.Context) ([]*entities.CurrencyRate, error)
}

func (m *mockCurrencyRateRepo) FindByCode(ctx context.Context, code string) (*entities.CurrencyRate, error) {
	if m.findByCodeFunc != nil {
		return m.findByCodeFunc(ctx, code)
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (m *mockCurrencyRateRepo) Upsert(ctx context.Context, rate *entities.CurrencyRate) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, rate)
	}
	return nil
}

func (m *mockCurrencyRateRepo) List(ctx context.Context) ([]*entities.CurrencyRate, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type mockProviderBalanceRepo struct {
	findByProviderForUpdateFunc func(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error)
	createFunc                  func(ctx context.Context, balance *entities.PaymentProviderBalance) error
	updateFunc                  func(ctx context.Context, balance *entities.PaymentProviderBalance) error
}

func (m *mockProviderBalanceRepo) FindByProviderForUpdate(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error) {
	if m.findByProviderForUpdateFunc != nil {
		return m.findByProviderForUpdateFunc(ctx, provider)
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (m *mockProviderBalanceRepo) Create(ctx context.Context, balance *entities.PaymentProviderBalance) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, balance)
	}
	return nil
}

func (m *mockProviderBalanceRepo) Update(ctx context.Context, balance *entities.PaymentProviderBalance) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, balance)
	}
	return nil
}

type mockProviderLinkedAccountRepo struct {
	findByUserIDFunc func(ctx context.Context, userID int64, provider entities.Provider) (*entities.ProviderLinkedAccount, error)
	createFunc       func(ctx context.Context, account *entities.ProviderLinkedAccount) error
	updateFunc       func(ctx context.Context, account *entities.ProviderLinkedAccount) error
}

func (m *mockProviderLinkedAccountRepo) FindByUserID(ctx context.Context, userID int64, provider entities.Provider) (*entities.ProviderLinkedAccount, error) {
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID, provider)
	}
	return nil, domainerrors.ErrNoProviderAccount
}

func (m *mockProviderLinkedAccountRepo) Create(ctx context.Context, account *entities.ProviderLinkedAccount) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, account)
	}
	return nil
}

func (m *mockProviderLinkedAccountRepo) Update(ctx context.Context, account *entities.ProviderLinkedAccount) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, account)
	}
	return nil
}

type mockIdempotencyCache struct {
	existsFunc   func(ctx context.Context, key string) (bool, error)
	rememberFunc func(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	getFunc      func(ctx context.Context, key string) ([]byte, bool, error)
}

func (m *mockIdempotencyCache) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, key)
	}
	return false, nil
}

func (m *mockIdempotencyCache) Remember(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if m.rememberFunc != nil {
		return m.rememberFunc(ctx, key, payload, ttl)
	}
	return nil
}

func (m *mockIdempotencyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, false, nil
}

type mockBusProducer struct {
	publishFunc func(ctx context.Context, subject string, payload []byte) error
	published   []publishedMessage
}

type publishedMessage struct {
	subject string
	payload []byte
}

func (m *mockBusProducer) Publish(ctx context.Context, subject string, payload []byte) error {
	m.published = append(m.published, publishedMessage{subject: subject, payload: payload})
	if m.publishFunc != nil {
		return m.publishFunc(ctx, subject, payload)
	}
	return nil
}

// mockUnitOfWork just runs fn with the incoming context — no real
// transaction semantics, matching how the teacher's tests exercise
// UnitOfWork-consuming use cases without a database.
type mockUnitOfWork struct {
	executeFunc func(ctx context.Context, fn func(context.Context) error) error
}

func (m *mockUnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, fn)
	}
	return fn(ctx)
}

func (m *mockUnitOfWork) ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	var result interface{}
	err := m.Execute(ctx, func(txCtx context.Context) error {
		r, err := fn(txCtx)
		result = r
		return err
	})
	return result, err
}

type mockProvider struct {
	kind                          entities.Provider
	createCheckoutSessionFunc     func(ctx context.Context, in ports.CheckoutSessionInput) (string, error)
	createConnectedAccountFunc    func(ctx context.Context, in ports.ConnectedAccountInput) (string, error)
	onboardingLinkFunc            func(ctx context.Context, externalAccountID string) (string, error)
	verifyAccountReadyFunc        func(ctx context.Context, externalAccountID string) error
	payoutFunc                    func(ctx context.Context, in ports.PayoutInput) (ports.PayoutResult, error)
	verifyWebhookSignatureFunc    func(payload []byte, signature string, isPayout bool) error
	normalizeWebhookFunc          func(payload []byte) (ports.WebhookEvent, error)
}

func (m *mockProvider) Kind() entities.Provider { return m.kind }

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, in ports.CheckoutSessionInput) (string, error) {
	if m.createCheckoutSessionFunc != nil {
		return m.createCheckoutSessionFunc(ctx, in)
	}
	return "", nil
}

func (m *mockProvider) CreateConnectedAccount(ctx context.Context, in ports.ConnectedAccountInput) (string, error) {
	if m.createConnectedAccountFunc != nil {
		return m.createConnectedAccountFunc(ctx, in)
	}
	return "", nil
}

func (m *mockProvider) OnboardingLink(ctx context.Context, externalAccountID string) (string, error) {
	if m.onboardingLinkFunc != nil {
		return m.onboardingLinkFunc(ctx, externalAccountID)
	}
	return "", nil
}

func (m *mockProvider) VerifyAccountReady(ctx context.Context, externalAccountID string) error {
	if m.verifyAccountReadyFunc != nil {
		return m.verifyAccountReadyFunc(ctx, externalAccountID)
	}
	return nil
}

func (m *mockProvider) Payout(ctx context.Context, in ports.PayoutInput) (ports.PayoutResult, error) {
	if m.payoutFunc != nil {
		return m.payoutFunc(ctx, in)
	}
	return ports.PayoutResult{}, nil
}

func (m *mockProvider) VerifyWebhookSignature(payload []byte, signature string, isPayout bool) error {
	if m.verifyWebhookSignatureFunc != nil {
		return m.verifyWebhookSignatureFunc(payload, signature, isPayout)
	}
	return nil
}

func (m *mockProvider) NormalizeWebhook(payload []byte) (ports.WebhookEvent, error) {
	if m.normalizeWebhookFunc != nil {
		return m.normalizeWebhookFunc(payload)
	}
	return ports.WebhookEvent{}, nil
}

func mustRate(value string) valueobjects.Rate {
	r, err := valueobjects.NewRate(value)
	if err != nil {
		panic(err)
	}
	return r
}

func mustUSD(t *testing.T) valueobjects.Currency {
	t.Helper()
	c, err := valueobjects.NewCurrency("USD")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustAmount(t *testing.T, amount string) valueobjects.Money {
	t.Helper()
	m, err := valueobjects.NewMoney(amount, mustUSD(t))
	if err != nil {
		t.Fatal(err)
	}
	return m
}
