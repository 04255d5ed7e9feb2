package wallet

import (
	"context"

	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

type mockWalletRepo struct {
	createFunc       func(ctx context.Context, w *entities.Wallet) error
	findByIDFunc     func(ctx context.Context, id int64) (*entities.Wallet, error)
	findByUserIDFunc func(ctx context.Context, userID int64) (*entities.Wallet, error)
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
	findByWalletAndCurrencyFunc          func(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error)
	findByWalletAndCurrencyForUpdateFunc func(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error)
	findByWalletFunc                     func(ctx context.Context, walletID int64) ([]*entities.WalletAccount, error)
	createFunc                           func(ctx context.Context, a *entities.WalletAccount) error
	updateFunc                           func(ctx context.Context, a *entities.WalletAccount) error
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
