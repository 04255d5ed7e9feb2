package entities

import "time"

// ProviderLinkedAccount is a user's connected account at a provider (e.g.
// Stripe Express), keyed (id, user_id UNIQUE, external_account_id) exactly
// as original_source's StripeAccounts. One per user per provider.
type ProviderLinkedAccount struct {
	id                 int64
	userID             int64
	provider           Provider
	externalAccountID  string
	onboardingComplete bool
	disabledReason     string
	createdAt          time.Time
	updatedAt          time.Time
}

// NewProviderLinkedAccount records a freshly-created connected account,
// not yet onboarded.
func NewProviderLinkedAccount(userID int64, provider Provider, externalAccountID string) *ProviderLinkedAccount {
	now := time.Now()
	return &ProviderLinkedAccount{
		userID:            userID,
		provider:          provider,
		externalAccountID: externalAccountID,
		createdAt:         now,
		updatedAt:         now,
	}
}

// ReconstructProviderLinkedAccount hydrates a row from stored data.
func ReconstructProviderLinkedAccount(
	id, userID int64, provider Provider, externalAccountID string,
	onboardingComplete bool, disabledReason string, createdAt, updatedAt time.Time,
) *ProviderLinkedAccount {
	return &ProviderLinkedAccount{
		id: id, userID: userID, provider: provider, externalAccountID: externalAccountID,
		onboardingComplete: onboardingComplete, disabledReason: disabledReason,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (a *ProviderLinkedAccount) ID() int64                 { return a.id }
func (a *ProviderLinkedAccount) UserID() int64              { return a.userID }
func (a *ProviderLinkedAccount) Provider() Provider          { return a.provider }
func (a *ProviderLinkedAccount) ExternalAccountID() string   { return a.externalAccountID }
func (a *ProviderLinkedAccount) DisabledReason() string      { return a.disabledReason }
func (a *ProviderLinkedAccount) OnboardingComplete() bool    { return a.onboardingComplete }
func (a *ProviderLinkedAccount) CreatedAt() time.Time        { return a.createdAt }
func (a *ProviderLinkedAccount) UpdatedAt() time.Time        { return a.updatedAt }
func (a *ProviderLinkedAccount) AssignID(id int64)           { a.id = id }

// IsReady mirrors original_source's verify_account_ready check: an account
// is ready for payouts only once onboarding completed and the provider
// hasn't flagged a disabled_reason.
func (a *ProviderLinkedAccount) IsReady() bool {
	return a.onboardingComplete && a.disabledReason == ""
}

// MarkOnboarded records that the account finished the provider's onboarding
// flow.
func (a *ProviderLinkedAccount) MarkOnboarded() {
	a.onboardingComplete = true
	a.disabledReason = ""
	a.updatedAt = time.Now()
}

// SetDisabledReason records the provider's requirements.disabled_reason,
// making the account not-ready until cleared.
func (a *ProviderLinkedAccount) SetDisabledReason(reason string) {
	a.disabledReason = reason
	a.updatedAt = time.Now()
}
