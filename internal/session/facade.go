package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"etalase/internal/apperrors"
	"etalase/internal/authprovider"
	"etalase/internal/flagstore"
	"etalase/internal/metrics"
	"etalase/internal/models"
	"etalase/internal/repositories"
	"etalase/internal/validation"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// Provider is the account backend the façade signs users in with.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*authprovider.Account, error)
	SignUp(ctx context.Context, email, password, displayName string) (*authprovider.Account, error)
	SignInAnonymously(ctx context.Context) (*authprovider.Account, error)
	SendPasswordReset(ctx context.Context, email string) error
	SignOut(ctx context.Context, acct *authprovider.Account) error
}

var authCategories = map[string]apperrors.AuthCategory{
	authprovider.CodeEmailNotFound:   apperrors.AuthUnknownAccount,
	authprovider.CodeInvalidEmail:    apperrors.AuthInvalidEmail,
	authprovider.CodeTooManyAttempts: apperrors.AuthRateLimited,
	authprovider.CodeEmailExists:     apperrors.AuthEmailInUse,
	authprovider.CodeInvalidPassword: apperrors.AuthWrongPassword,
}

// Facade runs the login, signup and guest flows and is the only writer of
// the Store. Operations are serialized; none of them retries.
type Facade struct {
	store     *Store
	provider  Provider
	profiles  repositories.UserProfileRepository
	flags     flagstore.Store
	validator *validation.Validator
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu sync.Mutex
}

// NewFacade creates a Facade writing to store. m may be nil.
func NewFacade(
	store *Store,
	provider Provider,
	profiles repositories.UserProfileRepository,
	flags flagstore.Store,
	validator *validation.Validator,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Facade {
	return &Facade{
		store:     store,
		provider:  provider,
		profiles:  profiles,
		flags:     flags,
		validator: validator,
		metrics:   m,
		logger:    logger,
	}
}

// Store returns the store the façade writes to.
func (f *Facade) Store() *Store { return f.store }

// Login signs a registered user in and loads their profile record.
func (f *Facade) Login(ctx context.Context, form validation.LoginForm) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	form.Email = strings.TrimSpace(form.Email)
	if err := f.validator.Struct(form); err != nil {
		return f.fail("login", err)
	}
	if cur := f.store.Current(); cur.State != SignedOut {
		return f.fail("login", apperrors.NewValidationError("sign out before logging in to another account"))
	}

	f.store.transition(SigningIn)
	acct, err := f.provider.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		f.store.replace(Snapshot{State: SignedOut})
		return f.fail("login", translate(err))
	}

	next := Snapshot{
		State:    SignedIn,
		Identity: identityOf(acct),
		Profile:  f.loadProfile(ctx, acct),
	}
	f.store.replace(next)
	f.metrics.IncrementAuth("login", "ok")
	return next, nil
}

// Signup creates an account and its profile record. A guest session may sign
// up directly; the guest account is signed out once the new one exists.
//
// If the account is created but the profile record cannot be saved, the
// session is still signed in and a FetchError is returned alongside it.
func (f *Facade) Signup(ctx context.Context, form validation.SignupForm) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	form.Email = strings.TrimSpace(form.Email)
	if err := f.validator.Struct(form); err != nil {
		return f.fail("signup", err)
	}
	prev := f.store.Current()
	if prev.State != SignedOut && prev.State != GuestSession {
		return f.fail("signup", apperrors.NewValidationError("sign out before creating a new account"))
	}

	f.store.transition(SigningUp)
	displayName := strings.TrimSpace(form.FirstName + " " + form.LastName)
	acct, err := f.provider.SignUp(ctx, form.Email, form.Password, displayName)
	if err != nil {
		f.store.replace(prev)
		return f.fail("signup", translate(err))
	}
	if prev.IsGuest() {
		f.signOut(ctx, prev)
	}

	profile := &models.UserProfile{
		UID:       acct.UID,
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     acct.Email,
	}
	next := Snapshot{State: SignedIn, Identity: identityOf(acct), Profile: profile}
	f.store.replace(next)

	if err := f.profiles.Save(ctx, profile); err != nil {
		f.logger.Error("failed to save user profile after signup", zap.String("uid", acct.UID), zap.Error(err))
		return next, f.record("signup", apperrors.NewFetchError("save_user_profile", err))
	}
	f.metrics.IncrementAuth("signup", "ok")
	return next, nil
}

// LoginAnonymously starts a guest session.
func (f *Facade) LoginAnonymously(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cur := f.store.Current(); cur.State != SignedOut {
		return f.fail("anonymous", apperrors.NewValidationError("already signed in"))
	}

	f.store.transition(SigningIn)
	acct, err := f.provider.SignInAnonymously(ctx)
	if err != nil {
		f.store.replace(Snapshot{State: SignedOut})
		return f.fail("anonymous", translate(err))
	}
	acct.Anonymous = true

	next := Snapshot{State: GuestSession, Identity: identityOf(acct)}
	f.store.replace(next)
	f.metrics.IncrementAuth("anonymous", "ok")
	return next, nil
}

// ResetPassword asks the provider to email a reset link. The session is untouched.
func (f *Facade) ResetPassword(ctx context.Context, form validation.ResetForm) error {
	form.Email = strings.TrimSpace(form.Email)
	if err := f.validator.Struct(form); err != nil {
		_, err = f.fail("reset_password", err)
		return err
	}
	if err := f.provider.SendPasswordReset(ctx, form.Email); err != nil {
		_, err = f.fail("reset_password", translate(err))
		return err
	}
	f.metrics.IncrementAuth("reset_password", "ok")
	return nil
}

// UpdateUserProfile applies patch to the signed-in user's profile record.
// Guests are rejected before anything else happens.
func (f *Facade) UpdateUserProfile(ctx context.Context, patch validation.ProfilePatch) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur := f.store.Current()
	if cur.IsGuest() {
		return f.fail("update_profile", apperrors.NewValidationError("guests cannot edit a profile; create an account first"))
	}
	if !cur.IsMember() {
		return f.fail("update_profile", apperrors.NewValidationError("sign in to edit your profile"))
	}
	if patch.Empty() {
		return f.fail("update_profile", apperrors.NewValidationError("nothing to update"))
	}
	if err := f.validator.Struct(patch); err != nil {
		return f.fail("update_profile", err)
	}

	profile := models.UserProfile{UID: cur.UID(), Email: cur.Identity.Email}
	if cur.Profile != nil {
		profile = *cur.Profile
	}
	if patch.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		profile.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		profile.Email = strings.TrimSpace(*patch.Email)
	}

	if err := f.profiles.Save(ctx, &profile); err != nil {
		return f.fail("update_profile", apperrors.NewFetchError("save_user_profile", err))
	}

	next := cur
	next.Profile = &profile
	f.store.replace(next)
	f.metrics.IncrementAuth("update_profile", "ok")
	return next, nil
}

// LogoutGuestAndSignup records the intent to sign up, then ends the guest
// session. The flag is written first so a crash in between still lands the
// user on signup at next launch.
func (f *Facade) LogoutGuestAndSignup(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur := f.store.Current()
	if !cur.IsGuest() {
		_, err := f.fail("guest_upgrade", apperrors.NewValidationError("only a guest session can be upgraded"))
		return err
	}
	if err := f.flags.Set(ctx, flagstore.PendingSignupKey); err != nil {
		return f.record("guest_upgrade", apperrors.NewFetchError("pending_signup", pkgerrors.Wrap(err, "failed to record pending signup")))
	}

	f.signOut(ctx, cur)
	f.store.replace(Snapshot{State: SignedOut})
	f.metrics.IncrementAuth("guest_upgrade", "ok")
	return nil
}

// Logout ends any session.
func (f *Facade) Logout(ctx context.Context) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur := f.store.Current()
	if cur.State == SignedOut {
		return cur
	}
	f.signOut(ctx, cur)
	next := Snapshot{State: SignedOut}
	f.store.replace(next)
	f.metrics.IncrementAuth("logout", "ok")
	return next
}

// ConsumePendingSignup reports whether the last guest session ended with a
// request to sign up, clearing the flag.
func (f *Facade) ConsumePendingSignup(ctx context.Context) (bool, error) {
	pending, err := f.flags.Consume(ctx, flagstore.PendingSignupKey)
	if err != nil {
		return false, apperrors.NewFetchError("pending_signup", pkgerrors.Wrap(err, "failed to read pending signup"))
	}
	return pending, nil
}

func (f *Facade) loadProfile(ctx context.Context, acct *authprovider.Account) *models.UserProfile {
	profile, err := f.profiles.Get(ctx, acct.UID)
	if err == nil {
		return profile
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		f.logger.Warn("failed to load user profile", zap.String("uid", acct.UID), zap.Error(err))
	}
	return &models.UserProfile{UID: acct.UID, Email: acct.Email}
}

// signOut tells the provider; a failure there does not keep the session alive.
func (f *Facade) signOut(ctx context.Context, s Snapshot) {
	if s.Identity == nil {
		return
	}
	acct := &authprovider.Account{
		UID:       s.Identity.UID,
		Email:     s.Identity.Email,
		Anonymous: s.Identity.Anonymous,
		IDToken:   s.Identity.Token,
	}
	if err := f.provider.SignOut(ctx, acct); err != nil {
		f.logger.Warn("provider sign-out failed", zap.String("uid", acct.UID), zap.Error(err))
	}
}

func (f *Facade) fail(op string, err error) (Snapshot, error) {
	return f.store.Current(), f.record(op, err)
}

func (f *Facade) record(op string, err error) error {
	outcome := string(apperrors.KindOf(err))
	var aerr *apperrors.AuthError
	if errors.As(err, &aerr) {
		outcome = string(aerr.Category)
	}
	f.metrics.IncrementAuth(op, outcome)
	f.logger.Info("auth operation failed", zap.String("op", op), zap.String("outcome", outcome), zap.Error(err))
	return err
}

func identityOf(acct *authprovider.Account) *Identity {
	return &Identity{UID: acct.UID, Email: acct.Email, Anonymous: acct.Anonymous, Token: acct.IDToken}
}

// translate maps a provider failure to a user-facing auth error. Anything
// without a known code falls back to the generic category.
func translate(err error) error {
	code := authprovider.CodeOf(err)
	category, ok := authCategories[code]
	if !ok {
		category = apperrors.AuthGeneric
	}
	return apperrors.NewAuthError(category, code, err)
}
