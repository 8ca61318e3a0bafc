package authprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// IdentityToolkit signs users in through the managed identity REST API.
type IdentityToolkit struct {
	relyingParty *identitytoolkit.RelyingpartyService
	logger       *zap.Logger
}

// NewIdentityToolkit creates a client authenticated with the project's web API key.
func NewIdentityToolkit(ctx context.Context, apiKey string, logger *zap.Logger, opts ...option.ClientOption) (*IdentityToolkit, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}
	return &IdentityToolkit{relyingParty: svc.Relyingparty, logger: logger}, nil
}

// SignIn verifies an email/password pair.
func (p *IdentityToolkit) SignIn(ctx context.Context, email, password string) (*Account, error) {
	resp, err := p.relyingParty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, translate(err)
	}
	return &Account{UID: resp.LocalId, Email: resp.Email, IDToken: resp.IdToken}, nil
}

// SignUp creates a password account.
func (p *IdentityToolkit) SignUp(ctx context.Context, email, password, displayName string) (*Account, error) {
	resp, err := p.relyingParty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}).Context(ctx).Do()
	if err != nil {
		return nil, translate(err)
	}
	return &Account{UID: resp.LocalId, Email: resp.Email, IDToken: resp.IdToken}, nil
}

// SignInAnonymously creates an account with no credentials attached.
func (p *IdentityToolkit) SignInAnonymously(ctx context.Context) (*Account, error) {
	resp, err := p.relyingParty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{}).Context(ctx).Do()
	if err != nil {
		return nil, translate(err)
	}
	return &Account{UID: resp.LocalId, Anonymous: true, IDToken: resp.IdToken}, nil
}

// SendPasswordReset asks the provider to email a reset link.
func (p *IdentityToolkit) SendPasswordReset(ctx context.Context, email string) error {
	_, err := p.relyingParty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return translate(err)
	}
	return nil
}

// SignOut only drops the local token; the API keeps no server-side session.
func (p *IdentityToolkit) SignOut(_ context.Context, acct *Account) error {
	if acct != nil {
		p.logger.Debug("signed out", zap.String("uid", acct.UID))
	}
	return nil
}

// translate pulls the provider code out of an API error. Messages look like
// "EMAIL_NOT_FOUND" or "TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled...".
func translate(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	code := strings.TrimSpace(gerr.Message)
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	if code == "" {
		return err
	}
	return &Error{Code: code, Err: err}
}
