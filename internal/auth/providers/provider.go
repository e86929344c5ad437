package providers

import (
	"context"

	"golang.org/x/oauth2"
)

// GitHub is the provider key stored in user_auth_providers.
const GitHub = "github"

// OAuthUser is a crew member's identity as reported by a sign-in provider.
type OAuthUser struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// SignInEmail returns the email a crew account can be keyed on. Unverified
// addresses are refused so a provider account cannot claim someone else's crew.
func (u *OAuthUser) SignInEmail() (string, bool) {
	if u == nil || u.Email == "" || !u.EmailVerified {
		return "", false
	}
	return u.Email, true
}

// OAuthProvider exchanges an authorization code for the signed-in identity.
type OAuthProvider interface {
	Name() string
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error)
}
