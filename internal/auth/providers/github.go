package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"lunarbase-server/internal/shared/config"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIURL = "https://api.github.com"

type githubUser struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type GitHubProvider struct {
	config *oauth2.Config
	apiURL string
}

func NewGitHubProvider(cfg config.GitHubOAuthConfig) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		apiURL: githubAPIURL,
	}
}

func (p *GitHubProvider) Name() string {
	return GitHub
}

// GetAuthURL generates the OAuth authorization URL
func (p *GitHubProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for tokens
func (p *GitHubProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	logger := slog.With("provider", GitHub, "operation", "exchange_code")
	logger.Debug("Exchanging authorization code for GitHub access token")

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange GitHub authorization code", "error", err)
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// GetUserInfo fetches the profile and the best verified email. GitHub only
// reports an email on /user when it is public, and never says whether it is
// verified, so /user/emails is always consulted.
func (p *GitHubProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error) {
	client := p.config.Client(ctx, token)
	logger := slog.With("provider", GitHub, "operation", "get_user_info")

	var user githubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		logger.Error("Failed to fetch GitHub user", "error", err)
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("GitHub user info missing user ID")
	}

	info := &OAuthUser{
		ID:        strconv.Itoa(user.ID),
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
	if info.Name == "" {
		info.Name = user.Login
	}

	var emails []githubEmail
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		logger.Warn("Failed to fetch GitHub emails", "error", err)
		return info, nil
	}
	info.Email, info.EmailVerified = pickEmail(emails)

	logger.Debug("Retrieved GitHub user info",
		"github_user_id", user.ID,
		"has_email", info.Email != "")
	return info, nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request %s from GitHub: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode GitHub %s: %w", path, err)
	}
	return nil
}

// pickEmail prefers the primary verified address, then any verified one.
func pickEmail(emails []githubEmail) (string, bool) {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, true
		}
	}
	return "", false
}
