package adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	githubAPIURL      = "https://api.github.com"
)

// OAuthProviders indexes the configured identity providers by login method.
type OAuthProviders map[models.LoginMethod]OAuthProvider

// Get returns the provider called name or [ErrUnknownProvider].
func (p OAuthProviders) Get(name string) (OAuthProvider, error) {
	provider, ok := p[models.LoginMethod(strings.ToLower(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return provider, nil
}

// NewOAuthProviders builds a provider for every registration in cfg that
// has a client id.
func NewOAuthProviders(cfg config.OAuth, logger *logger.Logger) OAuthProviders {
	providers := make(OAuthProviders)

	if cfg.Google.ClientID != "" {
		providers[models.LoginMethodGoogle] = NewGoogleProvider(cfg.Google, endpoints.Google, googleUserInfoURL)
	}
	if cfg.GitHub.ClientID != "" {
		providers[models.LoginMethodGitHub] = NewGitHubProvider(cfg.GitHub, endpoints.GitHub, githubAPIURL)
	}

	for name := range providers {
		logger.Info().Str("provider", string(name)).Msg("oauth provider enabled")
	}

	return providers
}

type oauthProvider struct {
	name         models.LoginMethod
	config       *oauth2.Config
	fetchProfile func(ctx context.Context, client *utils.HTTPClient) (models.OAuthProfile, error)
}

func (p *oauthProvider) Name() models.LoginMethod {
	return p.name
}

func (p *oauthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *oauthProvider) Exchange(ctx context.Context, code string) (models.OAuthProfile, error) {
	log := logger.FromContext(ctx)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		log.Err(err).Str("func", "*oauthProvider.Exchange").Str("provider", string(p.name)).Msg("code exchange failed")
		return models.OAuthProfile{}, fmt.Errorf("%w: %w", ErrOAuthExchange, err)
	}

	client := utils.WrapHTTPClient(resty.NewWithClient(p.config.Client(ctx, token)))
	profile, err := p.fetchProfile(ctx, client)
	if err != nil {
		log.Err(err).Str("func", "*oauthProvider.Exchange").Str("provider", string(p.name)).Msg("profile fetch failed")
		return models.OAuthProfile{}, fmt.Errorf("%w: %w", ErrOAuthExchange, err)
	}
	if profile.Email == "" {
		return models.OAuthProfile{}, fmt.Errorf("%w: provider returned no email", ErrOAuthExchange)
	}

	profile.Provider = p.name
	profile.Email = strings.ToLower(profile.Email)
	return profile, nil
}

// NewGoogleProvider returns the Google OpenID Connect provider. userInfoURL
// is the userinfo endpoint.
func NewGoogleProvider(cfg config.OAuthProvider, endpoint oauth2.Endpoint, userInfoURL string) OAuthProvider {
	return &oauthProvider{
		name: models.LoginMethodGoogle,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		fetchProfile: func(ctx context.Context, client *utils.HTTPClient) (models.OAuthProfile, error) {
			var info struct {
				Sub           string `json:"sub"`
				Email         string `json:"email"`
				EmailVerified bool   `json:"email_verified"`
				Name          string `json:"name"`
			}

			resp, err := client.R().SetContext(ctx).SetResult(&info).Get(userInfoURL)
			if err != nil {
				return models.OAuthProfile{}, err
			}
			if err = mapHTTPError(resp); err != nil {
				return models.OAuthProfile{}, err
			}
			if !info.EmailVerified {
				return models.OAuthProfile{}, fmt.Errorf("email %s is not verified", info.Email)
			}

			return models.OAuthProfile{Subject: info.Sub, Email: info.Email, Name: info.Name}, nil
		},
	}
}

// NewGitHubProvider returns the GitHub provider. apiURL is the REST API root.
func NewGitHubProvider(cfg config.OAuthProvider, endpoint oauth2.Endpoint, apiURL string) OAuthProvider {
	apiURL = strings.TrimRight(apiURL, "/")

	return &oauthProvider{
		name: models.LoginMethodGitHub,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     endpoint,
		},
		fetchProfile: func(ctx context.Context, client *utils.HTTPClient) (models.OAuthProfile, error) {
			var user struct {
				ID    int64  `json:"id"`
				Login string `json:"login"`
				Name  string `json:"name"`
				Email string `json:"email"`
			}

			resp, err := client.R().SetContext(ctx).SetResult(&user).Get(apiURL + "/user")
			if err != nil {
				return models.OAuthProfile{}, err
			}
			if err = mapHTTPError(resp); err != nil {
				return models.OAuthProfile{}, err
			}

			profile := models.OAuthProfile{
				Subject: strconv.FormatInt(user.ID, 10),
				Email:   user.Email,
				Name:    user.Name,
			}
			if profile.Name == "" {
				profile.Name = user.Login
			}
			if profile.Email != "" {
				return profile, nil
			}

			// private email: ask for the primary verified address
			var emails []struct {
				Email    string `json:"email"`
				Primary  bool   `json:"primary"`
				Verified bool   `json:"verified"`
			}
			resp, err = client.R().SetContext(ctx).SetResult(&emails).Get(apiURL + "/user/emails")
			if err != nil {
				return models.OAuthProfile{}, err
			}
			if err = mapHTTPError(resp); err != nil {
				return models.OAuthProfile{}, err
			}
			for _, e := range emails {
				if e.Primary && e.Verified {
					profile.Email = e.Email
					break
				}
			}

			return profile, nil
		},
	}
}
