package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/sakif/codechat/internal/model"
)

// Profile is the normalized identity a provider hands back after a
// successful OAuth exchange. Both Google and Facebook responses are mapped
// into this shape so the auth handler has one upsert path.
type Profile struct {
	// ID is the provider's stable user identifier. Never reuse it across
	// providers — (provider, id) is the unique pair.
	ID        string
	Email     string
	Name      string
	AvatarURL string
}

// Provider wraps golang.org/x/oauth2 for the Authorization Code flow of
// one OAuth provider.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
//  1. We redirect the user to the provider's authorization endpoint with
//     our ClientID and scopes.
//  2. The user approves the request on the provider's site.
//  3. The provider redirects back to our callback URL with a short-lived
//     "code".
//  4. We exchange the code for an access token — server-to-server, using
//     the ClientSecret, so the token never touches the browser.
//  5. We call the provider's userinfo API with the token.
type Provider struct {
	name        model.AuthProvider
	config      *oauth2.Config
	userinfoURL string
}

// NewGoogleProvider creates a Provider for Google sign-in.
//
// Credentials come from a Google Cloud OAuth client (APIs & Services →
// Credentials). callbackURL must exactly match an authorized redirect URI
// on that client, e.g. "http://localhost:8080/auth/google/callback".
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *Provider {
	return &Provider{
		name: model.AuthProviderGoogle,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// NewFacebookProvider creates a Provider for Facebook login.
//
// Credentials come from a Facebook app (developers.facebook.com) with the
// "Facebook Login" product enabled. The fields query selects exactly what
// we unmarshal — Facebook returns nothing you don't ask for.
func NewFacebookProvider(clientID, clientSecret, callbackURL string) *Provider {
	return &Provider{
		name: model.AuthProviderFacebook,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		userinfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
	}
}

// Name returns which auth provider this is, matching the users table's
// auth_provider column.
func (p *Provider) Name() model.AuthProvider {
	return p.name
}

// AuthURL returns the URL to redirect the user to for authorization.
//
// The state is a random string we stash in a cookie before redirecting;
// the callback handler checks that the provider echoed the same value.
// Without it, an attacker could trick a victim's browser into completing
// an OAuth flow the attacker started (CSRF).
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for a
// normalized user Profile. This is the core of the callback handler.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code with %s: %w", p.name, err)
	}

	// config.Client returns an *http.Client that injects the
	// "Authorization: Bearer <token>" header on every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get(p.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling %s userinfo API: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: %s userinfo API returned status %d", p.name, resp.StatusCode)
	}

	profile, err := p.decodeProfile(resp.Body)
	if err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("auth: %s returned a user with no id", p.name)
	}

	return profile, nil
}

// decodeProfile maps the provider-specific userinfo JSON onto a Profile.
// The two APIs agree on almost nothing, so each gets its own struct.
func (p *Provider) decodeProfile(body io.Reader) (*Profile, error) {
	switch p.name {
	case model.AuthProviderGoogle:
		var gu struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
		}
		if err := json.NewDecoder(body).Decode(&gu); err != nil {
			return nil, fmt.Errorf("auth: decoding google userinfo: %w", err)
		}
		return &Profile{ID: gu.ID, Email: gu.Email, Name: gu.Name, AvatarURL: gu.Picture}, nil

	case model.AuthProviderFacebook:
		var fu struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			Name    string `json:"name"`
			Picture struct {
				Data struct {
					URL string `json:"url"`
				} `json:"data"`
			} `json:"picture"`
		}
		if err := json.NewDecoder(body).Decode(&fu); err != nil {
			return nil, fmt.Errorf("auth: decoding facebook userinfo: %w", err)
		}
		return &Profile{ID: fu.ID, Email: fu.Email, Name: fu.Name, AvatarURL: fu.Picture.Data.URL}, nil

	default:
		return nil, fmt.Errorf("auth: no userinfo decoder for provider %s", p.name)
	}
}
