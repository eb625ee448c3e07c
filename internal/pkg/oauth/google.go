package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrEmailNotVerified = errors.New("google account email is not verified")

// GoogleService drives the authorization code flow for signing in existing
// users with Google.
type GoogleService interface {
	// GenerateState returns a random value for the state parameter.
	GenerateState() (string, error)
	RedirectURL(state string) string
	// Identify exchanges the code and returns the verified Google identity.
	Identify(ctx context.Context, code string) (GoogleIdentity, error)
}

type googleServiceImpl struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleService(clientID, clientSecret, redirectURL string, scopes []string) GoogleService {
	if len(scopes) == 0 {
		scopes = []string{"openid", "email"}
	}
	return &googleServiceImpl{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

type GoogleIdentity struct {
	GoogleID      string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

func (g *googleServiceImpl) GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (g *googleServiceImpl) RedirectURL(state string) string {
	return g.config.AuthCodeURL(state)
}

func (g *googleServiceImpl) Identify(ctx context.Context, code string) (GoogleIdentity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("exchange google code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return GoogleIdentity{}, err
	}
	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("fetch google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleIdentity{}, fmt.Errorf("fetch google user info: status %d", resp.StatusCode)
	}

	var id GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return GoogleIdentity{}, fmt.Errorf("decode google user info: %w", err)
	}
	if !id.VerifiedEmail {
		return GoogleIdentity{}, ErrEmailNotVerified
	}
	return id, nil
}
