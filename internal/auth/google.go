package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/mentors"
	sharedauth "github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/auth"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server/respond"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/telemetry"
)

const (
	userInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	subjectPrefix = "google:"
	stateTTL      = 5 * time.Minute
)

// MentorRecorder persists the mentor profile after a successful login.
type MentorRecorder interface {
	UpsertFromAuth(ctx context.Context, mentor mentors.Mentor) error
}

// Profile is the subset of the Google userinfo payload used to identify a mentor.
type Profile struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleLogin runs the OAuth authorization code flow for mentors.
type GoogleLogin struct {
	oauth      *oauth2.Config
	uiRedirect string
	mentors    MentorRecorder
	states     *stateStore

	// Exchange and FetchProfile are replaceable in tests.
	Exchange     func(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile func(ctx context.Context, token *oauth2.Token) (Profile, error)
}

// NewGoogleLogin builds the login flow. A nil recorder skips mentor persistence.
func NewGoogleLogin(clientID, clientSecret, redirectURL, uiRedirect string, recorder MentorRecorder) *GoogleLogin {
	g := &GoogleLogin{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect: uiRedirect,
		mentors:    recorder,
		states:     newStateStore(stateTTL),
	}
	g.Exchange = func(ctx context.Context, code string) (*oauth2.Token, error) {
		return g.oauth.Exchange(ctx, code)
	}
	g.FetchProfile = g.fetchProfile
	return g
}

// Configured reports whether client credentials are present.
func (g *GoogleLogin) Configured() bool {
	return g.oauth.ClientID != "" && g.oauth.ClientSecret != "" && g.oauth.RedirectURL != ""
}

func (g *GoogleLogin) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", g.start)
	rg.GET("/auth/google/callback", g.callback)
}

func (g *GoogleLogin) start(c *gin.Context) {
	if !g.Configured() {
		respond.Error(c, http.StatusServiceUnavailable, "auth_not_configured", "google login is not configured", nil)
		return
	}
	state := g.states.issue(time.Now())
	c.Redirect(http.StatusFound, g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

func (g *GoogleLogin) callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		respond.Error(c, http.StatusUnauthorized, "auth_denied", "login was not authorized", map[string]string{"reason": errParam})
		return
	}
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	if !g.states.consume(state, time.Now()) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := g.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.exchange_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}
	profile, err := g.FetchProfile(ctx, token)
	if err != nil || profile.Sub == "" {
		telemetry.Warn("auth.profile_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch google profile", nil)
		return
	}

	mentorID := subjectPrefix + profile.Sub
	if g.mentors != nil {
		err := g.mentors.UpsertFromAuth(ctx, mentors.Mentor{
			ID:         mentorID,
			Email:      profile.Email,
			FullName:   profile.Name,
			PictureURL: profile.Picture,
		})
		if err != nil {
			if errors.Is(err, mentors.ErrInvalidInput) {
				respond.Error(c, http.StatusBadGateway, "auth_failed", "google profile has no email", nil)
				return
			}
			respond.Internal(c, "failed to record mentor", err)
			return
		}
	}

	jwt, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:     mentorID,
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: profile.Picture,
	})
	if err != nil {
		respond.Internal(c, "failed to issue token", err)
		return
	}

	target, err := withToken(g.uiRedirect, jwt)
	if err != nil {
		respond.Internal(c, "failed to build redirect", err)
		return
	}
	telemetry.Info("auth.login", map[string]any{"mentorId": mentorID})
	c.Redirect(http.StatusFound, target)
}

func (g *GoogleLogin) fetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	resp, err := g.oauth.Client(ctx, token).Get(userInfoURL)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, err
	}
	// v2 userinfo returns "id" rather than "sub".
	if p.Sub == "" {
		p.Sub = p.ID
	}
	p.Email = strings.TrimSpace(p.Email)
	return p, nil
}

// stateStore holds single-use OAuth state values until they expire.
type stateStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]time.Time
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{ttl: ttl, items: make(map[string]time.Time)}
}

func (s *stateStore) issue(now time.Time) string {
	state := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	s.items[state] = now.Add(s.ttl)
	return state
}

func (s *stateStore) consume(state string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	if !ok {
		return false
	}
	delete(s.items, state)
	return !now.After(exp)
}

func withToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("UI_REDIRECT_URL is not set")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
