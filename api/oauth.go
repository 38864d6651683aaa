package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/garnizeh/internradar/internal/config"
	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

const stateCookieName = "oauth_state"

// SkillSource resolves a GitHub username to skills. Implemented by the
// github extractor; nil disables skill sync on login.
type SkillSource interface {
	Skills(ctx context.Context, username string) ([]string, error)
}

type OAuthHandler struct {
	userRepo      repository.UserRepo
	oauth         *oauth2.Config
	apiBaseURL    string
	clientURL     string
	skills        SkillSource
	jwtSecret     string
	tokenDuration time.Duration
}

func NewOAuthHandler(ur repository.UserRepo, cfg config.GitHubConfig, skills SkillSource, jwtSecret string, tokenDuration time.Duration) *OAuthHandler {
	return &OAuthHandler{
		userRepo: ur,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     oauthgithub.Endpoint,
		},
		apiBaseURL:    cfg.APIBaseURL,
		clientURL:     cfg.ClientRedirectURL,
		skills:        skills,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
	}
}

// Start redirects the browser to GitHub's consent page with a random
// state bound to a short-lived cookie.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		http.Error(w, "Error generating state", http.StatusInternalServerError)
		return
	}
	state := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func (h *OAuthHandler) fetchGitHubUser(ctx context.Context, token *oauth2.Token) (*githubUser, error) {
	client := h.oauth.Client(ctx, token)
	resp, err := client.Get(h.apiBaseURL + "/user")
	if err != nil {
		return nil, fmt.Errorf("fetch github user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user endpoint returned status %d", resp.StatusCode)
	}

	var u githubUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode github user: %w", err)
	}
	return &u, nil
}

// Callback finishes the OAuth dance: validate state, exchange the code,
// upsert the user and hand the browser back to the client app with a
// token.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	// one-shot
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing code", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		logger.Error("oauth exchange failed", "err", err)
		http.Error(w, "OAuth exchange failed", http.StatusBadGateway)
		return
	}

	ghUser, err := h.fetchGitHubUser(ctx, token)
	if err != nil {
		logger.Error("github user fetch failed", "err", err)
		http.Error(w, "GitHub lookup failed", http.StatusBadGateway)
		return
	}

	user, err := h.upsertUser(ctx, ghUser)
	if err != nil {
		logger.Error("oauth upsert failed", "err", err)
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	h.syncSkills(ctx, user)

	if err := h.userRepo.TouchLogin(ctx, user.ID); err != nil {
		logger.Warn("touch login failed", "user_id", user.ID, "err", err)
	}

	tokenStr, err := signToken(h.jwtSecret, h.tokenDuration, user.ID, user.Email)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	redirect := fmt.Sprintf("%s/auth/callback?token=%s", h.clientURL, url.QueryEscape(tokenStr))
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

// upsertUser finds the account by GitHub id, links an existing local
// account by email, or creates a fresh one.
func (h *OAuthHandler) upsertUser(ctx context.Context, gh *githubUser) (*models.User, error) {
	githubID := fmt.Sprintf("%d", gh.ID)
	name := gh.Name
	if name == "" {
		name = gh.Login
	}
	email := gh.Email
	if email == "" {
		email = gh.Login + "@users.noreply.github.com"
	}

	user, err := h.userRepo.GetUserByGitHubID(ctx, githubID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.Name = name
		user.GitHubUsername = gh.Login
		user.AvatarURL = gh.AvatarURL
		if err := h.userRepo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user, err = h.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.Provider = models.ProviderGitHub
		user.GitHubID = githubID
		user.GitHubUsername = gh.Login
		user.AvatarURL = gh.AvatarURL
		if err := h.userRepo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user = &models.User{
		Name:           name,
		Email:          email,
		Provider:       models.ProviderGitHub,
		GitHubID:       githubID,
		GitHubUsername: gh.Login,
		AvatarURL:      gh.AvatarURL,
	}
	id, err := h.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

// syncSkills refreshes the stored skills from the user's repositories.
// Extraction failures and empty results leave the stored list alone so
// a flaky upstream never wipes a profile.
func (h *OAuthHandler) syncSkills(ctx context.Context, user *models.User) {
	if h.skills == nil || user.GitHubUsername == "" {
		return
	}

	skills, err := h.skills.Skills(ctx, user.GitHubUsername)
	if err != nil {
		logger.Warn("login skill sync failed", "user_id", user.ID, "err", err)
		return
	}
	if len(skills) == 0 {
		return
	}

	if err := h.userRepo.UpdateSkills(ctx, user.ID, skills); err != nil {
		logger.Warn("login skill sync persist failed", "user_id", user.ID, "err", err)
		return
	}
	user.Skills = skills
}
