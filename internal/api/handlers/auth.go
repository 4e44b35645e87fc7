package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rohits-web03/filekeep/internal/api/middleware"
	"github.com/rohits-web03/filekeep/internal/api/services"
	"github.com/rohits-web03/filekeep/internal/models"
	"github.com/rohits-web03/filekeep/internal/utils"
)

const sessionTTL = 24 * time.Hour

const stateCookie = "oauth_state"

var validate = validator.New()

// JWT Claims struct
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type signUpInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// POST /api/v1/auth/sign-up
// RegisterUser godoc
// @Summary Register a user
// @Description Creates an account and its file access token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body signUpInput true "Account"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/auth/sign-up [post]
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input signUpInput

	if err := utils.DecodeJSON(r, &input, false); err != nil || validate.Struct(input) != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	// Check if username already exists
	if _, err := h.users.GetByUsername(r.Context(), input.Username); err == nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Username is already taken",
		})
		return
	}

	// Check if email already exists
	_, err := h.users.GetByEmail(r.Context(), input.Email)
	switch {
	case err == nil:
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "User already exists with this email",
		})
		return

	case !errors.Is(err, models.ErrNotFound):
		log.Printf("Sign-up lookup failed: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database query failed",
		})
		return
	}

	user, err := services.ProvisionUser(r.Context(), h.users, input.Username, input.Email, input.Password)
	if err != nil {
		log.Printf("Sign-up failed: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database insert failed",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User registered successfully",
		Data: map[string]string{
			"id":          user.ID,
			"accessToken": user.AccessToken,
		},
	})
}

// POST /api/v1/auth/login
// LoginUser godoc
// @Summary Log in
// @Description Sets the session cookie used for uploads and listing.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/login [post]
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := utils.DecodeJSON(r, &input, false); err != nil || validate.Struct(input) != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	user, err := h.users.GetByUsername(r.Context(), input.Username)
	switch {
	case err == nil:
		// user found
	case errors.Is(err, models.ErrNotFound):
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	if !services.CheckPassword(user, input.Password) {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	}

	if err := h.setSession(w, user); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create token",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
		Data:    map[string]string{"id": user.ID},
	})
}

// setSession signs a session JWT for user and stores it in a cookie.
func (h *Handler) setSession(w http.ResponseWriter, user *models.User) error {
	expiration := time.Now().Add(sessionTTL)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return err
	}

	isProd := h.cfg.IsProduction()
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return nil
}

// POST /api/v1/auth/logout
// Logout godoc
// @Summary Log out
// @Description Clears the session cookie.
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // maxAge < 0 deletes the cookie
		Secure:   h.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}

// GET /api/v1/auth/token
// AccessToken godoc
// @Summary Get own access token
// @Description Returns the token that authorizes private downloads, access changes and deletes of the session user's files.
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/token [get]
func (h *Handler) AccessToken(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Access token retrieved",
		Data: map[string]string{
			"id":          user.ID,
			"accessToken": user.AccessToken,
		},
	})
}

// sessionUser loads the user behind the session cookie, answering 401 when
// there is none.
func (h *Handler) sessionUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		unauthorized(w)
		return nil, false
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if errors.Is(err, models.ErrNotFound) {
		unauthorized(w)
		return nil, false
	}
	if err != nil {
		log.Printf("Session user lookup failed: %v", err)
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return nil, false
	}
	return user, true
}

func unauthorized(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
		Success: false,
		Message: "Unauthorized",
	})
}

// GET /api/v1/auth/google/login
// HandleGoogleLogin godoc
// @Summary Start Google login
// @Description Redirects to Google. redirect=register provisions a new account on callback.
// @Tags Auth
// @Param redirect query string false "login or register (default login)"
// @Success 307
// @Failure 404 {string} string "Google login is not configured"
// @Router /api/v1/auth/google/login [get]
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.Error(w, "Google login is not configured", http.StatusNotFound)
		return
	}

	redirectType := r.URL.Query().Get("redirect") // "login" or "register"
	if redirectType != "register" {
		redirectType = "login"
	}

	state, err := GenerateState(map[string]string{"flow": redirectType})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/v1/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		Secure:   h.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/v1/auth/google/callback
// HandleGoogleCallback godoc
// @Summary Google login callback
// @Description Verifies the OAuth state cookie, sets the session cookie and redirects to the frontend.
// @Tags Auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307
// @Failure 400 {string} string "Invalid OAuth state"
// @Router /api/v1/auth/google/callback [get]
func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.Error(w, "Google login is not configured", http.StatusNotFound)
		return
	}

	state := r.FormValue("state")
	if cookie, err := r.Cookie(stateCookie); err != nil || cookie.Value != state {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	stateData, err := DecodeState(state)
	if err != nil {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	flowType := stateData["flow"] // "login" or "register"
	code := r.FormValue("code")

	token, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		log.Println("Exchange error:", err)
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		return
	}

	resp, err := h.google.Client(r.Context(), token).Get(services.GoogleUserInfoURL)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	var googleUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil || googleUser.Email == "" {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), googleUser.Email)

	frontend := h.cfg.FrontendURL
	switch flowType {
	case "register":
		if err == nil {
			http.Redirect(w, r, frontend+"/login?error=user_already_exists", http.StatusTemporaryRedirect)
			return
		}
		user, err = services.ProvisionUser(r.Context(), h.users, googleUser.Name, googleUser.Email, "")
		if err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

	default:
		if errors.Is(err, models.ErrNotFound) {
			http.Redirect(w, r, frontend+"/register?error=user_not_found", http.StatusTemporaryRedirect)
			return
		} else if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	}

	if err := h.setSession(w, user); err != nil {
		http.Error(w, "Failed to create JWT", http.StatusInternalServerError)
		return
	}

	redirectURL := frontend + "/files?status=success_login"
	if flowType == "register" {
		redirectURL = frontend + "/files?status=success_register"
	}
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
