package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensetsu-dev/kensetsu/internal/auth"
	"github.com/kensetsu-dev/kensetsu/internal/utils"
	"github.com/kensetsu-dev/kensetsu/internal/validation"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandlers struct {
	Manager *auth.Manager
	Domain  string
}

func NewAuthHandlers(manager *auth.Manager, domain string) *AuthHandlers {
	return &AuthHandlers{Manager: manager, Domain: domain}
}

func (h *AuthHandlers) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if errs := validation.ValidateSignUp(body.Name, body.Email, body.Password); !errs.Empty() {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "field_errors": errs})
		return
	}

	session, err := h.Manager.SignUp(ctx.Request.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		log.Printf("Failed to sign up: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.setSessionCookie(ctx, session.Token, sessionCookieMaxAge)
	ctx.JSON(http.StatusCreated, gin.H{"user": session.User})
}

func (h *AuthHandlers) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if errs := validation.ValidateLogin(body.Email, body.Password); !errs.Empty() {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "field_errors": errs})
		return
	}

	session, err := h.Manager.SignIn(ctx.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Failed to sign in: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.setSessionCookie(ctx, session.Token, sessionCookieMaxAge)
	ctx.JSON(http.StatusOK, gin.H{"user": session.User})
}

func (h *AuthHandlers) Logout(ctx *gin.Context) {
	h.Manager.SignOut()
	h.setSessionCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandlers) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": currentUser})
}

const sessionCookieMaxAge = 60 * 60 * 24 * 7

func (h *AuthHandlers) setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   h.Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
