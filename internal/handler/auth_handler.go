package handler

import (
	"net/http"

	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	auth        *middleware.Authenticator
	cookies     *middleware.CookieWriter
	loginLimit  gin.HandlerFunc
}

// NewAuthHandler sets up the routing dependencies for authentication endpoints.
func NewAuthHandler(authService service.AuthService, auth *middleware.Authenticator, cookies *middleware.CookieWriter, loginLimit gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{authService: authService, auth: auth, cookies: cookies, loginLimit: loginLimit}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.loginLimit, h.Register)
		auth.POST("/login", h.loginLimit, h.Login)
		auth.POST("/refresh-token", h.Refresh)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)

		authed := auth.Group("", h.auth.Authenticate())
		{
			authed.GET("/profile", h.GetProfile)
			authed.PUT("/profile", h.UpdateProfile)
			authed.PUT("/change-password", h.ChangePassword)
			authed.PUT("/avatar", h.UpdateAvatar)
		}
	}
}

// Register handles POST /auth/register
// @Summary      Register a new user
// @Description  Creates a user with the default employee role and returns a signed token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Registration Payload"
// @Success      201      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		c.Error(err)
		return
	}

	h.cookies.SetTokenCookies(c, res.AccessToken, res.RefreshToken)
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// Login handles POST /auth/login
// @Summary      Login user
// @Description  Authenticates by email and password, returning user, permissions and a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		c.Error(err)
		return
	}

	h.cookies.SetTokenCookies(c, res.AccessToken, res.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Refresh handles POST /auth/refresh-token and POST /auth/refresh
// @Summary      Refresh token pair
// @Description  Exchanges a valid refresh token (cookie or body) for a freshly issued pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      object{refresh_token=string}  false  "Refresh Token"
// @Success      200      {object}  response.Response{data=token.Pair}
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.RefreshTokenCookie)
	if refreshToken == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Refresh token is required"))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		c.Error(err)
		return
	}

	h.cookies.SetTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pair))
}

// Logout handles POST /auth/logout
// @Summary      Logout user
// @Description  Clears the token cookies. Issued tokens remain valid until expiry.
// @Tags         auth
// @Produce      json
// @Success      200      {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Logged out"}))
}

// GetProfile handles GET /auth/profile
// @Summary      Get current profile
// @Description  Returns the authenticated user, their employee record and flattened permissions
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}  response.Response{data=service.ProfileResponse}
// @Failure      401      {object}  response.Response
// @Router       /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "No token provided"))
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), identity.UserID.String())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// UpdateProfile handles PUT /auth/profile
// @Summary      Update current profile
// @Description  Upserts the employee record linked to the authenticated user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateProfileRequest  true  "Profile Payload"
// @Success      200      {object}  response.Response{data=service.ProfileResponse}
// @Failure      400      {object}  response.Response
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "No token provided"))
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), identity.UserID.String(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// ChangePassword handles PUT /auth/change-password
// @Summary      Change password
// @Description  Verifies the current password and stores a new bcrypt hash
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ChangePasswordRequest  true  "Password Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "No token provided"))
		return
	}

	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identity.UserID.String(), req); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Password updated"}))
}

// UpdateAvatar handles PUT /auth/avatar
// @Summary      Update avatar
// @Description  Stores an avatar URL for the authenticated user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      object{avatar_url=string}  true  "Avatar Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/avatar [put]
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "No token provided"))
		return
	}

	var body struct {
		AvatarURL string `json:"avatar_url"`
	}
	_ = c.ShouldBindJSON(&body)

	url, err := h.authService.UpdateAvatar(c.Request.Context(), identity.UserID.String(), body.AvatarURL)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"avatar_url": url}))
}
