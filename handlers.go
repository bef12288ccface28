package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// contextUserIDKey is where the token middleware leaves the verified
// user identifier for downstream handlers.
const contextUserIDKey = "auth.userID"

type api struct {
	auth *AuthService
	log  *zap.Logger
}

func setupRoutes(r *gin.Engine, a *api) {
	r.POST("/register", a.register)
	r.POST("/login", a.login)
	r.POST("/refresh", a.refresh)
	authGroup := r.Group("")
	authGroup.Use(a.requireToken())
	authGroup.GET("/profile", a.profile)
}

// requireToken guards protected routes: it extracts the bearer token,
// verifies it against the access secret, confirms the user still
// exists, and puts the user id on the request context. A well-signed
// token for a deleted user is rejected the same way as a bad
// signature.
func (a *api) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No authentication token provided"})
			return
		}

		if len(a.auth.accessSecret) == 0 {
			a.log.Error("missing JWT_SECRET")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}

		claims, err := parseToken(raw, a.auth.accessSecret)
		if err != nil {
			a.log.Warn("access token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
			return
		}

		exists, err := a.auth.store.ExistsByID(claims.UserID)
		if err != nil {
			a.log.Error("user existence check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}
		if !exists {
			a.log.Warn("token references missing user", zap.String("userId", claims.UserID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
			return
		}

		c.Set(contextUserIDKey, claims.UserID)
		c.Next()
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *api) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	user, err := a.auth.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username taken"})
			return
		}
		a.log.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": user.Username, "id": user.ID})
}

func (a *api) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	result, err := a.auth.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong username or password"})
		case errors.Is(err, ErrMissingSecret):
			a.log.Error("login rejected", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		default:
			a.log.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        result.AccessToken,
		"refreshToken": result.RefreshToken,
		"username":     result.User.Username,
		"userId":       result.User.ID,
	})
}

func (a *api) refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
		return
	}

	token, err := a.auth.Refresh(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
		case errors.Is(err, ErrMissingSecret):
			a.log.Error("refresh rejected", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		default:
			a.log.Error("refresh failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (a *api) profile(c *gin.Context) {
	userID := c.GetString(contextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	user, err := a.auth.Profile(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		a.log.Error("profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "userName": user.Username})
}
