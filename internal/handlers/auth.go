package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adaayam_back_end/internal/middleware"
	"adaayam_back_end/internal/models"
	"adaayam_back_end/internal/repository"
	"adaayam_back_end/internal/utils"
)

// AuthHandler gère l'inscription, la connexion et le profil courant.
type AuthHandler struct {
	users     repository.UserRepository
	jwtSecret string
}

func NewAuthHandler(users repository.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.FullName == "" || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, email et mot de passe sont obligatoires"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		ID:       uuid.NewString(),
		FullName: input.FullName,
		Email:    input.Email,
		Password: hashed,
		Role:     models.RoleCustomer,
	}

	if err := h.users.Insert(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg": "Inscription réussie",
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe sont obligatoires"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(*user, h.jwtSecret)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":   "Connexion réussie",
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	user, err := h.users.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	var input struct {
		FullName    string `json:"full_name"`
		PhoneNumber string `json:"phone_number"`
		Address     string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), identity.UserID,
		input.FullName, input.PhoneNumber, input.Address)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
