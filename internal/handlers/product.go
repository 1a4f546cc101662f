package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"adaayam_back_end/internal/middleware"
	"adaayam_back_end/internal/models"
	"adaayam_back_end/internal/repository"
	"adaayam_back_end/internal/services"
)

const (
	productsCacheKey = "products:all"
	productsCacheTTL = 10 * time.Minute
)

// ProductHandler gère le catalogue : lecture publique, CRUD admin.
type ProductHandler struct {
	products repository.ProductRepository
	index    *services.ProductIndex
	images   *services.ImageStore
	audit    repository.AuditRepository
	rdb      *redis.Client
}

func NewProductHandler(products repository.ProductRepository, index *services.ProductIndex,
	images *services.ImageStore, audit repository.AuditRepository, rdb *redis.Client) *ProductHandler {
	return &ProductHandler{products: products, index: index, images: images, audit: audit, rdb: rdb}
}

// List retourne les produits actifs, avec cache Redis.
func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if val, err := h.rdb.Get(ctx, productsCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, err := h.products.List(ctx, true)
	if err != nil {
		respondError(c, err)
		return
	}

	if data, err := json.Marshal(products); err == nil {
		h.rdb.Set(ctx, productsCacheKey, data, productsCacheTTL)
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Search interroge l'index Elasticsearch.
func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre 'q' requis"})
		return
	}

	products, err := h.index.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type productInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PricePerKg  decimal.Decimal `json:"price_per_kg"`
	StockKg     decimal.Decimal `json:"stock_kg"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

// Create ajoute un produit au catalogue (admin).
func (h *ProductHandler) Create(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Name == "" || input.Category == "" || !input.PricePerKg.IsPositive() || input.StockKg.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, catégorie, prix et stock sont obligatoires"})
		return
	}

	now := time.Now()
	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		PricePerKg:  input.PricePerKg,
		StockKg:     input.StockKg,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.products.Insert(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateCache()
	go h.index.Index(*product)
	repository.LogAction(h.audit, middleware.IdentityFrom(c).UserID,
		"CREATE", "product", product.ID, nil, product)

	c.JSON(http.StatusCreated, product)
}

// Update modifie un produit existant (admin).
func (h *ProductHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	product, err := h.products.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	before := *product

	// Champs en pointeurs : absent ≠ zéro, un stock remis à 0 est légitime.
	var input struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		PricePerKg  *decimal.Decimal `json:"price_per_kg"`
		StockKg     *decimal.Decimal `json:"stock_kg"`
		Category    *string          `json:"category"`
		ImageURL    *string          `json:"image_url"`
		IsActive    *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PricePerKg != nil {
		if !input.PricePerKg.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être strictement positif"})
			return
		}
		product.PricePerKg = *input.PricePerKg
	}
	if input.StockKg != nil {
		if input.StockKg.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock ne peut pas être négatif"})
			return
		}
		product.StockKg = *input.StockKg
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := h.products.Update(ctx, product); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateCache()
	go h.index.Index(*product)
	repository.LogAction(h.audit, middleware.IdentityFrom(c).UserID,
		"UPDATE", "product", product.ID, before, product)

	c.JSON(http.StatusOK, product)
}

// Delete désactive un produit — suppression logique, jamais physique.
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.products.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateCache()
	go h.index.Remove(id)
	repository.LogAction(h.audit, middleware.IdentityFrom(c).UserID,
		"DEACTIVATE", "product", id, nil, nil)

	c.JSON(http.StatusOK, gin.H{"msg": "Produit désactivé"})
}

// AdminList retourne tous les produits, actifs ou non.
func (h *ProductHandler) AdminList(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// UploadImage stocke l'image d'un produit dans MinIO (admin).
func (h *ProductHandler) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.products.GetByID(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' requis"})
		return
	}

	url, err := h.images.Upload(ctx, id, file)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.products.SetImageURL(ctx, id, url); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateCache()
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func (h *ProductHandler) invalidateCache() {
	h.rdb.Del(context.Background(), productsCacheKey)
}
