package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// Limites par endpoint
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	// Durées de cooldown
	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

// RateLimiter limite les tentatives de connexion et d'inscription via Redis.
type RateLimiter struct {
	rdb *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// Login limite les tentatives de connexion par email.
func (rl *RateLimiter) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Remettre le body pour les handlers suivants
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()
		key := "login_attempts:" + input.Email

		cooldownKey := "login_cooldown:" + input.Email
		if rl.rdb.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := rl.rdb.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attempts, _ := rl.rdb.Get(ctx, key).Int()
		if attempts >= LoginMaxAttempts {
			rl.rdb.Set(ctx, cooldownKey, "1", LoginCooldown)
			rl.rdb.Del(ctx, key)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Compte bloqué pendant %d minutes", int(LoginCooldown.Minutes())),
				"retry_after": int(LoginCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		// Login échoué : incrémenter ; réussi : réinitialiser
		if c.Writer.Status() == http.StatusUnauthorized {
			rl.rdb.Incr(ctx, key)
			rl.rdb.Expire(ctx, key, LoginCooldown)
		} else if c.Writer.Status() == http.StatusOK {
			rl.rdb.Del(ctx, key)
			rl.rdb.Del(ctx, cooldownKey)
		}
	}
}

// Register limite les inscriptions par IP.
func (rl *RateLimiter) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		ip := c.ClientIP()
		key := "register_attempts:" + ip

		cooldownKey := "register_cooldown:" + ip
		if rl.rdb.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := rl.rdb.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(ttl.Minutes())),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attempts, _ := rl.rdb.Get(ctx, key).Int()
		if attempts >= RegisterMaxAttempts {
			rl.rdb.Set(ctx, cooldownKey, "1", RegisterCooldown)
			rl.rdb.Del(ctx, key)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(RegisterCooldown.Minutes())),
				"retry_after": int(RegisterCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			rl.rdb.Incr(ctx, key)
			rl.rdb.Expire(ctx, key, RegisterCooldown)
		}
	}
}
