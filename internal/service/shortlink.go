package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/repository"
)

const (
	shortIDCharset   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	shortIDLength    = 6
	maxShortIDLength = 16
	shortLinkPrefix  = "shortlink:"
	shortLinkTTL     = 10 * time.Minute
)

// GenerateShortID draws a random short id from a 62-symbol alphabet
func GenerateShortID() string {
	b := make([]byte, shortIDLength)
	max := big.NewInt(int64(len(shortIDCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		b[i] = shortIDCharset[n.Int64()]
	}
	return string(b)
}

// ShortLinkService maps short ids to recipes. Short ids never change, so
// resolutions are cached in redis when a client is configured.
type ShortLinkService struct {
	recipes       repository.RecipeRepository
	cache         *redis.Client
	codeGenerator func() string
}

func NewShortLinkService(recipes repository.RecipeRepository, cache *redis.Client) *ShortLinkService {
	return &ShortLinkService{
		recipes:       recipes,
		cache:         cache,
		codeGenerator: GenerateShortID,
	}
}

// Resolve returns the id of the recipe behind shortID, or ErrNotFound
func (s *ShortLinkService) Resolve(ctx context.Context, shortID string) (uint, error) {
	if !validShortID(shortID) {
		return 0, fmt.Errorf("short link %q: %w", shortID, ErrNotFound)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, shortLinkPrefix+shortID).Result()
		switch {
		case err == nil:
			if id, perr := strconv.ParseUint(cached, 10, 64); perr == nil {
				return uint(id), nil
			}
		case !errors.Is(err, redis.Nil):
			logger.Logger.Warn("short link cache read failed", zap.Error(err))
		}
	}

	id, err := s.recipes.GetIDByShortID(ctx, shortID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, shortLinkPrefix+shortID, strconv.FormatUint(uint64(id), 10), shortLinkTTL).Err(); err != nil {
			logger.Logger.Warn("short link cache write failed", zap.Error(err))
		}
	}
	return id, nil
}

// ShortIDFor returns the recipe's short id, assigning one to rows that
// predate short links
func (s *ShortLinkService) ShortIDFor(ctx context.Context, recipeID uint) (string, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return "", err
	}
	if recipe.ShortID != nil && *recipe.ShortID != "" {
		return *recipe.ShortID, nil
	}
	return s.recipes.AssignShortID(ctx, recipeID, s.codeGenerator)
}

// Forget drops a cached resolution, used when the recipe is deleted
func (s *ShortLinkService) Forget(ctx context.Context, shortID string) {
	if s.cache == nil || shortID == "" {
		return
	}
	if err := s.cache.Del(ctx, shortLinkPrefix+shortID).Err(); err != nil {
		logger.Logger.Warn("short link cache delete failed", zap.Error(err))
	}
}

func validShortID(shortID string) bool {
	if shortID == "" || len(shortID) > maxShortIDLength {
		return false
	}
	for i := 0; i < len(shortID); i++ {
		c := shortID[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
