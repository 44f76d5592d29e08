package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"net/http"
	"time"

	"case-management-tool/models"
	"case-management-tool/monitoring"
	"case-management-tool/ranker"
	"case-management-tool/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const recommendationCacheTTL = 1 * time.Hour

// RecommendHandler serves intervention rankings and the scoring-model
// registry.
type RecommendHandler struct {
	repo     models.Repository
	store    *ranker.Store
	registry *ranker.Registry
	cache    utils.RedisClient
}

func NewRecommendHandler(repo models.Repository, store *ranker.Store, registry *ranker.Registry, cache utils.RedisClient) *RecommendHandler {
	return &RecommendHandler{
		repo:     repo,
		store:    store,
		registry: registry,
		cache:    cache,
	}
}

// GetRecommendations ranks intervention combinations for a client by
// predicted improvement over the baseline. Results are memoized in Redis,
// keyed on the outcome-table version, the active model and the client's
// attribute vector, so a bulk import or a client update makes the old entry
// unreachable instead of requiring explicit invalidation.
func (h *RecommendHandler) GetRecommendations(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	topK, err := intQuery(c, "top", ranker.DefaultTopK)
	if err != nil || topK < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a positive integer"})
		return
	}

	client, err := h.repo.GetClientByID(id)
	if err != nil {
		respondRepoError(c, err, "client not found")
		return
	}

	table, version := h.store.Current()
	scorer, modelName := h.registry.ActiveScorer()
	attrs := client.AttributeVector()

	cacheKey := recommendationCacheKey(version, modelName, attrs, topK)
	if h.cache != nil {
		if cached, err := h.cache.GetFromCache(c.Request.Context(), cacheKey); err == nil {
			var result ranker.Result
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				monitoring.RecommendationCacheHits.Inc()
				c.JSON(http.StatusOK, result)
				return
			}
		} else if err != redis.Nil {
			log.Printf("Recommendation cache lookup failed: %v", err)
		}
	}

	result, err := ranker.Rank(table, scorer, attrs, topK)
	if err != nil {
		if errors.Is(err, ranker.ErrNoData) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no outcome data has been imported yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	monitoring.RecommendationsServed.Inc()

	if h.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := h.cache.SetToCache(c.Request.Context(), cacheKey, string(data), recommendationCacheTTL); err != nil {
				log.Printf("Failed to cache recommendation: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecommendHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.registry.List()})
}

func (h *RecommendHandler) CurrentModel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"current_model": h.registry.Current()})
}

func (h *RecommendHandler) SwitchModel(c *gin.Context) {
	name := c.Param("name")
	if !h.registry.Switch(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown model " + name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "model switched to " + name})
}

func recommendationCacheKey(version uint64, model string, attrs []float64, topK int) string {
	hash := fnv.New64a()
	for _, v := range attrs {
		fmt.Fprintf(hash, "%g|", v)
	}
	return fmt.Sprintf("recommendation:v%d:%s:%x:top%d", version, model, hash.Sum64(), topK)
}
