package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"case-management-tool/models"
	"case-management-tool/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const clientCacheTTL = 24 * time.Hour

type ClientHandler struct {
	repo  models.Repository
	kafka utils.KafkaProducer
	cache utils.RedisClient
}

func NewClientHandler(repo models.Repository, kafka utils.KafkaProducer, cache utils.RedisClient) *ClientHandler {
	return &ClientHandler{
		repo:  repo,
		kafka: kafka,
		cache: cache,
	}
}

// ClientRequest is the intake form. Age and gender are mandatory; the scale
// fields are validated against their documented ranges.
type ClientRequest struct {
	Age                         int  `json:"age" binding:"required,gte=18"`
	Gender                      int  `json:"gender" binding:"required,oneof=1 2"`
	WorkExperience              int  `json:"work_experience" binding:"gte=0"`
	CanadaWorkex                int  `json:"canada_workex" binding:"gte=0"`
	DepNum                      int  `json:"dep_num" binding:"gte=0"`
	CanadaBorn                  bool `json:"canada_born"`
	CitizenStatus               bool `json:"citizen_status"`
	LevelOfSchooling            int  `json:"level_of_schooling" binding:"omitempty,gte=1,lte=14"`
	FluentEnglish               bool `json:"fluent_english"`
	ReadingEnglishScale         int  `json:"reading_english_scale" binding:"omitempty,gte=1,lte=10"`
	SpeakingEnglishScale        int  `json:"speaking_english_scale" binding:"omitempty,gte=1,lte=10"`
	WritingEnglishScale         int  `json:"writing_english_scale" binding:"omitempty,gte=1,lte=10"`
	NumeracyScale               int  `json:"numeracy_scale" binding:"omitempty,gte=1,lte=10"`
	ComputerScale               int  `json:"computer_scale" binding:"omitempty,gte=1,lte=10"`
	TransportationBool          bool `json:"transportation_bool"`
	CaregiverBool               bool `json:"caregiver_bool"`
	Housing                     int  `json:"housing" binding:"omitempty,gte=1,lte=10"`
	IncomeSource                int  `json:"income_source" binding:"omitempty,gte=1,lte=10"`
	FelonyBool                  bool `json:"felony_bool"`
	AttendingSchool             bool `json:"attending_school"`
	CurrentlyEmployed           bool `json:"currently_employed"`
	SubstanceUse                bool `json:"substance_use"`
	TimeUnemployed              int  `json:"time_unemployed" binding:"gte=0"`
	NeedMentalHealthSupportBool bool `json:"need_mental_health_support_bool"`
}

func (r *ClientRequest) toModel(client *models.Client) {
	client.Age = r.Age
	client.Gender = r.Gender
	client.WorkExperience = r.WorkExperience
	client.CanadaWorkex = r.CanadaWorkex
	client.DepNum = r.DepNum
	client.CanadaBorn = r.CanadaBorn
	client.CitizenStatus = r.CitizenStatus
	client.LevelOfSchooling = r.LevelOfSchooling
	client.FluentEnglish = r.FluentEnglish
	client.ReadingEnglishScale = r.ReadingEnglishScale
	client.SpeakingEnglishScale = r.SpeakingEnglishScale
	client.WritingEnglishScale = r.WritingEnglishScale
	client.NumeracyScale = r.NumeracyScale
	client.ComputerScale = r.ComputerScale
	client.TransportationBool = r.TransportationBool
	client.CaregiverBool = r.CaregiverBool
	client.Housing = r.Housing
	client.IncomeSource = r.IncomeSource
	client.FelonyBool = r.FelonyBool
	client.AttendingSchool = r.AttendingSchool
	client.CurrentlyEmployed = r.CurrentlyEmployed
	client.SubstanceUse = r.SubstanceUse
	client.TimeUnemployed = r.TimeUnemployed
	client.NeedMentalHealthSupportBool = r.NeedMentalHealthSupportBool
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &models.Client{}
	req.toModel(client)

	if err := h.repo.CreateClient(client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.kafka != nil {
		go h.sendClientEvent("client_created", client)
	}

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	cacheKey := clientCacheKey(id)
	if h.cache != nil {
		if cached, err := h.cache.GetFromCache(c.Request.Context(), cacheKey); err == nil {
			var client models.Client
			if err := json.Unmarshal([]byte(cached), &client); err == nil {
				c.JSON(http.StatusOK, client)
				return
			}
		} else if err != redis.Nil {
			log.Printf("Cache lookup failed for %s: %v", cacheKey, err)
		}
	}

	client, err := h.repo.GetClientByID(id)
	if err != nil {
		respondRepoError(c, err, "client not found")
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(client); err == nil {
			if err := h.cache.SetToCache(c.Request.Context(), cacheKey, string(data), clientCacheTTL); err != nil {
				log.Printf("Failed to cache client %d: %v", id, err)
			}
		}
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	skip, err := intQuery(c, "skip", 0)
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip value cannot be negative"})
		return
	}
	limit, err := intQuery(c, "limit", 50)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be greater than 0"})
		return
	}

	clients, total, err := h.repo.ListClients(skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients, "total": total})
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.repo.GetClientByID(id)
	if err != nil {
		respondRepoError(c, err, "client not found")
		return
	}

	req.toModel(client)

	if err := h.repo.UpdateClient(client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.invalidateClient(c.Request.Context(), id)

	if h.kafka != nil {
		go h.sendClientEvent("client_updated", client)
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	if err := h.repo.DeleteClient(id); err != nil {
		respondRepoError(c, err, "client not found")
		return
	}

	h.invalidateClient(c.Request.Context(), id)

	if h.kafka != nil {
		go func(id uint) {
			event := map[string]interface{}{
				"event": "client_deleted",
				"data":  map[string]interface{}{"ID": id},
			}
			sendEvent(h.kafka, utils.TopicClientEvents, event)
		}(id)
	}

	c.Status(http.StatusNoContent)
}

// Helpers shared by the handler files

func (h *ClientHandler) sendClientEvent(eventType string, client *models.Client) {
	event := map[string]interface{}{
		"event": eventType,
		"data":  client,
	}
	sendEvent(h.kafka, utils.TopicClientEvents, event)
}

func sendEvent(producer utils.KafkaProducer, topic string, event interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	jsonData, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal Kafka event: %v", err)
		return
	}

	if err := producer.SendMessage(ctx, topic, nil, jsonData); err != nil {
		log.Printf("Failed to send Kafka message: %v", err)
	}
}

func (h *ClientHandler) invalidateClient(ctx context.Context, id uint) {
	if h.cache == nil {
		return
	}
	if err := h.cache.DeleteFromCache(ctx, clientCacheKey(id)); err != nil {
		log.Printf("Failed to invalidate cache for client %d: %v", id, err)
	}
}

func clientCacheKey(id uint) string {
	return fmt.Sprintf("client:%d", id)
}

func clientIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	if idStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client ID is required"})
		return 0, false
	}

	id, err := parseUint(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client ID format"})
		return 0, false
	}
	return id, true
}

func respondRepoError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseUint(s string) (uint, error) {
	var id uint
	_, err := fmt.Sscanf(s, "%d", &id)
	return id, err
}

func intQuery(c *gin.Context, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	var v int
	_, err := fmt.Sscanf(raw, "%d", &v)
	return v, err
}
