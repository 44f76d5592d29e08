package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"case-management-tool/config"
	"case-management-tool/models"
	"case-management-tool/utils"

	"github.com/segmentio/kafka-go"
)

// ClientEvent is the envelope every message on the client_events topic uses.
// Data is decoded per event type.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ClientConsumer projects client events into the Redis cache and the
// Elasticsearch mirror, and notifies case workers by email when a case is
// assigned to them. API requests never wait on any of this.
type ClientConsumer struct {
	repo     models.Repository
	cache    utils.RedisClient
	es       utils.ElasticsearchClient
	mailer   utils.Mailer
	reader   *kafka.Reader
	shutdown chan struct{}
}

func NewClientConsumer(repo models.Repository, cache utils.RedisClient, es utils.ElasticsearchClient, mailer utils.Mailer) *ClientConsumer {
	return &ClientConsumer{
		repo:   repo,
		cache:  cache,
		es:     es,
		mailer: mailer,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{config.AppConfig.KafkaBroker},
			Topic:   utils.TopicClientEvents,
			GroupID: "case-management-group",
			MaxWait: 10 * time.Second,
		}),
		shutdown: make(chan struct{}),
	}
}

func (c *ClientConsumer) Start(ctx context.Context) {
	log.Println("Starting Kafka consumer...")

	go func() {
		for {
			select {
			case <-c.shutdown:
				return
			default:
				c.processMessages(ctx)
			}
		}
	}()
}

func (c *ClientConsumer) Stop() {
	close(c.shutdown)
	if err := c.reader.Close(); err != nil {
		log.Printf("Error closing Kafka reader: %v", err)
	}
}

func (c *ClientConsumer) processMessages(ctx context.Context) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if err == context.Canceled {
			return
		}
		log.Printf("Kafka read error: %v (will retry)", err)
		time.Sleep(5 * time.Second)
		return
	}

	var event ClientEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("Failed to unmarshal Kafka message: %v", err)
		return
	}

	switch event.Event {
	case "client_created", "client_updated":
		c.handleClientUpserted(ctx, event.Data)
	case "client_deleted":
		c.handleClientDeleted(ctx, event.Data)
	case "case_assigned":
		c.handleCaseAssigned(event.Data)
	default:
		log.Printf("Unknown event type: %s", event.Event)
	}
}

func (c *ClientConsumer) handleClientUpserted(ctx context.Context, data json.RawMessage) {
	var client models.Client
	if err := json.Unmarshal(data, &client); err != nil {
		log.Printf("Failed to decode client event: %v", err)
		return
	}

	cacheKey := fmt.Sprintf("client:%d", client.ID)
	if err := c.cache.SetToCache(ctx, cacheKey, string(data), 24*time.Hour); err != nil {
		log.Printf("Failed to cache client %d: %v", client.ID, err)
	}

	if c.es != nil {
		if err := c.es.IndexDocument(ctx, utils.ClientIndex, fmt.Sprintf("%d", client.ID), client); err != nil {
			log.Printf("Failed to index client %d in Elasticsearch: %v", client.ID, err)
		}
	}

	log.Printf("Projected %d bytes for client ID %d", len(data), client.ID)
}

func (c *ClientConsumer) handleClientDeleted(ctx context.Context, data json.RawMessage) {
	var payload struct {
		ID uint `json:"ID"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("Failed to decode delete event: %v", err)
		return
	}

	if err := c.cache.DeleteFromCache(ctx, fmt.Sprintf("client:%d", payload.ID)); err != nil {
		log.Printf("Failed to evict client %d from cache: %v", payload.ID, err)
	}

	if c.es != nil {
		if err := c.es.DeleteDocument(ctx, utils.ClientIndex, fmt.Sprintf("%d", payload.ID)); err != nil {
			log.Printf("Failed to delete client %d from Elasticsearch: %v", payload.ID, err)
		}
	}

	log.Printf("Processed client_deleted event for client ID %d", payload.ID)
}

func (c *ClientConsumer) handleCaseAssigned(data json.RawMessage) {
	if c.mailer == nil {
		return
	}

	var clientCase models.ClientCase
	if err := json.Unmarshal(data, &clientCase); err != nil {
		log.Printf("Failed to decode case event: %v", err)
		return
	}

	worker, err := c.repo.GetUserByID(clientCase.CaseWorkerID)
	if err != nil {
		log.Printf("Failed to load case worker %d: %v", clientCase.CaseWorkerID, err)
		return
	}
	if worker.Email == "" {
		return
	}

	subject := fmt.Sprintf("New case assignment: client %d", clientCase.ClientID)
	body := fmt.Sprintf(
		"<p>Client %d has been assigned to you. Review their intake record and current service statuses.</p>",
		clientCase.ClientID,
	)
	if err := c.mailer.Send(worker.Email, subject, body); err != nil {
		log.Printf("Failed to notify case worker %s: %v", worker.Username, err)
		return
	}

	log.Printf("Notified case worker %s about client %d", worker.Username, clientCase.ClientID)
}
