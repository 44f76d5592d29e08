package handlers

import (
	"log"
	"net/http"

	"case-management-tool/models"
	"case-management-tool/ranker"
	"case-management-tool/utils"

	"github.com/gin-gonic/gin"
)

// CaseHandler manages case assignments and per-case intervention statuses.
type CaseHandler struct {
	repo     models.Repository
	kafka    utils.KafkaProducer
	store    *ranker.Store
	registry *ranker.Registry
}

func NewCaseHandler(repo models.Repository, kafka utils.KafkaProducer, store *ranker.Store, registry *ranker.Registry) *CaseHandler {
	return &CaseHandler{
		repo:     repo,
		kafka:    kafka,
		store:    store,
		registry: registry,
	}
}

// ServiceUpdate toggles intervention flags for a case. Omitted fields keep
// their current value.
type ServiceUpdate struct {
	EmploymentAssistance               *bool `json:"employment_assistance"`
	LifeStabilization                  *bool `json:"life_stabilization"`
	RetentionServices                  *bool `json:"retention_services"`
	SpecializedServices                *bool `json:"specialized_services"`
	EmploymentRelatedFinancialSupports *bool `json:"employment_related_financial_supports"`
	EmployerFinancialSupports          *bool `json:"employer_financial_supports"`
	EnhancedReferrals                  *bool `json:"enhanced_referrals"`
}

func (u *ServiceUpdate) apply(clientCase *models.ClientCase) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&clientCase.EmploymentAssistance, u.EmploymentAssistance)
	set(&clientCase.LifeStabilization, u.LifeStabilization)
	set(&clientCase.RetentionServices, u.RetentionServices)
	set(&clientCase.SpecializedServices, u.SpecializedServices)
	set(&clientCase.EmploymentRelatedFinancialSupports, u.EmploymentRelatedFinancialSupports)
	set(&clientCase.EmployerFinancialSupports, u.EmployerFinancialSupports)
	set(&clientCase.EnhancedReferrals, u.EnhancedReferrals)
}

func (h *CaseHandler) GetClientServices(c *gin.Context) {
	id, ok := clientIDParam(c)
	if !ok {
		return
	}

	cases, err := h.repo.GetClientCases(id)
	if err != nil {
		respondRepoError(c, err, "no services found for client")
		return
	}

	c.JSON(http.StatusOK, cases)
}

// UpdateClientServices updates intervention flags on the case between the
// client and a case worker, then refreshes the stored success-rate estimate
// from the outcome table so the client keeps exactly one active estimate.
func (h *CaseHandler) UpdateClientServices(c *gin.Context) {
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}

	workerID, err := parseUint(c.Param("worker_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case worker ID format"})
		return
	}

	var update ServiceUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientCase, err := h.repo.GetCase(clientID, workerID)
	if err != nil {
		respondRepoError(c, err, "no case found for client with this case worker")
		return
	}

	update.apply(clientCase)
	h.refreshEstimate(clientID, clientCase)

	if err := h.repo.UpdateCase(clientCase); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, clientCase)
}

type AssignmentRequest struct {
	ClientID     uint `json:"client_id" binding:"required"`
	CaseWorkerID uint `json:"case_worker_id" binding:"required"`
}

func (h *CaseHandler) CreateCaseAssignment(c *gin.Context) {
	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientCase, err := h.repo.CreateCaseAssignment(req.ClientID, req.CaseWorkerID)
	if err != nil {
		respondRepoError(c, err, "client or case worker not found")
		return
	}

	if h.kafka != nil {
		go func() {
			event := map[string]interface{}{
				"event": "case_assigned",
				"data":  clientCase,
			}
			sendEvent(h.kafka, utils.TopicClientEvents, event)
		}()
	}

	c.JSON(http.StatusCreated, clientCase)
}

// refreshEstimate recomputes the case's success rate for its current
// intervention flags. When the outcome table has nothing usable for the
// combination the previous estimate is kept rather than replaced with a
// guess.
func (h *CaseHandler) refreshEstimate(clientID uint, clientCase *models.ClientCase) {
	if h.store == nil || h.registry == nil {
		return
	}

	client, err := h.repo.GetClientByID(clientID)
	if err != nil {
		log.Printf("Failed to load client %d for estimate refresh: %v", clientID, err)
		return
	}

	table, _ := h.store.Current()
	scorer, _ := h.registry.ActiveScorer()
	if rate, ok := scorer.Score(table, client.AttributeVector(), clientCase.ServiceFlags()); ok {
		clientCase.SuccessRate = rate
	}
}
