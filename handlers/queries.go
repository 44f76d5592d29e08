package handlers

import (
	"net/http"
	"strconv"

	"case-management-tool/models"
	"case-management-tool/utils"

	"github.com/gin-gonic/gin"
)

// QueryHandler serves the read-side filters over clients.
type QueryHandler struct {
	repo models.Repository
	es   utils.ElasticsearchClient
}

func NewQueryHandler(repo models.Repository, es utils.ElasticsearchClient) *QueryHandler {
	return &QueryHandler{repo: repo, es: es}
}

// GetClientsByCriteria filters clients by any combination of attribute query
// parameters. age_min is a lower bound, everything else matches exactly.
func (h *QueryHandler) GetClientsByCriteria(c *gin.Context) {
	var criteria models.ClientCriteria
	var err error

	if criteria.AgeMin, err = optIntQuery(c, "age_min"); err != nil {
		return
	}
	if criteria.AgeMin != nil && *criteria.AgeMin < 18 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minimum age must be at least 18"})
		return
	}

	if criteria.Gender, err = optIntQuery(c, "gender"); err != nil {
		return
	}
	if criteria.Gender != nil && *criteria.Gender != 1 && *criteria.Gender != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gender must be 1 or 2"})
		return
	}

	if criteria.LevelOfSchooling, err = optIntQuery(c, "education_level"); err != nil {
		return
	}
	if criteria.LevelOfSchooling != nil &&
		(*criteria.LevelOfSchooling < 1 || *criteria.LevelOfSchooling > 14) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "education level must be between 1 and 14"})
		return
	}

	intParams := map[string]**int{
		"work_experience":        &criteria.WorkExperience,
		"canada_workex":          &criteria.CanadaWorkex,
		"dep_num":                &criteria.DepNum,
		"reading_english_scale":  &criteria.ReadingEnglishScale,
		"speaking_english_scale": &criteria.SpeakingEnglishScale,
		"writing_english_scale":  &criteria.WritingEnglishScale,
		"numeracy_scale":         &criteria.NumeracyScale,
		"computer_scale":         &criteria.ComputerScale,
		"housing":                &criteria.Housing,
		"income_source":          &criteria.IncomeSource,
		"time_unemployed":        &criteria.TimeUnemployed,
	}
	for name, target := range intParams {
		if *target, err = optIntQuery(c, name); err != nil {
			return
		}
	}

	boolParams := map[string]**bool{
		"employment_status":               &criteria.CurrentlyEmployed,
		"canada_born":                     &criteria.CanadaBorn,
		"citizen_status":                  &criteria.CitizenStatus,
		"fluent_english":                  &criteria.FluentEnglish,
		"transportation_bool":             &criteria.TransportationBool,
		"caregiver_bool":                  &criteria.CaregiverBool,
		"felony_bool":                     &criteria.FelonyBool,
		"attending_school":                &criteria.AttendingSchool,
		"substance_use":                   &criteria.SubstanceUse,
		"need_mental_health_support_bool": &criteria.NeedMentalHealthSupportBool,
	}
	for name, target := range boolParams {
		if *target, err = optBoolQuery(c, name); err != nil {
			return
		}
	}

	clients, err := h.repo.GetClientsByCriteria(criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClientsByServices filters clients by intervention status flags, e.g.
// ?employment_assistance=true&life_stabilization=false.
func (h *QueryHandler) GetClientsByServices(c *gin.Context) {
	filters := map[string]bool{}
	for _, column := range models.InterventionColumns() {
		raw := c.Query(column)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid boolean for " + column})
			return
		}
		filters[column] = value
	}

	clients, err := h.repo.GetClientsByServices(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, clients)
}

func (h *QueryHandler) GetClientsBySuccessRate(c *gin.Context) {
	minRate := 70.0
	if raw := c.Query("min_rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_rate"})
			return
		}
		minRate = parsed
	}
	if minRate < 0 || minRate > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "success rate must be between 0 and 100"})
		return
	}

	clients, err := h.repo.GetClientsBySuccessRate(minRate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, clients)
}

func (h *QueryHandler) GetClientsByCaseWorker(c *gin.Context) {
	id, err := parseUint(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case worker ID format"})
		return
	}

	clients, err := h.repo.GetClientsByCaseWorker(id)
	if err != nil {
		respondRepoError(c, err, "case worker not found")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// SearchClients runs a free-text match over the Elasticsearch mirror of the
// client records kept up to date by the event consumer.
func (h *QueryHandler) SearchClients(c *gin.Context) {
	if h.es == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not available"})
		return
	}

	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":   q,
				"fields":  []string{"*"},
				"lenient": true,
			},
		},
	}

	results, err := h.es.Search(c.Request.Context(), utils.ClientIndex, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

func optIntQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid integer for " + name})
		return nil, err
	}
	return &value, nil
}

func optBoolQuery(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid boolean for " + name})
		return nil, err
	}
	return &value, nil
}
