package handlers

import (
	"net/http"

	"case-management-tool/models"
	"case-management-tool/monitoring"
	"case-management-tool/outcomes"
	"case-management-tool/ranker"

	"github.com/gin-gonic/gin"
)

// OutcomeHandler replaces the intervention outcome dataset from an uploaded
// file and swaps the in-memory lookup table the ranker reads from.
type OutcomeHandler struct {
	repo  models.Repository
	store *ranker.Store
}

func NewOutcomeHandler(repo models.Repository, store *ranker.Store) *OutcomeHandler {
	return &OutcomeHandler{repo: repo, store: store}
}

// UploadOutcomes accepts a multipart "file" field holding a .csv or .xlsx
// export. The whole dataset is replaced; partial imports never become
// visible to the ranker.
func (h *OutcomeHandler) UploadOutcomes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	rows, report, err := outcomes.Parse(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.ReplaceOutcomes(rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	table := ranker.BuildTable(rows)
	h.store.Swap(table)

	monitoring.OutcomeImportsTotal.Inc()
	monitoring.OutcomeTableSize.Set(float64(table.Size()))

	c.JSON(http.StatusOK, report)
}
