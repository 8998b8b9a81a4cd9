package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfkeeper/shelfkeeper/internal/scraper"
)

// ScrapeController turns a pasted URL into a prefilled book candidate.
type ScrapeController struct {
	scraper *scraper.Scraper
}

func NewScrapeController(s *scraper.Scraper) *ScrapeController {
	return &ScrapeController{scraper: s}
}

type scrapeRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ScrapeBookPage handles POST /api/scrape.
func (controller *ScrapeController) ScrapeBookPage(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := controller.scraper.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, info)
}
