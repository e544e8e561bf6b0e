package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	coldchain "coldchain-backend"
)

// current holds the published dataset. Queries only ever read through
// Load(); reload builds a fresh Dataset and swaps the pointer, so readers
// never observe a partially built table.
var current atomic.Pointer[coldchain.Dataset]

func main() {
	ds, source, err := loadDataset()
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	current.Store(ds)

	log.Printf("📦 Dataset ready from %s: %d records (%d dropped, %d parse warnings)",
		source, len(ds.Records), ds.Validation.DroppedRows, ds.Validation.ParseWarnings)
	for col, n := range ds.Validation.NullCounts {
		log.Printf("⚠ %d null values in column %q", n, col)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := gin.Default()

	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"records": len(current.Load().Records),
			"time":    time.Now(),
		})
	})
	r.GET("/api/v1/recommendation", handleRecommendation)
	r.GET("/api/v1/crops/:crop/summary", handleCropSummary)
	r.GET("/api/v1/spoilage-pivot", handleSpoilagePivot)
	r.GET("/api/v1/options", handleOptions)
	r.GET("/api/v1/guidelines", handleGuidelines)
	r.GET("/api/v1/investments", handleInvestments)
	r.POST("/api/v1/reload", handleReload)

	log.Printf("🚀 Cold-chain DSS API listening on 0.0.0.0:%s\n", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func datasetPath() string {
	if path := os.Getenv("DATASET_PATH"); path != "" {
		return path
	}
	return "TEAM_DSS_Dataset.csv"
}

// loadDataset prefers PostgreSQL when DATABASE_URL is set and falls back to
// the CSV file, so the server still comes up without a database.
func loadDataset() (*coldchain.Dataset, string, error) {
	if os.Getenv("DATABASE_URL") != "" {
		db, err := coldchain.ConnectDB()
		if err == nil {
			ds, err := coldchain.LoadDatasetFromDB(db)
			if err == nil {
				return ds, "postgres", nil
			}
			log.Printf("WARNING: could not load farm_records from PostgreSQL (%v). Falling back to CSV.", err)
		} else {
			log.Printf("WARNING: could not connect to PostgreSQL (%v). Falling back to CSV.", err)
		}
	}

	path := datasetPath()
	ds, err := coldchain.LoadCSVFile(path)
	if err != nil {
		return nil, "", err
	}
	return ds, path, nil
}

// recommendationResponse wraps the engine result with the display-formatted
// cost strings; the numeric fields stay untouched for programmatic callers.
type recommendationResponse struct {
	Kind          coldchain.OutcomeKind           `json:"kind"`
	Result        *coldchain.RecommendationResult `json:"result"`
	StorageCost   string                          `json:"storage_cost,omitempty"`
	TransportCost string                          `json:"transport_cost,omitempty"`
}

func handleRecommendation(c *gin.Context) {
	location := c.Query("location")
	crop := c.Query("crop")
	if location == "" || crop == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "location and crop query parameters are required",
		})
		return
	}

	out := coldchain.Recommend(current.Load(), location, crop)
	switch out.Kind {
	case coldchain.OutcomeMatch:
		resp := recommendationResponse{Kind: out.Kind, Result: out.Result}
		if out.Result.StorageCostPerCrateDay != nil {
			resp.StorageCost = fmt.Sprintf("₦%.0f/crate/day", *out.Result.StorageCostPerCrateDay)
		}
		if out.Result.TransportCostTotal != nil {
			resp.TransportCost = coldchain.FormatNaira(*out.Result.TransportCostTotal)
		}
		c.JSON(http.StatusOK, resp)
	case coldchain.OutcomeNoMatch:
		c.JSON(http.StatusNotFound, gin.H{
			"kind":  out.Kind,
			"error": "no recommendations found for this location/crop combination",
		})
	default:
		log.Printf("engine failure for location=%q crop=%q: %s", location, crop, out.Message)
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":  out.Kind,
			"error": "recommendation engine failed, please report this query",
		})
	}
}

func handleCropSummary(c *gin.Context) {
	c.JSON(http.StatusOK, coldchain.SummarizeCrop(current.Load(), c.Param("crop")))
}

func handleSpoilagePivot(c *gin.Context) {
	c.JSON(http.StatusOK, coldchain.SpoilageByRegion(current.Load()))
}

func handleOptions(c *gin.Context) {
	field := c.DefaultQuery("field", coldchain.ColFarmLocation)
	values, err := coldchain.ListDistinct(current.Load(), field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": field, "values": values})
}

func handleGuidelines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"crops": coldchain.CropGuidelines(current.Load())})
}

func handleInvestments(c *gin.Context) {
	crop := c.Query("crop")
	c.JSON(http.StatusOK, gin.H{
		"crop":       crop,
		"priorities": coldchain.InvestmentPriorities(crop),
		"roi":        coldchain.InvestmentROITable(),
	})
}

func handleReload(c *gin.Context) {
	ds, source, err := loadDataset()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	current.Store(ds)
	c.JSON(http.StatusOK, gin.H{
		"source":    source,
		"records":   len(ds.Records),
		"loaded_at": ds.LoadedAt,
	})
}
