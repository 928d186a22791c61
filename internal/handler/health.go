package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Healther reports whether the classification model loaded; the readiness
// payload surfaces degraded mode to operators.
type Healther interface {
	ModelAvailable() bool
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "complaint-service",
		"time":    time.Now().Unix(),
	})
}

func Ready(engine Healther) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "ready",
			"model_available": engine.ModelAvailable(),
		})
	}
}
