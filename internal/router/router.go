package router

import (
	"net/http"
	"strings"

	"github.com/civicgrid/complaint-service/api"
	"github.com/civicgrid/complaint-service/internal/handler"
	"github.com/civicgrid/complaint-service/internal/routing"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	pathHealth  = "/health"
	pathReady   = "/ready"
	pathSwagger = "/swagger"
)

func New(complaints *handler.ComplaintHandler, engine *routing.Engine) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(pathHealth, handler.Health)
	r.GET(pathReady, handler.Ready(engine))
	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/complaints", complaints.Create)
		v1.GET("/complaints", complaints.List)
		v1.GET("/complaints/:id", complaints.Get)
		v1.POST("/complaints/:id/vote", complaints.Vote)
		v1.POST("/complaints/:id/comments", complaints.Comment)
		v1.POST("/complaints/:id/notes", complaints.Note)
		v1.POST("/complaints/:id/status", complaints.UpdateStatus)
		v1.POST("/complaints/:id/assign", complaints.Assign)
		v1.GET("/complaints/:id/activity", complaints.ComplaintActivity)
		v1.POST("/classify", complaints.Classify)
		v1.GET("/categories", complaints.Categories)
		v1.GET("/analytics", complaints.Analytics)
		v1.GET("/activity", complaints.RecentActivity)
	}

	return r
}
