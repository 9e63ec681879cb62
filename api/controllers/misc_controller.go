package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (server *Server) AboutAuthor(c *gin.Context) {
	server.render(c, http.StatusOK, "about/author.html", gin.H{"Title": "About the author"})
}

func (server *Server) AboutTech(c *gin.Context) {
	server.render(c, http.StatusOK, "about/tech.html", gin.H{"Title": "Technologies"})
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the database and the page cache answer.
func (server *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "cache": "ok"}
	status := http.StatusOK

	sqlDB, err := server.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if p, ok := server.Cache.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	} else if server.Cache == nil {
		checks["cache"] = "disabled"
	}

	c.JSON(status, gin.H{"status": status, "response": checks})
}
