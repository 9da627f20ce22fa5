package core

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	m "github.com/hyunsikhwang/marketpulse/models"
)

const (
	DefaultAddr = ":8080"
)

func GetHttpServer(sc ServiceContext, addr string) *http.Server {
	if addr == "" {
		addr = DefaultAddr
	}

	engine := gin.Default()

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/api/ping", func(c *gin.Context) { ping(c, sc) })
	engine.GET("/api/indices", func(c *gin.Context) { listIndices(c, sc) })
	engine.GET("/api/dashboard", func(c *gin.Context) { getDashboard(c, sc) })
	engine.GET("/api/dashboard/raw", func(c *gin.Context) { getRawTable(c, sc) })

	server := &http.Server{
		Addr:           addr,
		Handler:        engine,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   45 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return server
}

func ping(c *gin.Context, sc ServiceContext) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func listIndices(c *gin.Context, sc ServiceContext) {
	registry := sc.Registry
	c.JSON(http.StatusOK, m.GetServiceResponseOk(&registry))
}

func getDashboard(c *gin.Context, sc ServiceContext) {
	res, err := sc.BuildDashboard()
	if err != nil {
		c.JSON(statusForError(err), m.GetServiceResponseError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, m.GetServiceResponseOk(res))
}

func getRawTable(c *gin.Context, sc ServiceContext) {
	payload, warnings, err := sc.RawTable()
	if err != nil {
		c.JSON(statusForError(err), m.GetServiceResponseError(err.Error()))
		return
	}

	res := struct {
		Table    *m.TablePayload `json:"table"`
		Warnings []string        `json:"warnings"`
	}{
		Table:    payload,
		Warnings: warnings,
	}

	c.JSON(http.StatusOK, m.GetServiceResponseOk(&res))
}

func statusForError(err error) int {
	if errors.Is(err, ErrNoData) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
