package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"quizverse_backend/internal/repository"
	"quizverse_backend/internal/service"
	"quizverse_backend/internal/sweep"
	"quizverse_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type HomeHandler struct {
	stats     service.StatsService
	themes    repository.ThemeRepository
	models    repository.LLMRepository
	presence  *service.PresenceTracker
	scheduler *sweep.Scheduler
	upgrader  websocket.Upgrader
}

func NewHomeHandler(stats service.StatsService, themes repository.ThemeRepository, models repository.LLMRepository, presence *service.PresenceTracker, scheduler *sweep.Scheduler) *HomeHandler {
	return &HomeHandler{
		stats:     stats,
		themes:    themes,
		models:    models,
		presence:  presence,
		scheduler: scheduler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}
}

func (h *HomeHandler) Home(c *gin.Context) {
	info, err := h.stats.Home(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *HomeHandler) Contributors(c *gin.Context) {
	contributors, err := h.stats.Contributors(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributors": contributors})
}

func (h *HomeHandler) Themes(c *gin.Context) {
	themes, err := h.themes.List(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"themes": themes})
}

func (h *HomeHandler) Models(c *gin.Context) {
	models, err := h.models.List(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

func (h *HomeHandler) OnlineCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.presence.OnlineCount()})
}

// RunSweep triggers a maintenance job outside its schedule.
func (h *HomeHandler) RunSweep(c *gin.Context) {
	name := c.Param("name")
	if err := h.scheduler.RunByName(c.Request.Context(), name); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sweep executed", "job": name})
}

type onlineFeedMessage struct {
	Online int   `json:"online"`
	SentAt int64 `json:"sent_at"`
}

// OnlineFeed streams the online-user count over a websocket, refreshing every
// few seconds until the client disconnects.
func (h *HomeHandler) OnlineFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		payload, err := json.Marshal(onlineFeedMessage{
			Online: h.presence.OnlineCount(),
			SentAt: time.Now().Unix(),
		})
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}

		select {
		case <-ticker.C:
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
