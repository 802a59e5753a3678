package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scolaris/scolaris-backend/internal/config"
	"github.com/scolaris/scolaris-backend/internal/service"
	ws "github.com/scolaris/scolaris-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live attendance feed events to staff dashboards.
type WSHandler struct {
	rdb               *redis.Client
	classGroupService *service.ClassGroupService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, classGroupService *service.ClassGroupService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:               rdb,
		classGroupService: classGroupService,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// AttendanceFeedStream godoc
// WS /ws/v1/class-groups/:id/attendance/feed
// Upgrades to WebSocket and forwards every committed attendance batch for
// the class group as it happens.
func (h *WSHandler) AttendanceFeedStream(c *gin.Context) {
	classGroupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class group ID"})
		return
	}

	if _, err := h.classGroupService.GetByID(c.Request.Context(), classGroupID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "class group not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("class_group_id", classGroupID).Logger()
	wsLog.Info().Msg("Feed subscriber connected")

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.CacheKey.AttendanceFeedChannel(classGroupID))
	defer sub.Close()

	// Reader goroutine: answers pings and unblocks the writer loop when the
	// client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Feed subscriber disconnected")
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event ws.AttendanceFeedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Error().Err(err).Msg("Malformed feed payload")
				continue
			}
			if err := ws.WriteTyped(conn, ws.FeedResponse{Event: ws.EventFeed, Feed: event}); err != nil {
				wsLog.Debug().Err(err).Msg("Feed write failed")
				return
			}
		}
	}
}
