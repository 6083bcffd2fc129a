package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"giftraffle/internal/services"
	"giftraffle/internal/session"
)

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	service       *services.RaffleService
	sessions      *session.Manager
	adminUser     string
	adminPassword string
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.RaffleService, sessions *session.Manager, adminUser, adminPassword string) *HTTPHandler {
	return &HTTPHandler{
		service:       service,
		sessions:      sessions,
		adminUser:     adminUser,
		adminPassword: adminPassword,
	}
}

// RegisterPublicRoutes registers the routes that need no session.
func (h *HTTPHandler) RegisterPublicRoutes(router *gin.Engine) {
	router.POST("/api/login", h.Login)
	router.GET("/api/winners", h.PublicWinners)
}

// RegisterAdminRoutes registers the session-gated admin routes.
func (h *HTTPHandler) RegisterAdminRoutes(group *gin.RouterGroup) {
	group.POST("/api/logout", h.Logout)
	group.POST("/api/participants/upload", h.UploadParticipantsCSV)
	group.POST("/api/gifts/upload", h.UploadGiftsCSV)
	group.POST("/api/presort", h.Presort)
	group.POST("/api/save", h.SaveWinners)
	group.POST("/api/reset", h.Reset)
	group.GET("/api/export", h.ExportWinnersCSV)
}

// AuthMiddleware rejects requests without a live admin session.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" || !h.sessions.Validate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.GetHeader("X-Session-Token")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the fixed admin credentials and issues a time-boxed session.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}
	if req.Username != h.adminUser || req.Password != h.adminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong username or password"})
		return
	}

	s, err := h.sessions.Issue()
	if err != nil {
		logger.Errorf("issuing session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// Logout revokes the caller's session.
func (h *HTTPHandler) Logout(c *gin.Context) {
	h.sessions.Revoke(sessionToken(c))
	c.Status(http.StatusNoContent)
}

// UploadParticipantsCSV loads a new participants batch from the uploaded file.
func (h *HTTPHandler) UploadParticipantsCSV(c *gin.Context) {
	text, ok := h.readUpload(c)
	if !ok {
		return
	}

	loaded, discarded, err := h.service.LoadParticipants(text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, uploadResponse(loaded, discarded))
}

// UploadGiftsCSV loads a new gifts batch from the uploaded file.
func (h *HTTPHandler) UploadGiftsCSV(c *gin.Context) {
	text, ok := h.readUpload(c)
	if !ok {
		return
	}

	loaded, discarded, err := h.service.LoadGifts(text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, uploadResponse(loaded, discarded))
}

func (h *HTTPHandler) readUpload(c *gin.Context) (string, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("error retrieving file: %v", err)})
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Errorf("reading upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error reading file"})
		return "", false
	}
	return string(data), true
}

func uploadResponse(loaded, discarded int) gin.H {
	resp := gin.H{"loaded": loaded, "discardedRows": discarded}
	if discarded > 0 {
		resp["warning"] = fmt.Sprintf("%d rows were discarded for missing required fields", discarded)
	}
	return resp
}

// Presort runs the random assignment and returns the fresh winner list.
func (h *HTTPHandler) Presort(c *gin.Context) {
	winners, err := h.service.Presort()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners})
}

// SaveWinners persists the presorted winner list.
func (h *HTTPHandler) SaveWinners(c *gin.Context) {
	if err := h.service.SaveWinners(); err != nil {
		status := http.StatusInternalServerError
		if err == services.ErrNoPresort {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Reset clears the in-memory batch and the persistent store.
func (h *HTTPHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportWinnersCSV downloads the winner list as a CSV attachment.
func (h *HTTPHandler) ExportWinnersCSV(c *gin.Context) {
	csvText, err := h.service.ExportCSV()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=winners.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))
	c.Writer.WriteString(csvText)
}

// PublicWinners is the read-only lookup: the persisted winner list plus the
// last save timestamp. Filtering is a client concern.
func (h *HTTPHandler) PublicWinners(c *gin.Context) {
	resp := gin.H{"winners": h.service.PersistedWinners()}
	if t, ok := h.service.LastSavedAt(); ok {
		resp["lastSavedAt"] = t.Format(time.RFC3339)
	} else {
		resp["lastSavedAt"] = nil
	}
	c.JSON(http.StatusOK, resp)
}
