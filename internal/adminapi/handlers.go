package adminapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ngmaloney/signage-terminal/internal/models"
	"github.com/ngmaloney/signage-terminal/internal/overlay"
	"github.com/ngmaloney/signage-terminal/internal/settings"
	"go.uber.org/zap"
)

// SettingsManager is the narrow settings contract required by the API
type SettingsManager interface {
	Current() models.Settings
	Update(ctx context.Context, fn func(*models.Settings) error) (models.Settings, error)
	Replace(ctx context.Context, s models.Settings) (models.Settings, error)
}

var (
	errUnknownKind = errors.New("unknown card kind")
	errNotFound    = errors.New("not found")
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	snap := s.state.Snapshot()
	windows := overlay.Compile(s.settings.Current().TimeOverlays, s.logger)
	label, active := overlay.Evaluate(overlay.Minutes(s.now()), windows)

	c.JSON(http.StatusOK, gin.H{
		"focus":          snap.Focus,
		"length":         snap.Len,
		"generation":     snap.Generation,
		"overlay":        label,
		"overlay_active": active,
	})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settings.Current())
}

func (s *Server) handlePutSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	saved, err := s.settings.Replace(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) handleResetSettings(c *gin.Context) {
	saved, err := s.settings.Replace(c.Request.Context(), models.DefaultSettings())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) handleAddCard(c *gin.Context) {
	kind := models.CardKind(c.Param("kind"))
	id := uuid.NewString()

	var created any
	_, err := s.settings.Update(c.Request.Context(), func(st *models.Settings) error {
		if st.PoolSize() >= models.MaxPoolSize {
			return settings.ErrPoolFull
		}
		switch kind {
		case models.KindWelcome:
			card := models.NewWelcomeTemplate(id)
			st.WelcomeCards = append(st.WelcomeCards, card)
			created = card
		case models.KindNews:
			card := models.NewNewsTemplate(id)
			st.CustomNews = append(st.CustomNews, card)
			created = card
		case models.KindInternal:
			card := models.NewInternalTemplate(id)
			st.InternalPanels = append(st.InternalPanels, card)
			created = card
		default:
			return errUnknownKind
		}
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	kind := models.CardKind(c.Param("kind"))
	id := c.Param("id")

	_, err := s.settings.Update(c.Request.Context(), func(st *models.Settings) error {
		var ok bool
		switch kind {
		case models.KindWelcome:
			st.WelcomeCards, ok = removeByID(st.WelcomeCards, id, func(w models.WelcomeCard) string { return w.ID })
		case models.KindNews:
			st.CustomNews, ok = removeByID(st.CustomNews, id, func(n models.NewsItem) string { return n.ID })
		case models.KindInternal:
			st.InternalPanels, ok = removeByID(st.InternalPanels, id, func(p models.InternalPanel) string { return p.ID })
		default:
			return errUnknownKind
		}
		if !ok {
			return errNotFound
		}
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleEnrichCard fetches page metadata outside the settings update so a
// slow remote never blocks other writers
func (s *Server) handleEnrichCard(c *gin.Context) {
	if s.enricher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "enrichment disabled"})
		return
	}

	ctx := c.Request.Context()
	kind := models.CardKind(c.Param("kind"))
	id := c.Param("id")
	current := s.settings.Current()

	var result any
	var apply func(*models.Settings) error

	switch kind {
	case models.KindNews:
		i := indexByID(current.CustomNews, id, func(n models.NewsItem) string { return n.ID })
		if i < 0 {
			s.writeError(c, errNotFound)
			return
		}
		item := s.enricher.News(ctx, current.CustomNews[i])
		result = item
		apply = func(st *models.Settings) error {
			j := indexByID(st.CustomNews, id, func(n models.NewsItem) string { return n.ID })
			if j < 0 {
				return errNotFound
			}
			st.CustomNews[j] = item
			return nil
		}
	case models.KindInternal:
		i := indexByID(current.InternalPanels, id, func(p models.InternalPanel) string { return p.ID })
		if i < 0 {
			s.writeError(c, errNotFound)
			return
		}
		panel := s.enricher.Internal(ctx, current.InternalPanels[i])
		result = panel
		apply = func(st *models.Settings) error {
			j := indexByID(st.InternalPanels, id, func(p models.InternalPanel) string { return p.ID })
			if j < 0 {
				return errNotFound
			}
			st.InternalPanels[j] = panel
			return nil
		}
	default:
		s.writeError(c, errUnknownKind)
		return
	}

	if _, err := s.settings.Update(ctx, apply); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAddOverlay(c *gin.Context) {
	window := models.NewTimeWindowTemplate(uuid.NewString())
	_, err := s.settings.Update(c.Request.Context(), func(st *models.Settings) error {
		st.TimeOverlays = append(st.TimeOverlays, window)
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, window)
}

func (s *Server) handleDeleteOverlay(c *gin.Context) {
	id := c.Param("id")
	_, err := s.settings.Update(c.Request.Context(), func(st *models.Settings) error {
		var ok bool
		st.TimeOverlays, ok = removeByID(st.TimeOverlays, id, func(w models.TimeWindow) string { return w.ID })
		if !ok {
			return errNotFound
		}
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, settings.ErrPoolFull) && c.Request.Method == http.MethodPost:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, settings.ErrInvalid), errors.Is(err, settings.ErrPoolFull):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errUnknownKind), errors.Is(err, errNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error("admin request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
	}
}

func indexByID[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}

func removeByID[T any](items []T, id string, key func(T) string) ([]T, bool) {
	i := indexByID(items, id, key)
	if i < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}
