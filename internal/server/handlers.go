package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
	"github.com/gin-gonic/gin"
)

// frameBuffer is how many frames a slow stream client may lag behind
// before frames are dropped for it.
const frameBuffer = 8

// durationRequest either nudges the live duration or replaces the selection.
type durationRequest struct {
	Delta    *float64 `json:"delta_seconds"`
	Selected *float64 `json:"selected_seconds"`
}

func (s *Server) handleSession(c *gin.Context) {
	snap, err := s.session.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return
	}

	c.JSON(http.StatusOK, newSessionView(snap))
}

func (s *Server) handleToggle(c *gin.Context) {
	var snap conductor.Snapshot
	err := s.session.Do(c.Request.Context(), func(cd *conductor.Conductor) {
		cd.Toggle()
		snap = cd.Snapshot()
	})
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return
	}

	s.logger.Info("session toggled", "state", snap.State.String())
	c.JSON(http.StatusOK, newSessionView(snap))
}

func (s *Server) handleDuration(c *gin.Context) {
	var req durationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	if (req.Delta == nil) == (req.Selected == nil) {
		s.fail(c, http.StatusBadRequest, errors.New("exactly one of delta_seconds and selected_seconds is required"))
		return
	}

	var (
		snap     conductor.Snapshot
		rejected bool
	)
	err := s.session.Do(c.Request.Context(), func(cd *conductor.Conductor) {
		if req.Delta != nil {
			cd.AdjustDuration(*req.Delta)
		} else {
			limits := cd.Snapshot().Limits
			rejected = !cd.SelectDuration(limits.Decode(*req.Selected))
		}
		snap = cd.Snapshot()
	})
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return
	}
	if rejected {
		s.fail(c, http.StatusConflict, errors.New("duration can only be selected while idle"))
		return
	}

	c.JSON(http.StatusOK, newSessionView(snap))
}

func (s *Server) handlePresets(c *gin.Context) {
	presets, err := s.presets.Load()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]presetView, 0, len(presets))
	for _, p := range presets {
		views = append(views, newPresetView(p))
	}

	c.JSON(http.StatusOK, gin.H{"presets": views})
}

func (s *Server) handleApplyPreset(c *gin.Context) {
	p, err := s.presets.Get(c.Param("name"))
	if errors.Is(err, store.ErrPresetNotFound) {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	var (
		snap     conductor.Snapshot
		applyErr error
	)
	err = s.session.Do(c.Request.Context(), func(cd *conductor.Conductor) {
		applyErr = cd.Apply(p.Settings)
		snap = cd.Snapshot()
	})
	if err != nil {
		s.fail(c, http.StatusServiceUnavailable, err)
		return
	}
	if applyErr != nil {
		s.fail(c, http.StatusUnprocessableEntity, applyErr)
		return
	}

	s.logger.Info("preset applied", "name", p.Name)
	c.JSON(http.StatusOK, newSessionView(snap))
}

// handleFrames streams every snapshot as a server-sent "frame" event until
// the client goes away.
func (s *Server) handleFrames(c *gin.Context) {
	ch := make(chan conductor.Snapshot, frameBuffer)
	if err := s.subscribe(ch); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	defer s.frames.Unsubscribe(ch)

	s.logger.Debug("frame stream opened", "client", c.ClientIP())

	c.Stream(func(io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case snap := <-ch:
			c.SSEvent("frame", newSessionView(snap))
			return true
		}
	})

	s.logger.Debug("frame stream closed", "client", c.ClientIP())
}

// subscribe gives a stalled client FrameSendTimeout to catch up before a
// frame is dropped for it.
func (s *Server) subscribe(ch chan conductor.Snapshot) error {
	if s.config.FrameSendTimeout > 0 {
		return s.frames.SubscribeWithTimeout(ch, s.config.FrameSendTimeout)
	}
	return s.frames.Subscribe(ch)
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	} else {
		s.logger.Debug("request rejected", "path", c.FullPath(), "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// seconds encodes a duration for JSON, where Unbounded has no representation.
func seconds(d timer.Duration) *float64 {
	if d.IsUnbounded() {
		return nil
	}
	v := d.Seconds()
	return &v
}
