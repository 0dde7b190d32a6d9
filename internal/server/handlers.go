package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/remote"
	"github.com/carnetlify/carnetlify/internal/store"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

func (s *Server) healthz(c *gin.Context) {
	if s.opts.Ping != nil {
		if err := s.opts.Ping(c.Request.Context()); err != nil {
			s.log.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ensureUser(c *gin.Context) {
	var req remote.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, newAPIError(http.StatusBadRequest, "invalid_request", err))
		return
	}
	u, err := s.opts.Users.Ensure(c.Request.Context(), c.GetString(ctxUID), req.Email, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse(u))
}

func (s *Server) currentUser(c *gin.Context) {
	u, err := s.opts.Users.Get(c.Request.Context(), c.GetString(ctxUID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, newAPIError(http.StatusNotFound, "not_found", errors.New("user not found")))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse(u))
}

func (s *Server) setLessonFlag(c *gin.Context) {
	ctx := c.Request.Context()
	uid := c.GetString(ctxUID)

	var req remote.SetLessonFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, newAPIError(http.StatusBadRequest, "invalid_request", err))
		return
	}
	raw := req.Key()
	if raw == "" {
		respondError(c, newAPIError(http.StatusBadRequest, "missing_slot_key", errors.New("slotKey is required")))
		return
	}
	key, err := catalog.ParseSlotKey(raw)
	if err != nil {
		respondError(c, newAPIError(http.StatusBadRequest, "invalid_slot_key", err))
		return
	}

	if _, err := s.opts.Users.Ensure(ctx, uid, "", ""); err != nil {
		respondError(c, err)
		return
	}
	changed, err := s.opts.Flags.Set(ctx, uid, key.String())
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.flagWrites.WithLabelValues(string(key.Kind), strconv.FormatBool(changed)).Inc()
	s.invalidate(ctx, uid)

	snap, err := s.opts.Flags.Snapshot(ctx, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, remote.ProgressResponse{UID: uid, Lessons: snap})
}

func (s *Server) progress(c *gin.Context) {
	ctx := c.Request.Context()
	uid := c.GetString(ctxUID)

	var (
		gen       int64
		fillCache = s.opts.Cache != nil && s.clean(ctx, uid)
	)
	if fillCache {
		snap, g, ok, err := s.opts.Cache.Get(ctx, uid)
		switch {
		case err != nil:
			s.metrics.cacheLookups.WithLabelValues("error").Inc()
			s.log.Warn("snapshot cache read failed", "uid", uid, "error", err)
			fillCache = false
		case ok:
			s.metrics.cacheLookups.WithLabelValues("hit").Inc()
			c.JSON(http.StatusOK, remote.ProgressResponse{UID: uid, Lessons: snap})
			return
		default:
			s.metrics.cacheLookups.WithLabelValues("miss").Inc()
			gen = g
		}
	}

	snap, err := s.opts.Flags.Snapshot(ctx, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if fillCache {
		if err := s.opts.Cache.Set(ctx, uid, gen, snap); err != nil {
			s.log.Warn("snapshot cache write failed", "uid", uid, "error", err)
		}
	}
	c.JSON(http.StatusOK, remote.ProgressResponse{UID: uid, Lessons: snap})
}

// invalidate drops uid's cached snapshot after a write. When the cache
// cannot be reached uid is marked stale, and reads skip the cache until a
// later invalidation succeeds.
func (s *Server) invalidate(ctx context.Context, uid string) {
	if s.opts.Cache == nil {
		return
	}
	if err := s.opts.Cache.Invalidate(ctx, uid); err != nil {
		s.stale.Store(uid, struct{}{})
		s.log.Error("snapshot cache invalidate failed", "uid", uid, "error", err)
		return
	}
	s.stale.Delete(uid)
}

// clean reports whether uid's cache entry can be trusted, retrying a
// failed invalidation first.
func (s *Server) clean(ctx context.Context, uid string) bool {
	if _, ok := s.stale.Load(uid); !ok {
		return true
	}
	if err := s.opts.Cache.Invalidate(ctx, uid); err != nil {
		return false
	}
	s.stale.Delete(uid)
	return true
}

func (s *Server) events(c *gin.Context) {
	limit := defaultEventLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxEventLimit {
			respondError(c, newAPIError(http.StatusBadRequest, "invalid_limit",
				errors.New("limit must be between 1 and "+strconv.Itoa(maxEventLimit))))
			return
		}
		limit = n
	}

	uid := c.GetString(ctxUID)
	evs, err := s.opts.Events.Recent(c.Request.Context(), uid, store.QueryOpts{Limit: limit})
	if err != nil {
		respondError(c, err)
		return
	}
	out := remote.EventsResponse{UID: uid, Events: make([]remote.FlagEvent, 0, len(evs))}
	for _, ev := range evs {
		out.Events = append(out.Events, remote.FlagEvent{
			Sequence:  ev.Sequence,
			SlotKey:   ev.SlotKey,
			Timestamp: ev.Timestamp.UnixMilli(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func profileResponse(u *store.User) remote.ProfileResponse {
	return remote.ProfileResponse{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.UnixMilli(),
	}
}
