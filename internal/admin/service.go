// Package admin implements the back-office: software catalogue maintenance,
// the admin profile and the audit trail.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/shared"
)

// Source is the subset of the backend client the back-office writes through.
type Source interface {
	AdminSoftwareList(ctx context.Context, search string, page int) (backend.Page[backend.Software], error)
	AdminSoftwareGet(ctx context.Context, id string) (backend.Software, error)
	AdminSoftwareCreate(ctx context.Context, in backend.SoftwareInput) (backend.Software, error)
	AdminSoftwareUpdate(ctx context.Context, id string, in backend.SoftwareInput) (backend.Software, error)
	AdminSoftwareDelete(ctx context.Context, id string) error
	AdminProfile(ctx context.Context) (backend.AdminProfile, error)
	UpdateAdminProfile(ctx context.Context, in backend.AdminProfileInput) (backend.AdminProfile, error)
}

// Auditor stores and lists back-office actions. shared.AuditLogger satisfies it.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
	Recent(ctx context.Context, limit int) ([]shared.AuditLog, error)
}

// Invalidator drops cached public pages after a write. backend.Cache satisfies it.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// ErrAuditUnavailable is returned by RecentAudit when no auditor is wired.
var ErrAuditUnavailable = errors.New("admin: audit log unavailable")

// SoftwareListing is one page of the admin software table.
type SoftwareListing struct {
	Search     string
	Items      []backend.Software
	Pagination shared.Pagination
}

// Service coordinates back-office writes with auditing and cache invalidation.
type Service struct {
	source Source
	audit  Auditor
	cache  Invalidator
	logger *slog.Logger
}

// NewService builds a Service. audit and cache may be nil.
func NewService(source Source, audit Auditor, cache Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, audit: audit, cache: cache, logger: logger}
}

// ListSoftware returns one page of the catalogue, including unpublished entries.
func (s *Service) ListSoftware(ctx context.Context, search string, page int) (SoftwareListing, error) {
	search = strings.TrimSpace(search)
	if page < 1 {
		page = 1
	}
	res, err := s.source.AdminSoftwareList(ctx, search, page)
	if err != nil {
		return SoftwareListing{Search: search}, fmt.Errorf("admin: list software: %w", err)
	}
	return SoftwareListing{
		Search:     search,
		Items:      res.Items,
		Pagination: shared.NewPagination(page, res.PerPage, res.Total),
	}, nil
}

// Software loads one entry for editing.
func (s *Service) Software(ctx context.Context, id string) (backend.Software, error) {
	item, err := s.source.AdminSoftwareGet(ctx, id)
	if err != nil {
		return backend.Software{}, fmt.Errorf("admin: get software %s: %w", id, err)
	}
	return item, nil
}

// CreateSoftware adds a catalogue entry on behalf of actor.
func (s *Service) CreateSoftware(ctx context.Context, actor int64, in backend.SoftwareInput) (backend.Software, error) {
	item, err := s.source.AdminSoftwareCreate(ctx, in)
	if err != nil {
		return backend.Software{}, fmt.Errorf("admin: create software: %w", err)
	}
	s.afterWrite(ctx, shared.AuditLog{
		ActorID: actor, Action: "software.create", Entity: "software", EntityID: item.ID,
		Meta: map[string]any{"slug": in.Slug, "name": in.Name},
	})
	return item, nil
}

// UpdateSoftware replaces a catalogue entry on behalf of actor.
func (s *Service) UpdateSoftware(ctx context.Context, actor int64, id string, in backend.SoftwareInput) (backend.Software, error) {
	item, err := s.source.AdminSoftwareUpdate(ctx, id, in)
	if err != nil {
		return backend.Software{}, fmt.Errorf("admin: update software %s: %w", id, err)
	}
	s.afterWrite(ctx, shared.AuditLog{
		ActorID: actor, Action: "software.update", Entity: "software", EntityID: id,
		Meta: map[string]any{"slug": in.Slug, "name": in.Name},
	})
	return item, nil
}

// DeleteSoftware removes a catalogue entry on behalf of actor.
func (s *Service) DeleteSoftware(ctx context.Context, actor int64, id string) error {
	if err := s.source.AdminSoftwareDelete(ctx, id); err != nil {
		return fmt.Errorf("admin: delete software %s: %w", id, err)
	}
	s.afterWrite(ctx, shared.AuditLog{ActorID: actor, Action: "software.delete", Entity: "software", EntityID: id})
	return nil
}

// Profile returns the admin profile kept by the backend.
func (s *Service) Profile(ctx context.Context) (backend.AdminProfile, error) {
	p, err := s.source.AdminProfile(ctx)
	if err != nil {
		return backend.AdminProfile{}, fmt.Errorf("admin: profile: %w", err)
	}
	return p, nil
}

// UpdateProfile saves the admin profile on behalf of actor.
func (s *Service) UpdateProfile(ctx context.Context, actor int64, in backend.AdminProfileInput) (backend.AdminProfile, error) {
	p, err := s.source.UpdateAdminProfile(ctx, in)
	if err != nil {
		return backend.AdminProfile{}, fmt.Errorf("admin: update profile: %w", err)
	}
	s.record(ctx, shared.AuditLog{ActorID: actor, Action: "profile.update", Entity: "admin_profile", EntityID: p.ID})
	return p, nil
}

// FlushCache invalidates every cached backend response.
func (s *Service) FlushCache(ctx context.Context, actor int64) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Bump(ctx); err != nil {
		return fmt.Errorf("admin: flush cache: %w", err)
	}
	s.record(ctx, shared.AuditLog{ActorID: actor, Action: "cache.flush", Entity: "cache"})
	return nil
}

// RecentAudit lists the latest back-office actions.
func (s *Service) RecentAudit(ctx context.Context, limit int) ([]shared.AuditLog, error) {
	if s.audit == nil {
		return nil, ErrAuditUnavailable
	}
	entries, err := s.audit.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("admin: audit: %w", err)
	}
	return entries, nil
}

// afterWrite records the action and invalidates the public cache. Neither
// failure undoes the write, so both are only logged.
func (s *Service) afterWrite(ctx context.Context, entry shared.AuditLog) {
	s.record(ctx, entry)
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("cache bump after write", slog.String("action", entry.Action), slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, entry shared.AuditLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record", slog.String("action", entry.Action), slog.String("entity_id", entry.EntityID), slog.Any("error", err))
	}
}
