package assets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/assetgrid/assetgrid/internal/shared"
)

// CreateAssetInput is the payload for registering an asset.
type CreateAssetInput struct {
	Name         string
	Type         string
	SerialNumber string
	Manufacturer string
	Model        string
	Status       string
	Location     string
	Description  string
}

// AssignInput identifies the target of an asset assignment.
type AssignInput struct {
	AssetID int64
	UserID  int64
	Notes   string
}

// Service wraps asset management business rules.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// ListAssets returns all active assets.
func (s *Service) ListAssets(ctx context.Context) ([]Asset, error) {
	return s.repo.ListAssets(ctx)
}

// CreateAsset validates and persists a new asset. Each asset receives a
// generated tag so physical labels stay stable across renames.
func (s *Service) CreateAsset(ctx context.Context, actor *shared.Identity, input CreateAssetInput) (Asset, error) {
	name := strings.TrimSpace(input.Name)
	assetType := strings.TrimSpace(input.Type)
	if name == "" || assetType == "" {
		return Asset{}, fmt.Errorf("%w: asset name and type are required", shared.ErrValidation)
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = StatusAvailable
	}

	asset, err := s.repo.CreateAsset(ctx, Asset{
		Tag:          uuid.NewString(),
		Name:         name,
		Type:         assetType,
		SerialNumber: strings.TrimSpace(input.SerialNumber),
		Manufacturer: strings.TrimSpace(input.Manufacturer),
		Model:        strings.TrimSpace(input.Model),
		Status:       status,
		Location:     strings.TrimSpace(input.Location),
		Description:  strings.TrimSpace(input.Description),
	})
	if err != nil {
		return Asset{}, err
	}

	s.recordAudit(ctx, actor, "asset.create", asset.ID, map[string]any{"name": asset.Name, "tag": asset.Tag})
	return asset, nil
}

// AssignAsset hands an asset to an employee and marks it assigned.
func (s *Service) AssignAsset(ctx context.Context, actor *shared.Identity, input AssignInput) (int64, error) {
	if input.AssetID <= 0 || input.UserID <= 0 {
		return 0, fmt.Errorf("%w: asset ID and user ID are required", shared.ErrValidation)
	}

	assignedBy := actor.AdminID
	if assignedBy == 0 {
		assignedBy = actor.UserID
	}

	assignmentID, err := s.repo.AssignAsset(ctx, input.AssetID, input.UserID, assignedBy, strings.TrimSpace(input.Notes))
	if err != nil {
		return 0, err
	}

	s.recordAudit(ctx, actor, "asset.assign", input.AssetID, map[string]any{
		"userId":       input.UserID,
		"assignmentId": assignmentID,
	})
	return assignmentID, nil
}

// UserAssets returns the active assets assigned to a user.
func (s *Service) UserAssets(ctx context.Context, userID int64) ([]AssignedAsset, error) {
	return s.repo.ListUserAssets(ctx, userID)
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, assetID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actorType, actorID := shared.AuditActor(actor)
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorType: actorType,
		ActorID:   actorID,
		Action:    action,
		Entity:    "asset",
		EntityID:  strconv.FormatInt(assetID, 10),
		Meta:      meta,
	})
	if err != nil {
		s.logger.Warn("record audit log", slog.String("action", action), slog.Any("error", err))
	}
}
