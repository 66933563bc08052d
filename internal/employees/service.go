package employees

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/assetgrid/assetgrid/internal/shared"
)

// RegisterInput is the payload for registering an employee account.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FullName   string
	EmployeeID string
	Department string
}

// Service wraps employee registration business rules.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
	cost   int
}

// NewService constructs a new Service.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger, cost: bcrypt.DefaultCost}
}

// Register validates the input, hashes the password and creates the account.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Employee, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	if username == "" || email == "" || input.Password == "" || fullName == "" {
		return Employee{}, fmt.Errorf("%w: username, email, password, and full name are required", shared.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return Employee{}, err
	}

	emp, err := s.repo.CreateEmployee(ctx, Employee{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		EmployeeID: strings.TrimSpace(input.EmployeeID),
		Department: strings.TrimSpace(input.Department),
	}, string(hash))
	if err != nil {
		return Employee{}, err
	}

	if s.audit != nil {
		auditErr := s.audit.Record(ctx, shared.AuditLog{
			ActorType: "system",
			Action:    "employee.register",
			Entity:    "user",
			EntityID:  strconv.FormatInt(emp.ID, 10),
			Meta:      map[string]any{"username": emp.Username},
		})
		if auditErr != nil {
			s.logger.Warn("record audit log", slog.Any("error", auditErr))
		}
	}
	return emp, nil
}
