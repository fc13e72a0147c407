package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	repo "github.com/oksasatya/pulse-backoffice/internal/domain/repository"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

type UserService struct {
	Repo    repo.UserRepository
	JWT     *helpers.JWTManager
	Latency *Latency
	Clock   Clock
	log     *logrus.Entry
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, latency *Latency, logger *logrus.Logger) *UserService {
	return &UserService{
		Repo:    repo,
		JWT:     jwt,
		Latency: latency,
		log:     serviceLog(logger, "users"),
	}
}

type CreateUserInput struct {
	Email       string
	Name        string
	Role        entity.Role
	Status      entity.UserStatus
	InvestorID  string
	Permissions entity.Permissions
	Password    string
}

func (in CreateUserInput) validate() error {
	var errs []entity.FieldError
	if !strings.Contains(in.Email, "@") {
		errs = append(errs, entity.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, entity.FieldError{Field: "name", Message: "is required"})
	}
	if !in.Role.Valid() {
		errs = append(errs, entity.FieldError{Field: "role", Message: "must be one of admin, manager, analyst, viewer, investor"})
	}
	if in.Status != "" && !in.Status.Valid() {
		errs = append(errs, entity.FieldError{Field: "status", Message: "must be active or inactive"})
	}
	if len(errs) > 0 {
		return &entity.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
// InvestorID is deliberately absent: it cannot be changed once assigned.
type UpdateUserInput struct {
	Email       *string
	Name        *string
	Role        *entity.Role
	Status      *entity.UserStatus
	Permissions entity.Permissions
	Password    *string
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Create adds a user. Investors without an InvestorID get a generated one;
// every other role has InvestorID cleared.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, entity.NewValidationError("email", "is already registered")
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	now := s.Clock.now()
	u := &entity.User{
		ID:          newID(),
		Email:       in.Email,
		Name:        in.Name,
		Role:        in.Role,
		Status:      in.Status,
		Permissions: in.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if u.Status == "" {
		u.Status = entity.UserActive
	}
	if u.Permissions == nil {
		u.Permissions = entity.DefaultPermissions(u.Role)
	}
	if u.Role == entity.RoleInvestor {
		u.InvestorID = strings.TrimSpace(in.InvestorID)
		if u.InvestorID == "" {
			u.InvestorID = GenerateInvestorID(u.Name, now)
		}
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		s.log.WithError(err).WithField("email", u.Email).Error("create user failed")
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	return u, nil
}

// Update merges the non-nil fields of in into the stored user.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if !strings.Contains(email, "@") {
			return nil, entity.NewValidationError("email", "must be a valid email")
		}
		if email != u.Email {
			if other, err := s.Repo.GetByEmail(ctx, email); err == nil && other.ID != u.ID {
				return nil, entity.NewValidationError("email", "is already registered")
			}
		}
		u.Email = email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, entity.NewValidationError("name", "is required")
		}
		u.Name = name
	}
	if in.Role != nil && *in.Role != u.Role {
		role := *in.Role
		if !role.Valid() {
			return nil, entity.NewValidationError("role", "must be one of admin, manager, analyst, viewer, investor")
		}
		if u.Role == entity.RoleInvestor {
			return nil, entity.NewValidationError("role", "investor accounts cannot change role")
		}
		u.Role = role
		if role == entity.RoleInvestor && u.InvestorID == "" {
			u.InvestorID = GenerateInvestorID(u.Name, s.Clock.now())
		}
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, entity.NewValidationError("status", "must be active or inactive")
		}
		u.Status = *in.Status
	}
	if in.Permissions != nil {
		u.Permissions = in.Permissions
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, entity.NewValidationError("password", "is required")
		}
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.Clock.now()

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", u.ID).Info("user updated")
	return u, nil
}

// ToggleStatus activates or deactivates a user.
func (s *UserService) ToggleStatus(ctx context.Context, id string, status entity.UserStatus) (bool, error) {
	if !status.Valid() {
		return false, entity.NewValidationError("status", "must be active or inactive")
	}
	if _, err := s.Update(ctx, id, UpdateUserInput{Status: &status}); err != nil {
		return false, err
	}
	return true, nil
}

// Authenticate checks the credentials of an active user and stamps LastLogin.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	if err := s.Latency.Wait(ctx); err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil || u == nil {
		return nil, entity.ErrInvalidCredentials
	}
	if u.Status != entity.UserActive || u.PasswordHash == "" || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, entity.ErrInvalidCredentials
	}
	now := s.Clock.now()
	u.LastLogin = &now
	if err := s.Repo.Update(ctx, u); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("record last login failed")
		return nil, err
	}
	return u, nil
}

func (s *UserService) IssueTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, string(u.Role))
	if err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.log.WithField("user_id", u.ID).Info("user logged in")
	return u, pair, nil
}

// Refresh rotates both tokens for a still-active user.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, entity.ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u.Status != entity.UserActive {
		return TokenPair{}, entity.ErrInvalidCredentials
	}
	return s.IssueTokens(u)
}

// GenerateInvestorID builds an id of the form INV-YY-XXX-NNNN: two-digit year,
// the first three letters of the name (padded with X) and four random digits.
func GenerateInvestorID(name string, now time.Time) string {
	letters := make([]rune, 0, 3)
	for _, r := range strings.ToUpper(name) {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	return fmt.Sprintf("INV-%02d-%s-%04d", now.Year()%100, string(letters), rand.IntN(10000))
}
