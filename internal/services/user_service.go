package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/baharkarakas/task-manager/internal/auth"
	"github.com/baharkarakas/task-manager/internal/metrics"
	"github.com/baharkarakas/task-manager/internal/models"
	repo "github.com/baharkarakas/task-manager/internal/repository"
	"github.com/baharkarakas/task-manager/internal/validate"
	"github.com/google/uuid"
)

// AccountNotifier dispatches account e-mails without blocking the caller.
type AccountNotifier interface {
	Welcome(email, name string)
	Farewell(email, name string)
}

type UserService struct {
	users repo.Users
	tasks repo.Tasks
	tm    *auth.TokenManager
	mail  AccountNotifier
}

func NewUserService(users repo.Users, tasks repo.Tasks, tm *auth.TokenManager, mail AccountNotifier) *UserService {
	return &UserService{users: users, tasks: tasks, tm: tm, mail: mail}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age"`
}

// UserUpdate carries the fields a user may change on their own profile.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

var userUpdateFields = []string{"name", "email", "password", "age"}

// ParseUserUpdate decodes a profile PATCH body.
func ParseUserUpdate(body []byte) (UserUpdate, error) {
	var up UserUpdate
	err := decodeWhitelisted(body, &up, userUpdateFields...)
	return up, err
}

func checkUser(u *models.User, password *string) error {
	var errs validate.Errs
	if err := validate.Struct(u); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}
	if password != nil {
		var perrs validate.Errs
		if err := validate.Password(*password); err != nil {
			if !errors.As(err, &perrs) {
				return err
			}
			errs = append(errs, perrs...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

var emailTaken = validate.Field("email", "is already in use")

func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	in.Password = strings.TrimSpace(in.Password)
	u := models.User{Name: in.Name, Email: in.Email}
	if in.Age != nil {
		u.Age = *in.Age
	}
	u.Normalize()
	if err := checkUser(&u, &in.Password); err != nil {
		return models.User{}, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	u.ID = uuid.NewString()

	token, err := s.tm.Generate(u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	u.Sessions = []string{token}

	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return models.User{}, "", emailTaken
		}
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}
	metrics.UsersRegistered.Inc()
	s.mail.Welcome(u.Email, u.Name)
	return u, token, nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// compareDummy burns one bcrypt comparison so an unknown e-mail costs the
// same as a wrong password.
func compareDummy(password string) {
	dummyOnce.Do(func() { dummyHash, _ = auth.HashPassword("not-a-real-secret") })
	_ = auth.VerifyPassword(password, dummyHash)
}

// Login checks the trimmed password, matching how it was stored.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	password = strings.TrimSpace(password)
	u, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			compareDummy(password)
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tm.Generate(u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	if err := s.users.AddSession(ctx, u.ID, token); err != nil {
		return models.User{}, "", fmt.Errorf("add session: %w", err)
	}
	u.Sessions = append(u.Sessions, token)
	return u, token, nil
}

// Authenticate resolves a bearer token to the user holding it as an active session.
func (s *UserService) Authenticate(ctx context.Context, token string) (models.User, error) {
	claims, err := s.tm.Parse(token)
	if err != nil {
		return models.User{}, ErrUnauthorized
	}
	u, err := s.users.GetBySession(ctx, claims.UserID, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	return notFound(s.users.RemoveSession(ctx, userID, token))
}

func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return notFound(s.users.ClearSessions(ctx, userID))
}

// Update applies a profile change to u and persists it. The password is
// re-hashed only when the update carries one.
func (s *UserService) Update(ctx context.Context, u models.User, up UserUpdate) (models.User, error) {
	if up.Name != nil {
		u.Name = *up.Name
	}
	if up.Email != nil {
		u.Email = *up.Email
	}
	if up.Age != nil {
		u.Age = *up.Age
	}
	if up.Password != nil {
		pw := strings.TrimSpace(*up.Password)
		up.Password = &pw
	}
	u.Normalize()
	if err := checkUser(&u, up.Password); err != nil {
		return models.User{}, err
	}
	if up.Password != nil {
		hash, err := auth.HashPassword(*up.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, &u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return models.User{}, emailTaken
		}
		return models.User{}, notFound(err)
	}
	return u, nil
}

// Delete removes the user's tasks, then the user, then says goodbye.
func (s *UserService) Delete(ctx context.Context, u models.User) (models.User, error) {
	if _, err := s.tasks.DeleteByOwner(ctx, u.ID); err != nil {
		return models.User{}, fmt.Errorf("delete tasks: %w", err)
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return models.User{}, notFound(err)
	}
	s.mail.Farewell(u.Email, u.Name)
	return u, nil
}
