package account

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=32"`
	Age      int    `json:"age" validate:"min=5,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	Confirm  string `json:"confirm" validate:"eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SettingsRequest changes profile fields. An empty Password keeps the
// current one.
type SettingsRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Age      int    `json:"age" validate:"min=5,max=100"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

type ProjectInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

// ProjectUpdate edits a project. Nil fields are left as they are.
type ProjectUpdate struct {
	Name        *string        `json:"name" validate:"omitempty,max=100"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Status      *Status        `json:"status"`
	GameData    map[string]any `json:"game_data"`
}

type Service struct {
	store    *FileStore
	validate *validator.Validate
	now      func() time.Time
	cost     int
	log      *slog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBcryptCost lowers the hashing cost, e.g. in tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(store *FileStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, strings.ToLower(e.Field())+" "+e.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(req SignupRequest) (User, error) {
	req.Email = normaliseEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := s.check(req); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	var out User
	err = s.store.Update(func(users map[string]*User) error {
		if _, ok := users[req.Email]; ok {
			return ErrEmailTaken
		}
		u := &User{
			Username:     req.Username,
			Age:          req.Age,
			PasswordHash: string(hash),
			Created:      s.now().Format(DateLayout),
			Projects:     []Project{},
		}
		users[req.Email] = u
		out = withEmail(*u, req.Email)
		return nil
	})
	if err != nil {
		return User{}, err
	}
	s.log.Info("account created", "email", req.Email)
	return out, nil
}

// Login checks credentials and records the login against the streak.
// Passwords stored as unsalted SHA-256 by older versions of the file are
// accepted once and rehashed with bcrypt.
func (s *Service) Login(req LoginRequest) (User, error) {
	email := normaliseEmail(req.Email)
	if err := s.check(req); err != nil {
		return User{}, ErrInvalidCredentials
	}
	var out User
	err := s.store.Update(func(users map[string]*User) error {
		u, ok := users[email]
		if !ok {
			return ErrInvalidCredentials
		}
		upgraded, ok := s.verify(u.PasswordHash, req.Password)
		if !ok {
			return ErrInvalidCredentials
		}
		if upgraded != "" {
			u.PasswordHash = upgraded
		}
		UpdateStreak(u, s.now())
		out = withEmail(*u, email)
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return out, nil
}

func (s *Service) verify(stored, password string) (string, bool) {
	if strings.HasPrefix(stored, "$2") {
		return "", bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	sum := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(strings.ToLower(stored))) != 1 {
		return "", false
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		s.log.Warn("rehash legacy password failed", "error", err)
		return "", true
	}
	return string(hash), true
}

func (s *Service) Profile(email string) (User, error) {
	email = normaliseEmail(email)
	var out User
	err := s.store.View(func(users map[string]*User) error {
		u, ok := users[email]
		if !ok {
			return ErrNotFound
		}
		out = withEmail(*u, email)
		return nil
	})
	return out, err
}

func (s *Service) UpdateSettings(email string, req SettingsRequest) (User, error) {
	email = normaliseEmail(email)
	req.Username = strings.TrimSpace(req.Username)
	if err := s.check(req); err != nil {
		return User{}, err
	}
	var hash []byte
	if req.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(req.Password), s.cost); err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
	}
	var out User
	err := s.store.Update(func(users map[string]*User) error {
		u, ok := users[email]
		if !ok {
			return ErrNotFound
		}
		u.Username = req.Username
		u.Age = req.Age
		if hash != nil {
			u.PasswordHash = string(hash)
		}
		out = withEmail(*u, email)
		return nil
	})
	return out, err
}

func (s *Service) Projects(email string) ([]Project, error) {
	u, err := s.Profile(email)
	if err != nil {
		return nil, err
	}
	return u.Projects, nil
}

func (s *Service) CreateProject(email string, in ProjectInput) (Project, error) {
	email = normaliseEmail(email)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.check(in); err != nil {
		return Project{}, err
	}
	today := s.now().Format(DateLayout)
	p := Project{
		Name:         in.Name,
		Description:  in.Description,
		Date:         today,
		Status:       StatusNotStarted,
		LastModified: today,
		GameData:     map[string]any{},
	}
	err := s.store.Update(func(users map[string]*User) error {
		u, ok := users[email]
		if !ok {
			return ErrNotFound
		}
		u.Projects = append(u.Projects, p)
		return nil
	})
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

func (s *Service) UpdateProject(email string, index int, up ProjectUpdate) (Project, error) {
	email = normaliseEmail(email)
	if up.Name != nil {
		name := strings.TrimSpace(*up.Name)
		if name == "" {
			return Project{}, fmt.Errorf("%w: name required", ErrInvalid)
		}
		up.Name = &name
	}
	if err := s.check(up); err != nil {
		return Project{}, err
	}
	if up.Status != nil && !up.Status.Valid() {
		return Project{}, fmt.Errorf("%w: status %q", ErrInvalid, *up.Status)
	}
	var out Project
	err := s.store.Update(func(users map[string]*User) error {
		u, ok := users[email]
		if !ok || index < 0 || index >= len(u.Projects) {
			return ErrNotFound
		}
		p := &u.Projects[index]
		if up.Name != nil {
			p.Name = *up.Name
		}
		if up.Description != nil {
			p.Description = strings.TrimSpace(*up.Description)
		}
		if up.Status != nil {
			p.Status = *up.Status
		}
		if up.GameData != nil {
			p.GameData = up.GameData
		}
		p.LastModified = s.now().Format(DateLayout)
		out = *p
		return nil
	})
	return out, err
}

func (s *Service) DeleteProject(email string, index int) error {
	email = normaliseEmail(email)
	return s.store.Update(func(users map[string]*User) error {
		u, ok := users[email]
		if !ok || index < 0 || index >= len(u.Projects) {
			return ErrNotFound
		}
		u.Projects = append(u.Projects[:index], u.Projects[index+1:]...)
		return nil
	})
}

func withEmail(u User, email string) User {
	u.Email = email
	u.Projects = append([]Project(nil), u.Projects...)
	if u.Projects == nil {
		u.Projects = []Project{}
	}
	return u
}
