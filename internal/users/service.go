package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/edkeeper/classvault/internal/auth"
	"github.com/edkeeper/classvault/internal/docstore"
	"github.com/edkeeper/classvault/internal/logging"
	"github.com/edkeeper/classvault/internal/shared"
)

// Service owns the user list. Every mutation is a whole-record
// read-modify-write on the users slot, serialized by a single mutex; account
// contention is rare and out of the hot path, so one lock is enough.
type Service struct {
	mu            sync.Mutex
	docs          docstore.Store
	log           logging.Logger
	secretKey     []byte
	tokenValidity time.Duration
}

func NewService(docs docstore.Store, log logging.Logger, secretKey []byte, tokenValidity time.Duration) *Service {
	return &Service{
		docs:          docs,
		log:           log,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
	}
}

// load reads the user list, applying the one-time legacy record migration
// when old fields are encountered. The migrated list is saved back
// immediately so the legacy fields disappear from disk.
func (s *Service) load(ctx context.Context) ([]User, error) {
	raw, err := s.docs.Load(ctx, docstore.SlotUsers)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []User{}, nil
	}

	var stored []storedUser
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode user records: %w", err)
	}

	users := make([]User, 0, len(stored))
	needsSave := false
	for _, su := range stored {
		u := su.User
		if len(su.EnrolledCourses) > 0 && u.Enrollments == nil {
			for _, courseID := range su.EnrolledCourses {
				u.Enrollments = append(u.Enrollments, Enrollment{CourseID: courseID, Status: EnrollmentEnrolled})
			}
			needsSave = true
		}
		if u.Enrollments == nil {
			u.Enrollments = []Enrollment{}
			needsSave = true
		}
		if su.Password != "" && u.PasswordHash == "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash legacy password: %w", err)
			}
			u.PasswordHash = string(hash)
			needsSave = true
		}
		users = append(users, u)
	}

	if needsSave {
		s.log.Info(ctx, "migrated legacy user records", "count", len(users))
		if err := s.save(ctx, users); err != nil {
			return nil, err
		}
	}

	return users, nil
}

func (s *Service) save(ctx context.Context, users []User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode user records: %w", err)
	}
	return s.docs.Save(ctx, docstore.SlotUsers, raw)
}

// All returns every account record.
func (s *Service) All(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func findByEmail(users []User, email string) int {
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return i
		}
	}
	return -1
}

// FindByEmail returns the account matching email case-insensitively, or
// shared.ErrNotFound.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := findByEmail(users, email)
	if i < 0 {
		return nil, shared.ErrNotFound
	}
	u := users[i]
	return &u, nil
}

// Upsert inserts or replaces the record matching user.Email.
func (s *Service) Upsert(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	if user.Enrollments == nil {
		user.Enrollments = []Enrollment{}
	}
	if i := findByEmail(users, user.Email); i >= 0 {
		users[i] = user
	} else {
		users = append(users, user)
	}
	return s.save(ctx, users)
}

// Register creates a new account. Emails are stored lowercase and must be
// unique case-insensitively.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", shared.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if findByEmail(users, email) >= 0 {
		return nil, shared.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Enrollments:  []Enrollment{},
	}
	users = append(users, user)
	if err := s.save(ctx, users); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies the password and returns a session token plus the account.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil, shared.ErrUnauthorized
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, shared.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.Email, s.secretKey, s.tokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, user, nil
}

// AddPendingEnrollment records that email has requested access to courseID.
// Duplicate pending requests for the same pair collapse into one.
func (s *Service) AddPendingEnrollment(ctx context.Context, email string, courseID int64) error {
	return s.updateEnrollments(ctx, email, func(enrollments []Enrollment) []Enrollment {
		for _, e := range enrollments {
			if e.CourseID == courseID && e.Status == EnrollmentPending {
				return enrollments
			}
		}
		return append(enrollments, Enrollment{CourseID: courseID, Status: EnrollmentPending})
	})
}

// PromoteToEnrolled flips the pending enrollment for (email, courseID) to
// enrolled. Missing enrollments are a no-op: promotion may be retried during
// cross-store reconciliation.
func (s *Service) PromoteToEnrolled(ctx context.Context, email string, courseID int64) error {
	return s.updateEnrollments(ctx, email, func(enrollments []Enrollment) []Enrollment {
		for i := range enrollments {
			if enrollments[i].CourseID == courseID && enrollments[i].Status == EnrollmentPending {
				enrollments[i].Status = EnrollmentEnrolled
				break
			}
		}
		return enrollments
	})
}

// RemovePendingEnrollment drops the pending enrollment for (email, courseID).
func (s *Service) RemovePendingEnrollment(ctx context.Context, email string, courseID int64) error {
	return s.updateEnrollments(ctx, email, func(enrollments []Enrollment) []Enrollment {
		kept := enrollments[:0]
		for _, e := range enrollments {
			if e.CourseID == courseID && e.Status == EnrollmentPending {
				continue
			}
			kept = append(kept, e)
		}
		return kept
	})
}

func (s *Service) updateEnrollments(ctx context.Context, email string, apply func([]Enrollment) []Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := findByEmail(users, email)
	if i < 0 {
		return shared.ErrNotFound
	}
	users[i].Enrollments = apply(users[i].Enrollments)
	return s.save(ctx, users)
}
