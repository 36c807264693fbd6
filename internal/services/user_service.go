package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
	"github.com/drivelog/drivelog-be/internal/phone"
)

// UserUpdate carries the optional profile fields; nil means leave unchanged.
type UserUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, email, phoneNumber, password string) (models.User, error)
	AuthenticateUser(phoneNumber, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	UpdateUser(id string, upd UserUpdate) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user account. The phone number must be valid before
// its uniqueness is ever considered, so an invalid number surfaces as
// InvalidInput and never as AlreadyTaken.
func (s *UserService) Register(username, email, phoneNumber, password string) (models.User, error) {
	if err := phone.Validate(phoneNumber); err != nil {
		return models.User{}, err
	}

	if taken, err := s.isFieldTaken("phone", phoneNumber); err != nil {
		return models.User{}, err
	} else if taken {
		return models.User{}, apperr.Taken("phone")
	}
	if taken, err := s.isFieldTaken("username", username); err != nil {
		return models.User{}, err
	} else if taken {
		return models.User{}, apperr.Taken("username")
	}
	if taken, err := s.isFieldTaken("email", email); err != nil {
		return models.User{}, err
	} else if taken {
		return models.User{}, apperr.Taken("email")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		Phone:        phoneNumber,
		PasswordHash: string(hashedPassword),
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, username, email, phone, password_hash) VALUES(?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.Phone, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("user: %w", apperr.ErrCreateConflict)
		}
		return models.User{}, err
	}

	return s.GetUserByID(user.ID)
}

// AuthenticateUser verifies a user's credentials. Login is by phone number.
func (s *UserService) AuthenticateUser(phoneNumber, password string) (models.User, error) {
	if err := phone.Validate(phoneNumber); err != nil {
		return models.User{}, err
	}

	var user models.User
	row := s.db.QueryRow(
		"SELECT id, username, email, phone, password_hash, is_admin, is_blocked, created_at, updated_at FROM users WHERE phone = ?",
		phoneNumber,
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone, &user.PasswordHash,
		&user.IsAdmin, &user.IsBlocked, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.Invalid("credentials", "incorrect phone or password")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperr.Invalid("credentials", "incorrect phone or password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		"SELECT id, username, email, phone, is_admin, is_blocked, created_at, updated_at FROM users WHERE id = ?",
		id,
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone,
		&user.IsAdmin, &user.IsBlocked, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.NotFound("user", id)
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateUser updates a user's profile. Changed phone numbers are validated and
// checked for uniqueness; changed usernames and emails are checked for
// uniqueness. Supplying the current value is a no-op, not a conflict.
func (s *UserService) UpdateUser(id string, upd UserUpdate) (models.User, error) {
	current, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if upd.Phone != nil && *upd.Phone != current.Phone {
		if err := phone.Validate(*upd.Phone); err != nil {
			return models.User{}, err
		}
		if taken, err := s.isFieldTaken("phone", *upd.Phone); err != nil {
			return models.User{}, err
		} else if taken {
			return models.User{}, apperr.Taken("phone")
		}
	}
	if upd.Username != nil && *upd.Username != current.Username {
		if taken, err := s.isFieldTaken("username", *upd.Username); err != nil {
			return models.User{}, err
		} else if taken {
			return models.User{}, apperr.Taken("username")
		}
	}
	if upd.Email != nil && *upd.Email != current.Email {
		if taken, err := s.isFieldTaken("email", *upd.Email); err != nil {
			return models.User{}, err
		} else if taken {
			return models.User{}, apperr.Taken("email")
		}
	}

	var passwordHash *string
	if upd.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hashed)
		passwordHash = &h
	}

	_, err = s.db.Exec(
		`UPDATE users SET
			username = COALESCE(?, username),
			email = COALESCE(?, email),
			phone = COALESCE(?, phone),
			password_hash = COALESCE(?, password_hash),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		upd.Username, upd.Email, upd.Phone, passwordHash, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("user: %w", apperr.ErrUpdateConflict)
		}
		return models.User{}, err
	}

	return s.GetUserByID(id)
}

// isFieldTaken performs the uniqueness point lookup for one of the user's
// unique fields. "No row" is the expected negative answer, not an error.
func (s *UserService) isFieldTaken(field, value string) (bool, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM users WHERE "+field+" = ?", value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
