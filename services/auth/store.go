package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"learnhub/apperror"
	"learnhub/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 6

const invalidCredentials = "Invalid email or password"

// CredentialStore verifies credentials and issues tokens for both principal kinds.
type CredentialStore struct {
	db     *gorm.DB
	admin  *AdminAccount
	tokens *TokenManager
	cost   int

	// compared against when the email is unknown so both failure paths do the same work
	dummyHash []byte
}

func NewCredentialStore(db *gorm.DB, admin *AdminAccount, tokens *TokenManager, cost int) *CredentialStore {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &CredentialStore{db: db, admin: admin, tokens: tokens, cost: cost, dummyHash: dummy}
}

func (s *CredentialStore) Tokens() *TokenManager { return s.tokens }

// UserSummary is returned alongside a fresh token
type UserSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// Authenticate checks the admin account first, then the users table.
// Unknown email and wrong password produce the same error.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.admin.Matches(email) {
		if !s.admin.VerifyPassword(password) {
			return nil, apperror.Auth(invalidCredentials)
		}
		token, err := s.tokens.Issue(Admin{Email: s.admin.Email})
		if err != nil {
			return nil, apperror.Storage("Failed to generate token", err)
		}
		return &LoginResult{
			Token: token,
			User: UserSummary{
				ID:       AdminID,
				FullName: s.admin.FullName,
				Email:    s.admin.Email,
				Role:     models.RoleAdmin,
				IsAdmin:  true,
			},
		}, nil
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, apperror.Auth(invalidCredentials)
	}
	if err != nil {
		return nil, apperror.Storage("Failed to login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.Auth(invalidCredentials)
	}
	if user.IsDisabled {
		return nil, apperror.Forbidden("Your account has been disabled")
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return nil, apperror.Storage("Failed to login", err)
	}

	token, err := s.tokens.Issue(Learner{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, apperror.Storage("Failed to generate token", err)
	}

	return &LoginResult{
		Token: token,
		User: UserSummary{
			ID:       user.ID,
			FullName: user.FullName,
			Email:    user.Email,
			Role:     user.Role,
		},
	}, nil
}

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string
	Phone    string
}

// Register creates a learner account and returns its id.
func (s *CredentialStore) Register(ctx context.Context, in RegisterInput) (uint, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if strings.TrimSpace(in.FullName) == "" || in.Email == "" || in.Username == "" || in.Password == "" {
		return 0, apperror.Validation("Please fill in all required fields")
	}
	if s.admin.Matches(in.Email) {
		return 0, apperror.Validation("This email cannot be used for registration")
	}
	if len(in.Password) < MinPasswordLength {
		return 0, apperror.Validation("Password must be at least 6 characters long")
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return 0, apperror.Storage("Failed to register", err)
	}
	if count > 0 {
		return 0, apperror.Validation("Email is already registered")
	}
	if err := db.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return 0, apperror.Storage("Failed to register", err)
	}
	if count > 0 {
		return 0, apperror.Validation("Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return 0, apperror.Storage("Failed to register", err)
	}

	user := models.User{
		FullName: strings.TrimSpace(in.FullName),
		Email:    in.Email,
		Username: in.Username,
		Password: string(hash),
		Phone:    in.Phone,
		Role:     models.RoleLearner,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperror.Validation("Email or username is already registered")
		}
		return 0, apperror.Storage("Failed to register", err)
	}
	return user.ID, nil
}

// Profile is the public view of a principal
type Profile struct {
	ID        uint   `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
	IsAdmin   bool   `json:"is_admin"`
}

func (s *CredentialStore) Profile(ctx context.Context, p Principal) (*Profile, error) {
	switch v := p.(type) {
	case Admin:
		return &Profile{
			ID:       AdminID,
			FullName: s.admin.FullName,
			Email:    s.admin.Email,
			Username: s.admin.Username,
			Role:     models.RoleAdmin,
			IsAdmin:  true,
		}, nil
	case Learner:
		var user models.User
		err := s.db.WithContext(ctx).First(&user, v.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		if err != nil {
			return nil, apperror.Storage("Failed to load profile", err)
		}
		return &Profile{
			ID:        user.ID,
			FullName:  user.FullName,
			Email:     user.Email,
			Username:  user.Username,
			Phone:     user.Phone,
			AvatarURL: user.AvatarURL,
			Role:      user.Role,
		}, nil
	default:
		return nil, apperror.Auth("Please login")
	}
}

// ChangePassword replaces a learner's password. The admin password can only
// be changed through configuration.
func (s *CredentialStore) ChangePassword(ctx context.Context, p Principal, oldPassword, newPassword string) error {
	learner, ok := p.(Learner)
	if !ok {
		return apperror.Forbidden("The admin password cannot be changed through the API")
	}
	if oldPassword == "" || newPassword == "" {
		return apperror.Validation("Please provide the old and new password")
	}
	if len(newPassword) < MinPasswordLength {
		return apperror.Validation("New password must be at least 6 characters long")
	}

	db := s.db.WithContext(ctx)

	var user models.User
	err := db.First(&user, learner.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("User not found")
	}
	if err != nil {
		return apperror.Storage("Failed to change password", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperror.Auth("Old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return apperror.Storage("Failed to change password", err)
	}
	if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
		return apperror.Storage("Failed to change password", err)
	}
	return nil
}
