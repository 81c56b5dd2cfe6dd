package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hostelhub/server/internal/apperr"
	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := models.Validate.Struct(user); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid signup data", err)
	}

	if !helpers.IsPasswordStrong(user.Password) {
		return nil, apperr.New(apperr.Validation, "password is not strong enough")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	now := time.Now()
	user.ID = uuid.NewString()
	user.PasswordHash = string(hash)
	user.Password = ""
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	return us.userRepo.CreateUser(ctx, user)
}

// AuthenticateUser checks credentials and issues an access token.
func (us *UserService) AuthenticateUser(ctx context.Context, email, password string) (string, *models.User, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return "", nil, apperr.New(apperr.Validation, "invalid email format")
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return "", nil, apperr.New(apperr.Validation, "invalid password format")
	}

	user, err := us.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// The absent-user and wrong-password paths must be
		// indistinguishable to the caller.
		if apperr.IsKind(err, apperr.NotFound) {
			return "", nil, apperr.New(apperr.Unauthorized, "invalid email or password")
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperr.New(apperr.Unauthorized, "invalid email or password")
	}

	token, err := helpers.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Internal, "failed to issue token", err)
	}

	return token, user, nil
}

func (us *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, id)
}
