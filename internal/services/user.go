package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"

	"github.com/datapar/analysis-backend/internal/data/models"
)

const bcryptCost = 10

type UserService interface {
	CreateUser(ctx context.Context, name, email, password string) (docstore.Document, error)
	GetUserByEmail(ctx context.Context, email string) (docstore.Document, error)
	GetUserByID(ctx context.Context, id string) (docstore.Document, error)
}

type userService struct {
	log   *logger.Logger
	users *models.UserModel
}

func NewUserService(baseLog *logger.Logger, users *models.UserModel) UserService {
	return &userService{
		log:   baseLog.With("service", "UserService"),
		users: users,
	}
}

// CreateUser enforces email uniqueness with a pre-check; the store itself
// only knows about document ids.
func (us *userService) CreateUser(ctx context.Context, name, email, password string) (docstore.Document, error) {
	existing, err := us.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("Email already in use")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := us.users.Create(ctx, docstore.Document{
		"name":         name,
		"email":        email,
		"passwordHash": string(hash),
	})
	if err != nil {
		return nil, err
	}
	us.log.Info("User created", "user_id", user[docstore.IDField])
	return PublicUser(user), nil
}

func (us *userService) GetUserByEmail(ctx context.Context, email string) (docstore.Document, error) {
	return us.users.FindByEmail(ctx, email)
}

func (us *userService) GetUserByID(ctx context.Context, id string) (docstore.Document, error) {
	return us.users.FindByID(ctx, id)
}
