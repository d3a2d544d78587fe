package services

import (
	"rollcall/internal/models"
	"rollcall/internal/repositories"
)

type UserService interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateToken(userID int, token *string) error
	MarkVerified(userID int) error
	UpdatePassword(userID int, passwordHash string) error
}

type userService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(user *models.User) error {
	return s.repo.Create(user)
}

func (s *userService) GetByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

func (s *userService) UpdateToken(userID int, token *string) error {
	return s.repo.UpdateToken(userID, token)
}

func (s *userService) MarkVerified(userID int) error {
	return s.repo.MarkVerified(userID)
}

func (s *userService) UpdatePassword(userID int, passwordHash string) error {
	return s.repo.UpdatePassword(userID, passwordHash)
}
