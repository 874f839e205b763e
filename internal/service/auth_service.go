package service

import (
	"studyplan_backend/internal/config"
	"studyplan_backend/internal/model"
	"studyplan_backend/internal/repository"
	"studyplan_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo    *repository.UserRepository
	PersonaRepo *repository.PersonaRepository
	Config      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, personaRepo *repository.PersonaRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		PersonaRepo: personaRepo,
		Config:      cfg,
	}
}

// Register creates the user plus a default persona so plan generation works
// immediately after signup.
func (s *AuthService) Register(user *model.User) error {
	existing, err := s.UserRepo.ByEmail(user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return util.ErrEmailRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	return s.PersonaRepo.Create(&model.Persona{
		UserID:           user.ID,
		WPM:              s.Config.Plan.DefaultWPM,
		DailyReadingTime: s.Config.Plan.DefaultDailyReadingTime,
	})
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.ByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || user.Disabled {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Profile(userID uint) (*model.User, error) {
	return s.UserRepo.ByID(userID)
}
