package service

import (
	"time"

	"chatspace/internal/apperr"
	"chatspace/internal/applog"
	"chatspace/internal/entity"
	"chatspace/internal/repository"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(username, password string) (*entity.User, error)
	Login(username, password string) (*entity.User, error)
	DeleteAccount(userID uint) error
}

type registerRequest struct {
	Username string `validate:"required,max=150"`
	Password string `validate:"required,min=8,max=72"`
}

var validate = validator.New()

type authService struct {
	userRepository   repository.UserRepository
	uploadRepository repository.UploadRepository
	files            *FileStore
	logger           applog.Logger
}

func NewAuthService(userRepo repository.UserRepository, uploadRepo repository.UploadRepository, files *FileStore, logger applog.Logger) AuthService {
	return &authService{
		userRepository:   userRepo,
		uploadRepository: uploadRepo,
		files:            files,
		logger:           logger,
	}
}

func (a *authService) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

func (a *authService) Register(username, password string) (*entity.User, error) {
	if err := validate.Struct(registerRequest{Username: username, Password: password}); err != nil {
		return nil, apperr.Validation("Please enter a username and a password of at least 8 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("hashing password", err)
	}

	u := &entity.User{
		Username:  username,
		CreatedAt: time.Now(),
		Credential: entity.UserCredential{
			Hash: string(hash),
		},
	}
	// The unique index is the real guard against a duplicate username; the
	// repository translates the violation into a validation error.
	if err := a.userRepository.Create(u); err != nil {
		a.Logf("registration of %q failed: %v", username, err)
		return nil, err
	}
	a.Logf("registered user %q (id %d)", u.Username, u.ID)
	return u, nil
}

func (a *authService) Login(username, password string) (*entity.User, error) {
	u, err := a.userRepository.GetForLogin(username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Validation("Invalid username or password.")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Credential.Hash), []byte(password)); err != nil {
		return nil, apperr.Validation("Invalid username or password.")
	}
	a.Logf("user %q logged in", u.Username)
	return u, nil
}

// DeleteAccount removes the user with everything it owns: credential and
// upload rows go in one transaction, then the avatar and upload files leave
// the disk. A file that fails to delete is only logged; the rows are gone
// and nothing can reach the file anymore.
func (a *authService) DeleteAccount(userID uint) error {
	user, err := a.userRepository.GetByID(userID)
	if err != nil {
		return err
	}
	uploads, err := a.uploadRepository.ListByOwner(userID)
	if err != nil {
		return err
	}

	if err := a.userRepository.Delete(userID); err != nil {
		return err
	}

	for _, up := range uploads {
		if err := a.files.Remove(up.StoredName); err != nil {
			a.Logf("could not remove %s of deleted account %d: %v", up.StoredName, userID, err)
		}
	}
	if user.AvatarFile != "" {
		if err := a.files.Remove(user.AvatarFile); err != nil {
			a.Logf("could not remove avatar %s of deleted account %d: %v", user.AvatarFile, userID, err)
		}
	}
	a.Logf("deleted account %d with %d uploads", userID, len(uploads))
	return nil
}
