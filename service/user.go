package service

import (
	"campus_eats/constants"
	"campus_eats/model"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RegisterUser creates an account. Only a manager may hand out the WORKER or
// MANAGER role; everyone else becomes a STUDENT. actor is nil for anonymous
// sign-ups.
func RegisterUser(ctx context.Context, db *gorm.DB, actor *model.ActingUser, input model.RegisterUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := constants.ROLE_STUDENT
	if actor != nil && actor.Is(constants.ROLE_MANAGER) && input.Role != "" {
		role = input.Role
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func GetUser(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func UpdateProfile(ctx context.Context, db *gorm.DB, id uuid.UUID, input model.UpdateProfileInput) (*model.User, error) {
	user, err := GetUser(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(user, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func ToUserDto(u model.User) model.UserDto {
	return model.UserDto{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		ProfilePictureUrl: u.ProfilePictureUrl,
		AddressCity:       u.AddressCity,
		AddressStreet:     u.AddressStreet,
		AddressNumber:     u.AddressNumber,
		AddressDetails:    u.AddressDetails,
	}
}
