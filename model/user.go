package model

import "github.com/google/uuid"

type User struct {
	DTO
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null" json:"role"`

	ProfilePictureUrl *string `json:"profilePictureUrl"`
	AddressCity       *string `json:"addressCity"`
	AddressStreet     *string `json:"addressStreet"`
	AddressNumber     *string `json:"addressNumber"`
	AddressDetails    *string `json:"addressDetails"`
}

type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,password"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT WORKER MANAGER"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=100"`
	ProfilePictureUrl *string `json:"profilePictureUrl" validate:"omitempty,url"`
	AddressCity       *string `json:"addressCity" validate:"omitempty,max=100"`
	AddressStreet     *string `json:"addressStreet" validate:"omitempty,max=200"`
	AddressNumber     *string `json:"addressNumber" validate:"omitempty,max=20"`
	AddressDetails    *string `json:"addressDetails" validate:"omitempty,max=500"`
}

type UserDto struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	ProfilePictureUrl *string   `json:"profilePictureUrl"`
	AddressCity       *string   `json:"addressCity"`
	AddressStreet     *string   `json:"addressStreet"`
	AddressNumber     *string   `json:"addressNumber"`
	AddressDetails    *string   `json:"addressDetails"`
}
