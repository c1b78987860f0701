package users

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roperoapp/ropero-backend/pkg/db/models"
)

// CreateUserDTO captures the fields needed to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Location     *string
	Bio          *string
}

// ToModel converts the DTO into a persistable user model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Location:     d.Location,
		Bio:          d.Bio,
		Rating:       decimal.Zero,
		IsActive:     true,
	}
}

// PublicProfile is the user shape exposed on read paths.
type PublicProfile struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Location    *string   `json:"location,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Rating      string    `json:"rating"`
	RatingCount int       `json:"rating_count"`
}

// ToPublicProfile maps a user model to its public shape.
func ToPublicProfile(user *models.User) PublicProfile {
	return PublicProfile{
		ID:          user.ID,
		FullName:    user.FullName,
		Location:    user.Location,
		Bio:         user.Bio,
		Rating:      user.Rating.StringFixed(2),
		RatingCount: user.RatingCount,
	}
}
