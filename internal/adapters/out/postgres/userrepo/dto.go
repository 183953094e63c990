// Package userrepo persists the slice of a user the parcel lifecycle needs.
package userrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"

	"github.com/google/uuid"
)

type UserDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	Email       string
	Phone       string
	Role        string `gorm:"type:varchar(16);index"`
	NotifyEmail bool   `gorm:"column:notify_email"`
	NotifySMS   bool   `gorm:"column:notify_sms"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	prefs := u.Preferences()
	return UserDTO{
		ID:          u.ID().Bytes(),
		Name:        u.Name(),
		Email:       u.Email(),
		Phone:       u.Phone(),
		Role:        u.Role().String(),
		NotifyEmail: prefs.Email,
		NotifySMS:   prefs.SMS,
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	return user.RestoreUser(id, dto.Name, role, dto.Email, dto.Phone, user.NotificationPreferences{
		Email: dto.NotifyEmail,
		SMS:   dto.NotifySMS,
	})
}
