package user

import (
	"errors"
	"net/mail"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

var ErrUserIsNotConstructed = errors.New("User must be created via NewUser or RestoreUser")

// NotificationPreferences records the channels a user has opted into.
// New users receive both.
type NotificationPreferences struct {
	Email bool
	SMS   bool
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, SMS: true}
}

// User is a party to the parcel lifecycle: the customer who booked, the agent
// carrying the parcel, or an admin. Only the attributes the lifecycle needs are kept.
type User struct {
	id            kernel.UUID
	name          string
	email         string
	phone         string
	role          Role
	preferences   NotificationPreferences
	isConstructed bool
}

// NewUser validates identity, name and role. Contact values are optional
// because a user without an email simply receives no email.
func NewUser(id kernel.UUID, name string, role Role, email, phone string) (*User, error) {
	u := &User{
		preferences:   DefaultNotificationPreferences(),
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setName(name),
		u.setRole(role),
		u.setEmail(email),
	); err != nil {
		return nil, err
	}
	u.phone = strings.TrimSpace(phone)

	return u, nil
}

// RestoreUser rebuilds a user from storage with its stored preferences.
func RestoreUser(
	id kernel.UUID,
	name string,
	role Role,
	email, phone string,
	preferences NotificationPreferences,
) (*User, error) {
	u, err := NewUser(id, name, role, email, phone)
	if err != nil {
		return nil, err
	}
	u.preferences = preferences
	return u, nil
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Phone() string {
	return u.phone
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) Preferences() NotificationPreferences {
	return u.preferences
}

// Actor returns the identity this user acts under.
func (u *User) Actor() Actor {
	return Actor{ID: u.id, Role: u.role}
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	u.name = name
	return nil
}

func (u *User) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}

func (u *User) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		u.email = ""
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	u.email = email
	return nil
}
