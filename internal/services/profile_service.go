package services

import (
	"database/sql"
	"errors"
	"strings"

	"megano/internal/domain"
	"megano/internal/repos"
	"megano/internal/validate"
)

// ProfileView is what the profile page shows.
type ProfileView struct {
	User    domain.User
	Profile domain.Profile
}

// ProfileUpdate holds the posted profile fields; nil means unchanged.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Phone    *string
}

type ProfileService struct {
	Users *repos.UserRepo
}

func NewProfileService(users *repos.UserRepo) *ProfileService { return &ProfileService{Users: users} }

func (s *ProfileService) Get(userID int64) (ProfileView, error) {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return ProfileView{}, err
	}
	p, err := s.Users.Profile(userID)
	if errors.Is(err, sql.ErrNoRows) {
		p, err = domain.Profile{UserID: userID}, nil
	}
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{User: *u, Profile: p}, nil
}

// Update applies the given fields. The full name is split on its first space.
func (s *ProfileService) Update(userID int64, upd ProfileUpdate) (ProfileView, error) {
	v, err := s.Get(userID)
	if err != nil {
		return v, err
	}
	errs := validate.Errors{}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if len([]rune(name)) > 100 {
			errs["fullName"] = "name is too long"
		}
		first, last, _ := strings.Cut(name, " ")
		v.User.FirstName, v.User.LastName = first, strings.TrimSpace(last)
	}
	if upd.Email != nil {
		if e := strings.TrimSpace(*upd.Email); e == "" {
			v.User.Email = ""
		} else if e, ok := validate.Email(e); ok {
			v.User.Email = e
		} else {
			errs["email"] = "enter a valid email"
		}
	}
	if upd.Phone != nil {
		if ph, ok := validate.Phone(*upd.Phone); ok {
			v.Profile.Phone = ph
		} else {
			errs["phone"] = "phone must be 10 digits"
		}
	}
	if err := errs.Err(); err != nil {
		return v, err
	}
	if err := s.Users.Update(v.User); err != nil {
		return v, err
	}
	if err := s.Users.SaveProfile(v.Profile); err != nil {
		return v, err
	}
	return v, nil
}

// SetAvatar records where the uploaded avatar was stored.
func (s *ProfileService) SetAvatar(userID int64, src, alt string) (ProfileView, error) {
	v, err := s.Get(userID)
	if err != nil {
		return v, err
	}
	v.Profile.AvatarSrc, v.Profile.AvatarAlt = src, alt
	if err := s.Users.SaveProfile(v.Profile); err != nil {
		return v, err
	}
	return v, nil
}
