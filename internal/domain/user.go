package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
	Hash      string `db:"password_hash"`
	Role      string `db:"role"`
}

// FullName falls back to the username when no name was given.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

type Profile struct {
	UserID    int64  `db:"user_id"`
	Phone     string `db:"phone"`
	AvatarSrc string `db:"avatar_src"`
	AvatarAlt string `db:"avatar_alt"`
}
