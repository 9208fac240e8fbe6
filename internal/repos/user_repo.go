package repos

import (
	"megano/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,username,first_name,last_name,email,password_hash,role`

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE username=?`, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user together with an empty profile.
func (r *UserRepo) Create(u domain.User) (int64, error) {
	tx, err := r.DB.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO users(username,first_name,last_name,email,password_hash,role)
		VALUES(?,?,?,?,?,?)`, u.Username, u.FirstName, u.LastName, u.Email, u.Hash, u.Role)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`INSERT INTO profiles(user_id) VALUES(?)`, id); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func (r *UserRepo) Update(u domain.User) error {
	_, err := r.DB.Exec(`UPDATE users SET first_name=?,last_name=?,email=? WHERE id=?`,
		u.FirstName, u.LastName, u.Email, u.ID)
	return err
}

func (r *UserRepo) SetPassword(id int64, hash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=? WHERE id=?`, hash, id)
	return err
}

func (r *UserRepo) Profile(userID int64) (domain.Profile, error) {
	var p domain.Profile
	err := r.DB.Get(&p, `SELECT user_id,phone,avatar_src,avatar_alt FROM profiles WHERE user_id=?`, userID)
	return p, err
}

// SaveProfile upserts the profile row.
func (r *UserRepo) SaveProfile(p domain.Profile) error {
	_, err := r.DB.Exec(`
		INSERT INTO profiles(user_id,phone,avatar_src,avatar_alt) VALUES(?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET phone=excluded.phone,avatar_src=excluded.avatar_src,avatar_alt=excluded.avatar_alt`,
		p.UserID, p.Phone, p.AvatarSrc, p.AvatarAlt)
	return err
}

func (r *UserRepo) BindSession(sid string, userID int64) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.username,u.first_name,u.last_name,u.email,u.password_hash,u.role
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
