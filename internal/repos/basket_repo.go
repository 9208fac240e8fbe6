package repos

import (
	"github.com/jmoiron/sqlx"

	"megano/internal/domain"
)

// BasketRepo keeps each session's basket as rows of basket_items.
type BasketRepo struct{ db *sqlx.DB }

func NewBasketRepo(db *sqlx.DB) *BasketRepo { return &BasketRepo{db: db} }

func (r *BasketRepo) Get(sessionID string) (domain.BasketState, error) {
	type row struct {
		ProductID int64 `db:"product_id"`
		domain.BasketEntry
	}
	var rows []row
	if err := r.db.Select(&rows, `
	  SELECT product_id, count, price
	  FROM basket_items
	  WHERE session_id = ?`, sessionID); err != nil {
		return nil, err
	}
	state := make(domain.BasketState, len(rows))
	for _, x := range rows {
		state[x.ProductID] = x.BasketEntry
	}
	return state, nil
}

// Put replaces the stored basket of the session with state.
func (r *BasketRepo) Put(sessionID string, state domain.BasketState) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM basket_items WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	ts := now()
	for pid, e := range state {
		if _, err := tx.Exec(`
		  INSERT INTO basket_items(session_id, product_id, count, price, updated_at)
		  VALUES(?, ?, ?, ?, ?)`, sessionID, pid, e.Count, e.Price, ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *BasketRepo) Delete(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM basket_items WHERE session_id = ?`, sessionID)
	return err
}
