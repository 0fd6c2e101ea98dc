package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/money"
	"github.com/splitsmart/splitsmart/internal/storage"
)

// CreateGroup persists a new group with all member balances at zero.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.Version = 0
	if group.Balances == nil {
		group.Balances = make(map[string]money.Cents, len(group.Members))
		for _, name := range group.Members {
			group.Balances[name] = 0
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, version, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.Version, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, name := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, name, position) VALUES (?, ?, ?)",
			group.ID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO balances (group_id, name, cents) VALUES (?, ?, ?)",
			group.ID, name, int64(group.Balances[name]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including members, balances, and the
// full expense log in append order.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{Balances: make(map[string]money.Cents)}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, version, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Version, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	balRows, err := s.db.QueryContext(ctx,
		"SELECT name, cents FROM balances WHERE group_id = ?",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	defer balRows.Close()
	for balRows.Next() {
		var name string
		var cents int64
		if err := balRows.Scan(&name, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		group.Balances[name] = money.Cents(cents)
	}
	if err := balRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	expenses, err := s.getExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Expenses = expenses

	return group, nil
}

func (s *SQLiteStore) getExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT seq, description, amount, paid_by, created_at FROM expenses WHERE group_id = ? ORDER BY seq",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	var seqs []int64
	for rows.Next() {
		var seq int64
		var amount int64
		expense := models.Expense{SplitAmong: make(map[string]money.Cents)}
		if err := rows.Scan(&seq, &expense.Description, &amount, &expense.PaidBy, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount = money.Cents(amount)
		expenses = append(expenses, expense)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i, seq := range seqs {
		shareRows, err := s.db.QueryContext(ctx,
			"SELECT participant, cents FROM expense_shares WHERE group_id = ? AND seq = ? ORDER BY participant",
			groupID, seq,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get expense shares: %w", err)
		}
		for shareRows.Next() {
			var participant string
			var cents int64
			if err := shareRows.Scan(&participant, &cents); err != nil {
				shareRows.Close()
				return nil, fmt.Errorf("failed to scan expense share: %w", err)
			}
			expenses[i].SplitAmong[participant] = money.Cents(cents)
		}
		shareRows.Close()
		if err := shareRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
		}
	}

	return expenses, nil
}

// ListGroupsByMember retrieves all groups the named user belongs to.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, name string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id FROM group_members WHERE name = ?",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by member: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group ids: %w", err)
	}

	var groups []*models.Group
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// SaveGroup atomically persists the group's balances and any newly
// appended expenses. The version check rejects writes based on a stale
// read with storage.ErrVersionConflict so the caller can retry from a
// fresh fetch.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE groups SET version = version + 1 WHERE id = ? AND version = ?",
		group.ID, group.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update group version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", group.ID).Scan(&one)
		if err == sql.ErrNoRows {
			return storage.ErrGroupNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check group existence: %w", err)
		}
		return storage.ErrVersionConflict
	}

	for name, bal := range group.Balances {
		_, err = tx.ExecContext(ctx,
			"UPDATE balances SET cents = ? WHERE group_id = ? AND name = ?",
			int64(bal), group.ID, name,
		)
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
	}

	// Expenses are append-only: persist rows past the stored count.
	var stored int64
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expenses WHERE group_id = ?", group.ID,
	).Scan(&stored); err != nil {
		return fmt.Errorf("failed to count expenses: %w", err)
	}
	for seq := stored; seq < int64(len(group.Expenses)); seq++ {
		expense := group.Expenses[seq]
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expenses (group_id, seq, description, amount, paid_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			group.ID, seq, expense.Description, int64(expense.Amount), expense.PaidBy, expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		for participant, cents := range expense.SplitAmong {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_shares (group_id, seq, participant, cents) VALUES (?, ?, ?, ?)",
				group.ID, seq, participant, int64(cents),
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense share: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	group.Version++

	return nil
}
