package pg

import (
	"context"
	"database/sql"

	"userservice/internal/domain/stats"
)

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) GetManagerUserStats(ctx context.Context) ([]stats.ManagerUserStat, error) {
	const q = `
	SELECT m.manager_id,
	COUNT(u.user_id) FILTER (WHERE u.is_active) AS active_users,
	COUNT(u.user_id) FILTER (WHERE NOT u.is_active) AS inactive_users
	FROM managers m LEFT JOIN users u ON u.manager_id = m.manager_id
	GROUP BY m.manager_id
	ORDER BY m.manager_id;`

	rows, err := query(ctx, r.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []stats.ManagerUserStat
	for rows.Next() {
		var s stats.ManagerUserStat
		if err := rows.Scan(
			&s.ManagerID,
			&s.ActiveUsers,
			&s.InactiveUsers,
		); err != nil {
			return nil, err
		}
		res = append(res, s)
	}

	return res, rows.Err()
}
