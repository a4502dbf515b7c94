package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/alertops/socstats/internal/db"
	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/errors"
)

type AlertRepository struct {
	db *db.DB
}

func NewAlertRepository(d *db.DB) alert.Repository {
	return &AlertRepository{db: d}
}

// monthExpr yields YYYYMM for the insert date in the underlying dialect.
func (r *AlertRepository) monthExpr() string {
	if r.db.Driver == "postgres" {
		return "to_char(insert_date, 'YYYYMM')"
	}
	return "strftime('%Y%m', insert_date)"
}

func (r *AlertRepository) FetchBetween(ctx context.Context, start, end time.Time, filter alert.Filter) ([]alert.Record, error) {
	query := `
		SELECT a.id, a.alert_type, a.disposition, a.insert_date, a.disposition_time, a.company_id, a.disposition_user_id
		FROM alerts a
		WHERE a.insert_date >= ? AND a.insert_date <= ?
	`
	args := []interface{}{start, end}

	if len(filter.Companies) > 0 {
		query += ` AND a.company_id IN (SELECT id FROM company WHERE name IN (` + placeholders(len(filter.Companies)) + `))`
		for _, c := range filter.Companies {
			args = append(args, c)
		}
	}
	if len(filter.AlertTypes) > 0 {
		query += ` AND a.alert_type IN (` + placeholders(len(filter.AlertTypes)) + `)`
		for _, t := range filter.AlertTypes {
			args = append(args, t)
		}
	}
	query += ` ORDER BY a.insert_date`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch alerts", err)
	}
	defer rows.Close()

	var records []alert.Record
	for rows.Next() {
		var (
			rec             alert.Record
			insertDate      timeValue
			dispositionTime timeValue
		)
		if err := rows.Scan(&rec.ID, &rec.AlertType, &rec.Disposition, &insertDate, &dispositionTime, &rec.CompanyID, &rec.DispositionUserID); err != nil {
			return nil, errors.DatabaseError("Failed to scan alert", err)
		}
		if insertDate.valid {
			rec.InsertDate = insertDate.t
		}
		if dispositionTime.valid {
			t := dispositionTime.t
			rec.DispositionTime = &t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate alerts", err)
	}
	return records, nil
}

func (r *AlertRepository) TypeCountsByMonth(ctx context.Context, start, end time.Time) ([]alert.TypeMonthCount, error) {
	query := `
		SELECT alert_type, ` + r.monthExpr() + ` AS month, COUNT(*)
		FROM alerts
		WHERE insert_date >= ? AND insert_date <= ?
		GROUP BY alert_type, month
		ORDER BY month, alert_type
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), start, end)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count alerts by type and month", err)
	}
	defer rows.Close()

	var counts []alert.TypeMonthCount
	for rows.Next() {
		var tc alert.TypeMonthCount
		if err := rows.Scan(&tc.AlertType, &tc.Month, &tc.Count); err != nil {
			return nil, errors.DatabaseError("Failed to scan type count", err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate type counts", err)
	}
	return counts, nil
}

func (r *AlertRepository) TypeCountsBetween(ctx context.Context, start, end time.Time) ([]alert.TypeCount, error) {
	query := `
		SELECT alert_type, COUNT(*)
		FROM alerts
		WHERE insert_date >= ? AND insert_date <= ?
		GROUP BY alert_type
		ORDER BY COUNT(*) DESC, alert_type
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), start, end)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count alerts by type", err)
	}
	defer rows.Close()

	var counts []alert.TypeCount
	for rows.Next() {
		var tc alert.TypeCount
		if err := rows.Scan(&tc.AlertType, &tc.Count); err != nil {
			return nil, errors.DatabaseError("Failed to scan type count", err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate type counts", err)
	}
	return counts, nil
}

func (r *AlertRepository) DistinctTypesBetween(ctx context.Context, start, end time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT alert_type
		FROM alerts
		WHERE insert_date >= ? AND insert_date <= ?
		ORDER BY alert_type
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), start, end)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list alert types", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, errors.DatabaseError("Failed to scan alert type", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate alert types", err)
	}
	return types, nil
}

func (r *AlertRepository) ListAnalysts(ctx context.Context) ([]alert.Analyst, error) {
	query := `
		SELECT id, username, COALESCE(display_name, ''), COALESCE(queue, ''), enabled
		FROM users
		ORDER BY username
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list analysts", err)
	}
	defer rows.Close()

	var analysts []alert.Analyst
	for rows.Next() {
		var a alert.Analyst
		if err := rows.Scan(&a.ID, &a.Username, &a.DisplayName, &a.Queue, &a.Enabled); err != nil {
			return nil, errors.DatabaseError("Failed to scan analyst", err)
		}
		analysts = append(analysts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate analysts", err)
	}
	return analysts, nil
}

func (r *AlertRepository) ListCompanies(ctx context.Context) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM company ORDER BY id`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list companies", err)
	}
	defer rows.Close()

	companies := make(map[int64]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, errors.DatabaseError("Failed to scan company", err)
		}
		companies[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate companies", err)
	}
	return companies, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
