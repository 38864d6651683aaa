package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/internradar/pkg/models"
)

// UpsertApplication inserts a new (user, internship) record or overwrites
// the status and source of the existing one. The UNIQUE(user_id,
// internship_id) constraint guarantees at most one row per pair.
func (r *SQLiteRepo) UpsertApplication(ctx context.Context, a *models.Application) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}
	if a.Status == "" {
		a.Status = models.StatusViewed
	}
	if a.Source == "" {
		a.Source = models.SourceDashboard
	}

	ts := now()
	var appliedAt any
	if a.Status == models.StatusApplied {
		appliedAt = ts
	}

	_, err := r.conn.Exec(ctx,
		`INSERT INTO applications (user_id, internship_id, status, source, viewed_at, applied_at, created, updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, internship_id) DO UPDATE SET
		   status = excluded.status,
		   source = excluded.source,
		   applied_at = COALESCE(excluded.applied_at, applications.applied_at),
		   updated = excluded.updated`,
		a.UserID, a.InternshipID, a.Status, a.Source, ts, appliedAt, ts, ts)
	if err != nil {
		return 0, err
	}

	// LastInsertId is meaningless on the conflict path, so read the row id
	// back explicitly.
	row := r.conn.QueryRow(ctx, `SELECT id FROM applications WHERE user_id = ? AND internship_id = ?`, a.UserID, a.InternshipID)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

const applicationColumns = `a.id, a.user_id, a.internship_id, a.status, a.source, a.viewed_at, a.applied_at, a.created, a.updated`

const joinedInternshipColumns = `i.id, i.title, i.company, i.location, i.stipend, i.description, i.required_skills, i.source, i.apply_link, i.created, i.updated`

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	var a models.Application
	var appliedAt sql.NullInt64
	if err := row.Scan(&a.ID, &a.UserID, &a.InternshipID, &a.Status, &a.Source, &a.ViewedAt, &appliedAt, &a.Created, &a.Updated); err != nil {
		return nil, err
	}
	if appliedAt.Valid {
		a.AppliedAt = &appliedAt.Int64
	}

	return &a, nil
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, userID, internshipID int64) (*models.Application, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.user_id = ? AND a.internship_id = ?`,
		userID, internshipID)
	a, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return a, nil
}

func (r *SQLiteRepo) listWithInternships(ctx context.Context, query string, args ...any) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		var a models.Application
		var i models.Internship
		var appliedAt sql.NullInt64
		var source sql.NullString
		var skills string
		if err := rows.Scan(&a.ID, &a.UserID, &a.InternshipID, &a.Status, &a.Source, &a.ViewedAt, &appliedAt, &a.Created, &a.Updated,
			&i.ID, &i.Title, &i.Company, &i.Location, &i.Stipend, &i.Description, &skills, &source, &i.ApplyLink, &i.Created, &i.Updated); err != nil {
			return nil, err
		}
		if appliedAt.Valid {
			a.AppliedAt = &appliedAt.Int64
		}
		if source.Valid {
			i.Source = source.String
		}
		i.RequiredSkills = unmarshalStrings(skills)
		a.Internship = &i
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListApplicationsByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]models.Application, error) {
	if limit <= 0 {
		limit = 10
	}

	q := `SELECT ` + applicationColumns + `, ` + joinedInternshipColumns + `
	      FROM applications a JOIN internships i ON i.id = a.internship_id
	      WHERE a.user_id = ?`
	args := []any{userID}
	if status != "" {
		q += ` AND a.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY a.created DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return r.listWithInternships(ctx, q, args...)
}

func (r *SQLiteRepo) CountApplicationsByUser(ctx context.Context, userID int64, status string) (int64, error) {
	q := `SELECT COUNT(1) FROM applications WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}

	var n int64
	row := r.conn.QueryRow(ctx, q, args...)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *SQLiteRepo) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]models.Application, error) {
	if limit <= 0 {
		limit = 5
	}

	q := `SELECT ` + applicationColumns + `, ` + joinedInternshipColumns + `
	      FROM applications a JOIN internships i ON i.id = a.internship_id
	      WHERE a.user_id = ? ORDER BY a.updated DESC LIMIT ?`

	return r.listWithInternships(ctx, q, userID, limit)
}

// DeleteApplication removes one record, scoped to the owning user so a user
// can never delete another user's rows.
func (r *SQLiteRepo) DeleteApplication(ctx context.Context, userID, applicationID int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM applications WHERE id = ? AND user_id = ?`, applicationID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) DeleteAllByUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM applications WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
