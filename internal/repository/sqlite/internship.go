package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/internradar/pkg/models"
)

const internshipColumns = `id, title, company, location, stipend, description, required_skills, source, apply_link, created, updated`

func (r *SQLiteRepo) CreateInternship(ctx context.Context, i *models.Internship) (int64, error) {
	if i == nil {
		return 0, fmt.Errorf("internship is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO internships (title, company, location, stipend, description, required_skills, source, apply_link, created, updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.Title, i.Company, i.Location, i.Stipend, i.Description, marshalStrings(i.RequiredSkills), i.Source, i.ApplyLink, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func scanInternship(row interface{ Scan(...any) error }) (*models.Internship, error) {
	var i models.Internship
	var source sql.NullString
	var skills string
	if err := row.Scan(&i.ID, &i.Title, &i.Company, &i.Location, &i.Stipend, &i.Description, &skills, &source, &i.ApplyLink, &i.Created, &i.Updated); err != nil {
		return nil, err
	}

	if source.Valid {
		i.Source = source.String
	}
	i.RequiredSkills = unmarshalStrings(skills)

	return &i, nil
}

func (r *SQLiteRepo) GetInternshipByID(ctx context.Context, id int64) (*models.Internship, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+internshipColumns+` FROM internships WHERE id = ?`, id)
	i, err := scanInternship(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return i, nil
}

func (r *SQLiteRepo) GetInternshipByApplyLink(ctx context.Context, link string) (*models.Internship, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+internshipColumns+` FROM internships WHERE apply_link = ?`, link)
	i, err := scanInternship(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return i, nil
}

// ListInternships returns all postings, newest first.
func (r *SQLiteRepo) ListInternships(ctx context.Context) ([]models.Internship, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+internshipColumns+` FROM internships ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInternships(rows)
}

// SearchInternships does a case-insensitive substring match over the text
// columns and the required-skills JSON array.
func (r *SQLiteRepo) SearchInternships(ctx context.Context, query string, limit int) ([]models.Internship, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + query + "%"
	rows, err := r.conn.QueryRows(ctx,
		`SELECT `+internshipColumns+` FROM internships
		 WHERE title LIKE ? COLLATE NOCASE
		    OR company LIKE ? COLLATE NOCASE
		    OR location LIKE ? COLLATE NOCASE
		    OR description LIKE ? COLLATE NOCASE
		    OR required_skills LIKE ? COLLATE NOCASE
		 ORDER BY created DESC LIMIT ?`,
		pattern, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInternships(rows)
}

func (r *SQLiteRepo) CountInternships(ctx context.Context) (int64, error) {
	var n int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM internships`)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func collectInternships(rows *sql.Rows) ([]models.Internship, error) {
	var out []models.Internship
	for rows.Next() {
		i, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}

	return out, rows.Err()
}
