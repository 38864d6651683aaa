package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/internradar/pkg/models"
)

const userColumns = `id, name, email, password_hash, provider, github_id, github_username, avatar_url, skills, preferences, last_login_at, total_applications, total_views, created, updated`

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}
	if u.Provider == "" {
		u.Provider = models.ProviderLocal
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, provider, github_id, github_username, avatar_url, skills, preferences, last_login_at, created, updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.Provider, u.GitHubID, u.GitHubUsername, u.AvatarURL,
		marshalStrings(u.Skills), marshalPreferences(u.Preferences), ts, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var pw, ghID, ghUser, avatar sql.NullString
	var skills, prefs string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &pw, &u.Provider, &ghID, &ghUser, &avatar,
		&skills, &prefs, &u.Activity.LastLoginAt, &u.Activity.TotalApplications, &u.Activity.TotalViews,
		&u.Created, &u.Updated); err != nil {
		return nil, err
	}

	if pw.Valid {
		u.PasswordHash = pw.String
	}
	if ghID.Valid {
		u.GitHubID = ghID.String
	}
	if ghUser.Valid {
		u.GitHubUsername = ghUser.String
	}
	if avatar.Valid {
		u.AvatarURL = avatar.String
	}
	u.Skills = unmarshalStrings(skills)
	u.Preferences = unmarshalPreferences(prefs)

	return &u, nil
}

func (r *SQLiteRepo) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return u, nil
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `id = ?`, id)
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `email = ?`, email)
}

func (r *SQLiteRepo) GetUserByGitHubID(ctx context.Context, githubID string) (*models.User, error) {
	return r.getUser(ctx, `github_id = ?`, githubID)
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, provider = ?, github_id = ?, github_username = ?, avatar_url = ?, skills = ?, preferences = ?, updated = ? WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.Provider, u.GitHubID, u.GitHubUsername, u.AvatarURL,
		marshalStrings(u.Skills), marshalPreferences(u.Preferences), now(), u.ID)
	return err
}

func (r *SQLiteRepo) UpdateSkills(ctx context.Context, id int64, skills []string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET skills = ?, updated = ? WHERE id = ?`, marshalStrings(skills), now(), id)
	return err
}

func (r *SQLiteRepo) TouchLogin(ctx context.Context, id int64) error {
	ts := now()
	_, err := r.conn.Exec(ctx, `UPDATE users SET last_login_at = ?, updated = ? WHERE id = ?`, ts, ts, id)
	return err
}

func (r *SQLiteRepo) BumpActivity(ctx context.Context, id int64, views, applications int64) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE users SET total_views = total_views + ?, total_applications = total_applications + ?, updated = ? WHERE id = ?`,
		views, applications, now(), id)
	return err
}

func (r *SQLiteRepo) ResetActivity(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET total_views = 0, total_applications = 0, updated = ? WHERE id = ?`, now(), id)
	return err
}

func (r *SQLiteRepo) ListGitHubUsersWithoutSkills(ctx context.Context) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT `+userColumns+` FROM users WHERE provider = ? AND github_username != '' AND (skills = '[]' OR skills = '')`,
		models.ProviderGitHub)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}

	return out, rows.Err()
}
