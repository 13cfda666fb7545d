package repository

import (
	"context"
	"encoding/json"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ResumesRepo struct {
	pool *pgxpool.Pool
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

const resumeColumns = `id, owner_id, title, template, content, created_at, updated_at`

func (r *ResumesRepo) Create(ctx context.Context, res *domain.Resume) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO resumes (`+resumeColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		res.ID, res.OwnerID, res.Title, string(res.Template), []byte(res.Content), res.CreatedAt, res.UpdatedAt)
	return translate(err)
}

func (r *ResumesRepo) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Resume, error) {
	return scanResume(r.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND owner_id = $2`, id, ownerID))
}

func (r *ResumesRepo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Resume, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *ResumesRepo) Update(ctx context.Context, res *domain.Resume) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE resumes SET title = $3, template = $4, content = $5, updated_at = $6 WHERE id = $1 AND owner_id = $2`,
		res.ID, res.OwnerID, res.Title, string(res.Template), []byte(res.Content), res.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ResumesRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanResume(row row) (*domain.Resume, error) {
	var (
		res      domain.Resume
		template string
		content  []byte
	)
	if err := row.Scan(&res.ID, &res.OwnerID, &res.Title, &template, &content, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	res.Template = domain.TemplateKind(template)
	res.Content = json.RawMessage(content)
	return &res, nil
}
