package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/notehub/internal/app/models"
)

// ReferenceRepository reads the subject and professor lookup tables.
type ReferenceRepository struct {
	DB DBTX
}

// NewReferenceRepository creates a new instance of ReferenceRepository.
func NewReferenceRepository(db DBTX) *ReferenceRepository {
	return &ReferenceRepository{DB: db}
}

func (r *ReferenceRepository) listNamed(ctx context.Context, table string) ([][2]string, error) {
	sql, args, err := squirrel.Select("id", "name").
		From(table).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, storageError("build list "+table, err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, storageError("list "+table, err)
	}
	defer rows.Close()

	var items [][2]string
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, storageError("scan "+table, err)
		}
		items = append(items, [2]string{id, name})
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate "+table, err)
	}
	return items, nil
}

// ListSubjects returns all subjects sorted by name.
func (r *ReferenceRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	items, err := r.listNamed(ctx, "subjects")
	if err != nil {
		return nil, err
	}
	subjects := make([]models.Subject, 0, len(items))
	for _, it := range items {
		subjects = append(subjects, models.Subject{ID: it[0], Name: it[1]})
	}
	return subjects, nil
}

// ListProfessors returns all professors sorted by name.
func (r *ReferenceRepository) ListProfessors(ctx context.Context) ([]models.Professor, error) {
	items, err := r.listNamed(ctx, "professors")
	if err != nil {
		return nil, err
	}
	professors := make([]models.Professor, 0, len(items))
	for _, it := range items {
		professors = append(professors, models.Professor{ID: it[0], Name: it[1]})
	}
	return professors, nil
}

func (r *ReferenceRepository) insertNamed(ctx context.Context, table, id, name string) (bool, error) {
	sql, args, err := squirrel.Insert(table).
		Columns("id", "name").
		Values(id, name).
		Suffix("ON CONFLICT (name) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, storageError("build insert "+table, err)
	}

	tag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		return false, storageError("insert "+table, err)
	}
	return tag.RowsAffected() == 1, nil
}

// CreateSubject inserts a subject unless one with the same name exists.
func (r *ReferenceRepository) CreateSubject(ctx context.Context, subject models.Subject) (bool, error) {
	return r.insertNamed(ctx, "subjects", subject.ID, subject.Name)
}

// CreateProfessor inserts a professor unless one with the same name exists.
func (r *ReferenceRepository) CreateProfessor(ctx context.Context, professor models.Professor) (bool, error) {
	return r.insertNamed(ctx, "professors", professor.ID, professor.Name)
}
