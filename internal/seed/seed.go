package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/notehub/internal/app/models"
	"github.com/yigit/notehub/internal/app/repositories"
	"github.com/yigit/notehub/internal/db"
)

// DefaultSubjects are created on an empty installation
var DefaultSubjects = []string{
	"Calculus I",
	"Calculus II",
	"Linear Algebra",
	"Discrete Mathematics",
	"Probability and Statistics",
	"Data Structures",
	"Algorithms",
	"Operating Systems",
	"Physics I",
	"Physics II",
}

// DefaultProfessors are created on an empty installation
var DefaultProfessors = []string{
	"Dr. Ada Lovelace",
	"Dr. Alan Turing",
	"Dr. Emmy Noether",
	"Dr. John von Neumann",
	"Dr. Grace Hopper",
}

// Result counts the rows a seed run created
type Result struct {
	Subjects   int
	Professors int
}

// CreateDefaultData creates the default subjects and professors that do not
// exist yet. Existing names are left alone, so running it twice is harmless.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) (Result, error) {
	lgr.Info().Msg("Checking/Creating default data (Subjects/Professors)...")

	var result Result
	err := database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		refs := repositories.NewReferenceRepository(tx)
		result = Result{}
		var finalErr error

		for _, name := range DefaultSubjects {
			created, err := refs.CreateSubject(ctx, models.Subject{ID: uuid.NewString(), Name: name})
			if err != nil {
				finalErr = errors.Join(finalErr, fmt.Errorf("subject %q: %w", name, err))
				continue
			}
			if created {
				result.Subjects++
			}
		}

		for _, name := range DefaultProfessors {
			created, err := refs.CreateProfessor(ctx, models.Professor{ID: uuid.NewString(), Name: name})
			if err != nil {
				finalErr = errors.Join(finalErr, fmt.Errorf("professor %q: %w", name, err))
				continue
			}
			if created {
				result.Professors++
			}
		}

		return finalErr
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data")
		return Result{}, err
	}

	lgr.Info().Int("subjects", result.Subjects).Int("professors", result.Professors).Msg("Default data ensured")
	return result, nil
}
