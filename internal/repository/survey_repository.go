package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"survey-gen/internal/domain"
	"survey-gen/internal/repository/models"
	"survey-gen/internal/util"
)

// SurveyDatabaseAdapter implements domain.SurveyRepository on Oracle through sqlx.
type SurveyDatabaseAdapter struct {
	db DBTX
}

// NewSurveyDatabaseAdapter accepts a *sqlx.DB, or a *sqlx.Tx to join a transaction.
func NewSurveyDatabaseAdapter(db DBTX) domain.SurveyRepository {
	return &SurveyDatabaseAdapter{db: db}
}

const surveyColumns = `id "id",
		title "title",
		language "language",
		provider "provider",
		payload "payload",
		issue_count "issue_count",
		created_at "created_at",
		updated_at "updated_at"`

// Save inserts a survey, or replaces its payload when the id already exists.
func (a *SurveyDatabaseAdapter) Save(ctx context.Context, survey *domain.StoredSurvey) error {
	row, err := toModelSurvey(survey)
	if err != nil {
		return err
	}

	query := `MERGE INTO surveys s
	USING (SELECT :1 AS id FROM dual) src
	ON (s.id = src.id)
	WHEN MATCHED THEN UPDATE SET
		title = :2, language = :3, provider = :4, payload = :5, issue_count = :6, updated_at = :7
	WHEN NOT MATCHED THEN INSERT
		(id, title, language, provider, payload, issue_count, created_at, updated_at)
		VALUES (:8, :9, :10, :11, :12, :13, :14, :15)`

	_, err = a.db.ExecContext(ctx, query,
		row.ID,
		row.Title, row.Language, row.Provider, row.Payload, row.IssueCount, row.UpdatedAt,
		row.ID, row.Title, row.Language, row.Provider, row.Payload, row.IssueCount, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save survey %s: %w", survey.ID, err)
	}
	return nil
}

// GetByID returns nil, nil when no survey has that id.
func (a *SurveyDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.StoredSurvey, error) {
	var row models.Survey
	query := `SELECT ` + surveyColumns + `
	FROM surveys
	WHERE id = :1`

	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get survey %s: %w", id, err)
	}
	return toDomainSurvey(&row)
}

// List returns the most recent surveys first.
func (a *SurveyDatabaseAdapter) List(ctx context.Context, limit int) ([]*domain.StoredSurvey, error) {
	var rows []models.Survey
	query := `SELECT ` + surveyColumns + `
	FROM surveys
	ORDER BY created_at DESC
	FETCH FIRST :1 ROWS ONLY`

	if err := a.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}

	out := make([]*domain.StoredSurvey, 0, len(rows))
	for i := range rows {
		s, err := toDomainSurvey(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func toModelSurvey(s *domain.StoredSurvey) (*models.Survey, error) {
	payload, err := json.Marshal(s.Survey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal survey %s: %w", s.ID, err)
	}
	now := time.Now()
	created, updated := s.CreatedAt, s.UpdatedAt
	if created.IsZero() {
		// ULID ids carry their creation time.
		if t, err := util.ULIDTime(s.ID); err == nil {
			created = t
		} else {
			created = now
		}
	}
	if updated.IsZero() {
		updated = now
	}
	return &models.Survey{
		ID:         s.ID,
		Title:      s.Title,
		Language:   string(s.Language),
		Provider:   s.Provider,
		Payload:    string(payload),
		IssueCount: s.IssueCount,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

func toDomainSurvey(row *models.Survey) (*domain.StoredSurvey, error) {
	survey, err := domain.ParseSurvey([]byte(row.Payload))
	if err != nil {
		return nil, fmt.Errorf("stored survey %s is corrupt: %w", row.ID, err)
	}
	return &domain.StoredSurvey{
		ID:         row.ID,
		Title:      row.Title,
		Language:   domain.Language(row.Language),
		Provider:   row.Provider,
		Survey:     survey,
		IssueCount: row.IssueCount,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}
