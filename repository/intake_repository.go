package repository

import (
	"context"
	"errors"

	"legalintake-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrIntakeNotFound is returned when an intake id does not exist
var ErrIntakeNotFound = errors.New("intake not found")

// IntakeRepository handles database operations for intakes
type IntakeRepository struct {
	db *pgxpool.Pool
}

// NewIntakeRepository creates a new intake repository
func NewIntakeRepository(db *pgxpool.Pool) *IntakeRepository {
	return &IntakeRepository{db: db}
}

// Create creates a new intake record, writing base fields plus whatever
// AI fields were obtained. The id and submission timestamp are assigned
// by the store.
func (r *IntakeRepository) Create(ctx context.Context, intake *models.IntakeRecord) error {
	query := `
		INSERT INTO intakes (
			share_with_marketplace, full_name, email, phone, jurisdiction,
			matter_type, summary, goals, urgency,
			ai_summary, ai_score, ai_score_breakdown, ai_reasoning,
			ai_warnings, recommended_firms, applicable_laws
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING id, submitted_at`

	err := r.db.QueryRow(
		ctx, query,
		intake.ShareWithMarketplace,
		intake.Form.FullName,
		intake.Form.Email,
		intake.Form.Phone,
		intake.Form.Jurisdiction,
		intake.Form.MatterType,
		intake.Form.Summary,
		intake.Form.Goals,
		intake.Form.Urgency,
		intake.AISummary,
		intake.AIScore,
		intake.AIScoreBreakdown,
		intake.AIReasoning,
		intake.AIWarnings,
		intake.RecommendedFirms,
		intake.ApplicableLaws,
	).Scan(&intake.ID, &intake.SubmittedAt)

	return err
}

// List retrieves all intakes, newest first
func (r *IntakeRepository) List(ctx context.Context) ([]*models.IntakeRecord, error) {
	query := `
		SELECT id, submitted_at, share_with_marketplace,
			full_name, email, phone, jurisdiction, matter_type, summary, goals, urgency,
			ai_summary, ai_score, ai_score_breakdown, ai_reasoning,
			ai_warnings, recommended_firms, applicable_laws
		FROM intakes
		ORDER BY submitted_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intakes []*models.IntakeRecord
	for rows.Next() {
		intake := &models.IntakeRecord{}
		err := rows.Scan(
			&intake.ID,
			&intake.SubmittedAt,
			&intake.ShareWithMarketplace,
			&intake.Form.FullName,
			&intake.Form.Email,
			&intake.Form.Phone,
			&intake.Form.Jurisdiction,
			&intake.Form.MatterType,
			&intake.Form.Summary,
			&intake.Form.Goals,
			&intake.Form.Urgency,
			&intake.AISummary,
			&intake.AIScore,
			&intake.AIScoreBreakdown,
			&intake.AIReasoning,
			&intake.AIWarnings,
			&intake.RecommendedFirms,
			&intake.ApplicableLaws,
		)
		if err != nil {
			return nil, err
		}
		intakes = append(intakes, intake)
	}

	return intakes, rows.Err()
}

// DeleteByID deletes an intake. Returns ErrIntakeNotFound for unknown ids;
// deletion is immediate and unconditional once invoked.
func (r *IntakeRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM intakes WHERE id = $1`
	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrIntakeNotFound
	}
	return nil
}
