package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/abrezinsky/eventvote/internal/models"
)

// ==================== Template Methods ====================

// CreateTemplate creates an event template
func (r *Repository) CreateTemplate(ctx context.Context, t models.EventTemplate) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO event_templates (name, description, default_voting_type_id) VALUES (?, ?, ?)`,
		t.Name, t.Description, nullInt(t.DefaultVotingTypeID))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetTemplate retrieves a template by ID
func (r *Repository) GetTemplate(ctx context.Context, id int) (*models.EventTemplate, error) {
	var t models.EventTemplate
	var description sql.NullString
	var defaultVotingType sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, default_voting_type_id FROM event_templates WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &description, &defaultVotingType)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	t.DefaultVotingTypeID = intPtr(defaultVotingType)
	return &t, nil
}

// ListTemplates returns all templates
func (r *Repository) ListTemplates(ctx context.Context) ([]models.EventTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, default_voting_type_id FROM event_templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.EventTemplate
	for rows.Next() {
		var t models.EventTemplate
		var description sql.NullString
		var defaultVotingType sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &description, &defaultVotingType); err != nil {
			return nil, err
		}
		t.Description = description.String
		t.DefaultVotingTypeID = intPtr(defaultVotingType)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// DeleteTemplate deletes a template; events created from it keep their settings
func (r *Repository) DeleteTemplate(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM event_templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ==================== Event Methods ====================

const eventColumns = `e.id, e.name, e.is_active, e.is_public, e.voting_starts_at, e.voting_ends_at,
	e.template_id, vc.voting_type_id, e.created_at, e.deleted_at`

const eventFrom = `FROM events e LEFT JOIN event_voting_configs vc ON vc.event_id = e.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	var startsAt, endsAt, createdAt, deletedAt sql.NullTime
	var templateID, votingTypeID sql.NullInt64
	if err := row.Scan(&e.ID, &e.Name, &e.IsActive, &e.IsPublic, &startsAt, &endsAt,
		&templateID, &votingTypeID, &createdAt, &deletedAt); err != nil {
		return nil, err
	}
	if startsAt.Valid {
		e.VotingStartsAt = &startsAt.Time
	}
	if endsAt.Valid {
		e.VotingEndsAt = &endsAt.Time
	}
	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Time
	}
	e.CreatedAt = createdAt.Time
	e.TemplateID = intPtr(templateID)
	e.VotingTypeID = intPtr(votingTypeID)
	return &e, nil
}

// CreateEvent creates an event and, when VotingTypeID is set, its voting config
func (r *Repository) CreateEvent(ctx context.Context, e models.Event) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO events (name, is_active, is_public, voting_starts_at, voting_ends_at, template_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.Name, e.IsActive, e.IsPublic, e.VotingStartsAt, e.VotingEndsAt, nullInt(e.TemplateID), time.Now().UTC())
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
		if e.VotingTypeID != nil {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO event_voting_configs (event_id, voting_type_id) VALUES (?, ?)`, id, *e.VotingTypeID)
		}
		return err
	})
	return id, err
}

// GetEvent retrieves a non-deleted event by ID
func (r *Repository) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` `+eventFrom+` WHERE e.id = ? AND e.deleted_at IS NULL`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return e, err
}

// ListEvents returns all non-deleted events
func (r *Repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` `+eventFrom+` WHERE e.deleted_at IS NULL ORDER BY e.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// UpdateEvent updates an event's editable fields
func (r *Repository) UpdateEvent(ctx context.Context, e models.Event) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE events SET name = ?, is_active = ?, is_public = ?, voting_starts_at = ?, voting_ends_at = ?, template_id = ?
		WHERE id = ? AND deleted_at IS NULL`,
		e.Name, e.IsActive, e.IsPublic, e.VotingStartsAt, e.VotingEndsAt, nullInt(e.TemplateID), e.ID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SoftDeleteEvent marks an event deleted; its data is kept
func (r *Repository) SoftDeleteEvent(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET deleted_at = ?, is_active = 0 WHERE id = ? AND deleted_at IS NULL`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SetEventVotingType sets the voting type used by an event
func (r *Repository) SetEventVotingType(ctx context.Context, eventID, votingTypeID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_voting_configs (event_id, voting_type_id) VALUES (?, ?)
		ON CONFLICT(event_id) DO UPDATE SET voting_type_id = excluded.voting_type_id`,
		eventID, votingTypeID)
	return err
}

// clearOrder lists the event-owned tables in the order they must be emptied
var clearOrder = []string{"votes", "ballots", "vote_summaries", "entries", "participants", "divisions"}

// ClearEventData deletes every vote, ballot, summary, entry, participant and
// division of an event in one transaction. The event itself is kept.
func (r *Repository) ClearEventData(ctx context.Context, eventID int) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range clearOrder {
			// table comes from the fixed list above
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE event_id = ?", eventID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetEventStats returns counts describing an event's voting activity
func (r *Repository) GetEventStats(ctx context.Context, eventID int) (*models.EventStats, error) {
	stats := &models.EventStats{EventID: eventID}
	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM ballots WHERE event_id = ?`, &stats.Ballots},
		{`SELECT COUNT(*) FROM votes WHERE event_id = ?`, &stats.Votes},
		{`SELECT COUNT(DISTINCT user_id) FROM votes WHERE event_id = ?`, &stats.Voters},
		{`SELECT COUNT(*) FROM entries WHERE event_id = ? AND is_active = 1`, &stats.Entries},
		{`SELECT COUNT(*) FROM divisions WHERE event_id = ? AND is_active = 1`, &stats.Divisions},
		{`SELECT COUNT(*) FROM participants WHERE event_id = ?`, &stats.Participants},
	}
	for _, q := range queries {
		if err := r.db.QueryRowContext(ctx, q.query, eventID).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
