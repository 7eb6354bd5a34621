package repository

import (
	"context"
	"database/sql"

	"github.com/abrezinsky/eventvote/internal/models"
)

// ==================== Division Methods ====================

// CreateDivision creates a division within an event
func (r *Repository) CreateDivision(ctx context.Context, d models.Division) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO divisions (event_id, code, name, type, display_order, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		d.EventID, d.Code, d.Name, d.Type, d.DisplayOrder, d.IsActive)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListDivisions returns an event's divisions in display order
func (r *Repository) ListDivisions(ctx context.Context, eventID int) ([]models.Division, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, code, name, type, display_order, is_active
		FROM divisions WHERE event_id = ?
		ORDER BY display_order, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var divisions []models.Division
	for rows.Next() {
		var d models.Division
		var divType sql.NullString
		if err := rows.Scan(&d.ID, &d.EventID, &d.Code, &d.Name, &divType, &d.DisplayOrder, &d.IsActive); err != nil {
			return nil, err
		}
		d.Type = divType.String
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

// UpdateDivision updates a division
func (r *Repository) UpdateDivision(ctx context.Context, d models.Division) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE divisions SET code = ?, name = ?, type = ?, display_order = ?, is_active = ? WHERE id = ? AND event_id = ?`,
		d.Code, d.Name, d.Type, d.DisplayOrder, d.IsActive, d.ID, d.EventID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteDivision deletes a division that has no entries
func (r *Repository) DeleteDivision(ctx context.Context, eventID, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM divisions WHERE id = ? AND event_id = ?`, id, eventID)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ==================== Participant Methods ====================

// CreateParticipant registers a participant to an event
func (r *Repository) CreateParticipant(ctx context.Context, p models.Participant) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (event_id, division_id, name, email) VALUES (?, ?, ?, ?)`,
		p.EventID, nullInt(p.DivisionID), p.Name, p.Email)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListParticipants returns an event's participants
func (r *Repository) ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, division_id, name, email FROM participants WHERE event_id = ? ORDER BY name, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		var divisionID sql.NullInt64
		var email sql.NullString
		if err := rows.Scan(&p.ID, &p.EventID, &divisionID, &p.Name, &email); err != nil {
			return nil, err
		}
		p.DivisionID = intPtr(divisionID)
		p.Email = email.String
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// DeleteParticipant deletes a participant that has no entries
func (r *Repository) DeleteParticipant(ctx context.Context, eventID, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = ? AND event_id = ?`, id, eventID)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ==================== Entry Methods ====================

const entryColumns = `id, event_id, division_id, participant_id, entry_number, name, is_active`

func scanEntry(row rowScanner) (*models.Entry, error) {
	var e models.Entry
	var participantID sql.NullInt64
	var name sql.NullString
	if err := row.Scan(&e.ID, &e.EventID, &e.DivisionID, &participantID, &e.EntryNumber, &name, &e.IsActive); err != nil {
		return nil, err
	}
	e.ParticipantID = intPtr(participantID)
	e.Name = name.String
	return &e, nil
}

// CreateEntry creates an entry. Entry numbers are unique per event.
func (r *Repository) CreateEntry(ctx context.Context, e models.Entry) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (event_id, division_id, participant_id, entry_number, name, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		e.EventID, e.DivisionID, nullInt(e.ParticipantID), e.EntryNumber, e.Name, e.IsActive)
	if isUniqueViolation(err) {
		return 0, ErrDuplicateEntryNumber
	}
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetEntry retrieves an entry by ID
func (r *Repository) GetEntry(ctx context.Context, id int) (*models.Entry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return e, err
}

// ListEntries returns all entries of an event ordered by entry number
func (r *Repository) ListEntries(ctx context.Context, eventID int) ([]models.Entry, error) {
	return r.listEntries(ctx, `SELECT `+entryColumns+` FROM entries WHERE event_id = ?
		ORDER BY CAST(entry_number AS INTEGER), entry_number, id`, eventID)
}

// ListActiveEntries returns the active entries of an event
func (r *Repository) ListActiveEntries(ctx context.Context, eventID int) ([]models.Entry, error) {
	return r.listEntries(ctx, `SELECT `+entryColumns+` FROM entries WHERE event_id = ? AND is_active = 1
		ORDER BY CAST(entry_number AS INTEGER), entry_number, id`, eventID)
}

func (r *Repository) listEntries(ctx context.Context, query string, args ...any) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// UpdateEntry updates an entry
func (r *Repository) UpdateEntry(ctx context.Context, e models.Entry) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE entries SET division_id = ?, participant_id = ?, entry_number = ?, name = ?, is_active = ?
		WHERE id = ? AND event_id = ?`,
		e.DivisionID, nullInt(e.ParticipantID), e.EntryNumber, e.Name, e.IsActive, e.ID, e.EventID)
	if isUniqueViolation(err) {
		return ErrDuplicateEntryNumber
	}
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteEntry deletes an entry that has received no votes
func (r *Repository) DeleteEntry(ctx context.Context, eventID, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ? AND event_id = ?`, id, eventID)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ==================== Voting Type Methods ====================

// CreateVotingType creates a voting type with its place table
func (r *Repository) CreateVotingType(ctx context.Context, vt models.VotingType) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO voting_types (name, category, max_selections, points_per_vote, min_rating, max_rating)
			VALUES (?, ?, ?, ?, ?, ?)`,
			vt.Name, string(vt.Category), vt.MaxSelections, vt.PointsPerVote, vt.MinRating, vt.MaxRating)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
		for _, pc := range vt.Places {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO voting_type_places (voting_type_id, place, points) VALUES (?, ?, ?)`,
				id, pc.Place, pc.Points); err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

// GetVotingType retrieves a voting type and its place table
func (r *Repository) GetVotingType(ctx context.Context, id int) (*models.VotingType, error) {
	var vt models.VotingType
	var category string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, category, max_selections, points_per_vote, min_rating, max_rating
		FROM voting_types WHERE id = ?`, id).
		Scan(&vt.ID, &vt.Name, &category, &vt.MaxSelections, &vt.PointsPerVote, &vt.MinRating, &vt.MaxRating)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	vt.Category = models.VotingCategory(category)

	places, err := r.listPlaces(ctx, vt.ID)
	if err != nil {
		return nil, err
	}
	vt.Places = places
	return &vt, nil
}

func (r *Repository) listPlaces(ctx context.Context, votingTypeID int) ([]models.PlaceConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT place, points FROM voting_type_places WHERE voting_type_id = ? ORDER BY place`, votingTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []models.PlaceConfig
	for rows.Next() {
		var pc models.PlaceConfig
		if err := rows.Scan(&pc.Place, &pc.Points); err != nil {
			return nil, err
		}
		places = append(places, pc)
	}
	return places, rows.Err()
}

// ListVotingTypes returns all voting types with their place tables
func (r *Repository) ListVotingTypes(ctx context.Context) ([]models.VotingType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM voting_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows are closed before the per-type queries; there is only one connection.
	types := make([]models.VotingType, 0, len(ids))
	for _, id := range ids {
		vt, err := r.GetVotingType(ctx, id)
		if err != nil {
			return nil, err
		}
		types = append(types, *vt)
	}
	return types, nil
}

// GetEventVotingType returns the voting type configured for an event
func (r *Repository) GetEventVotingType(ctx context.Context, eventID int) (*models.VotingType, error) {
	var votingTypeID int
	err := r.db.QueryRowContext(ctx,
		`SELECT voting_type_id FROM event_voting_configs WHERE event_id = ?`, eventID).Scan(&votingTypeID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetVotingType(ctx, votingTypeID)
}

// DeleteVotingType deletes a voting type that no event uses
func (r *Repository) DeleteVotingType(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM voting_types WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ==================== Judge Methods ====================

// UpsertJudge creates or updates a judge's weight for an event
func (r *Repository) UpsertJudge(ctx context.Context, j models.Judge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO judges (event_id, user_id, name, weight) VALUES (?, ?, ?, ?)
		ON CONFLICT(event_id, user_id) DO UPDATE SET name = excluded.name, weight = excluded.weight`,
		j.EventID, j.UserID, j.Name, j.Weight)
	return err
}

// ListJudges returns an event's judges
func (r *Repository) ListJudges(ctx context.Context, eventID int) ([]models.Judge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT event_id, user_id, name, weight FROM judges WHERE event_id = ? ORDER BY user_id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var judges []models.Judge
	for rows.Next() {
		var j models.Judge
		var name sql.NullString
		if err := rows.Scan(&j.EventID, &j.UserID, &name, &j.Weight); err != nil {
			return nil, err
		}
		j.Name = name.String
		judges = append(judges, j)
	}
	return judges, rows.Err()
}

// DeleteJudge removes a judge from an event
func (r *Repository) DeleteJudge(ctx context.Context, eventID, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM judges WHERE event_id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// GetJudgeWeight returns a user's judge weight for an event, if the user is a judge
func (r *Repository) GetJudgeWeight(ctx context.Context, eventID, userID int) (float64, bool, error) {
	var weight float64
	err := r.db.QueryRowContext(ctx,
		`SELECT weight FROM judges WHERE event_id = ? AND user_id = ?`, eventID, userID).Scan(&weight)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return weight, true, nil
}
