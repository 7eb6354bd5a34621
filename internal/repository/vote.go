package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/abrezinsky/eventvote/internal/models"
)

// ==================== Vote Methods ====================

// HasUserVoted reports whether any vote exists for (event, user)
func (r *Repository) HasUserVoted(ctx context.Context, eventID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM votes WHERE event_id = ? AND user_id = ?)`, eventID, userID).Scan(&exists)
	return exists, err
}

// HasBallot reports whether a ballot exists for (event, user, scope)
func (r *Repository) HasBallot(ctx context.Context, eventID, userID int, scope string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ballots WHERE event_id = ? AND user_id = ? AND scope = ?)`,
		eventID, userID, scope).Scan(&exists)
	return exists, err
}

// CastBallot writes a ballot and all of its votes in one transaction.
//
// The duplicate check runs inside the transaction and the ballots table has a
// unique (event_id, user_id, scope) index, so of two concurrent submissions
// for the same key exactly one commits; the other gets ErrDuplicateBallot.
// A whole-ballot scope also conflicts with any existing vote by the user.
func (r *Repository) CastBallot(ctx context.Context, ballot models.Ballot, votes []models.Vote) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		query := `SELECT EXISTS(SELECT 1 FROM ballots WHERE event_id = ? AND user_id = ? AND scope = ?)`
		args := []any{ballot.EventID, ballot.UserID, ballot.Scope}
		if ballot.Scope == models.ScopeBallot {
			query = `SELECT EXISTS(SELECT 1 FROM ballots WHERE event_id = ? AND user_id = ? AND scope = ?)
				OR EXISTS(SELECT 1 FROM votes WHERE event_id = ? AND user_id = ?)`
			args = append(args, ballot.EventID, ballot.UserID)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrDuplicateBallot
		}

		createdAt := ballot.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ballots (id, event_id, user_id, scope, created_at) VALUES (?, ?, ?, ?, ?)`,
			ballot.ID, ballot.EventID, ballot.UserID, ballot.Scope, createdAt)
		if isUniqueViolation(err) {
			return ErrDuplicateBallot
		}
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO votes (ballot_id, event_id, user_id, entry_id, division_id, place,
				base_points, weight_multiplier, final_points, voter_ip, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, v := range votes {
			if _, err := stmt.ExecContext(ctx, ballot.ID, ballot.EventID, ballot.UserID, v.EntryID, v.DivisionID,
				nullInt(v.Place), v.BasePoints, v.WeightMultiplier, v.FinalPoints, v.VoterIP, createdAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUserVotes returns a user's votes for an event with entry details
func (r *Repository) GetUserVotes(ctx context.Context, eventID, userID int) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.id, v.ballot_id, v.event_id, v.user_id, v.entry_id, v.division_id, v.place,
			v.base_points, v.weight_multiplier, v.final_points, v.voter_ip, v.created_at,
			e.entry_number, e.name
		FROM votes v
		JOIN entries e ON e.id = v.entry_id
		WHERE v.event_id = ? AND v.user_id = ?
		ORDER BY v.place IS NULL, v.place, CAST(e.entry_number AS INTEGER), e.entry_number, v.id`,
		eventID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		var place sql.NullInt64
		var voterIP, entryName sql.NullString
		if err := rows.Scan(&v.ID, &v.BallotID, &v.EventID, &v.UserID, &v.EntryID, &v.DivisionID, &place,
			&v.BasePoints, &v.WeightMultiplier, &v.FinalPoints, &voterIP, &v.CreatedAt,
			&v.EntryNumber, &entryName); err != nil {
			return nil, err
		}
		v.Place = intPtr(place)
		v.VoterIP = voterIP.String
		v.EntryName = entryName.String
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// ==================== Summary Methods ====================

const summarySelect = `
	SELECT v.entry_id, e.event_id, e.division_id,
		SUM(v.final_points), COUNT(*),
		SUM(CASE WHEN v.place = 1 THEN 1 ELSE 0 END),
		SUM(CASE WHEN v.place = 2 THEN 1 ELSE 0 END),
		SUM(CASE WHEN v.place = 3 THEN 1 ELSE 0 END),
		?
	FROM votes v
	JOIN entries e ON e.id = v.entry_id`

const summaryInsert = `INSERT INTO vote_summaries (entry_id, event_id, division_id, total_points, vote_count,
	first_count, second_count, third_count, updated_at)`

// RefreshVoteSummaries recomputes the summary rows of the given entries from the vote ledger
func (r *Repository) RefreshVoteSummaries(ctx context.Context, entryIDs []int) error {
	if len(entryIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range entryIDs {
			if _, err := tx.ExecContext(ctx, `DELETE FROM vote_summaries WHERE entry_id = ?`, id); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				summaryInsert+summarySelect+` WHERE v.entry_id = ? GROUP BY v.entry_id`, now, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// RebuildVoteSummaries discards and recomputes every summary row of an event
func (r *Repository) RebuildVoteSummaries(ctx context.Context, eventID int) error {
	now := time.Now().UTC()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM vote_summaries WHERE event_id = ?`, eventID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			summaryInsert+summarySelect+` WHERE v.event_id = ? GROUP BY v.entry_id`, now, eventID)
		return err
	})
}

// ==================== Results Methods ====================

// ListResults returns the summary rows of an event with entry and division
// details. Entries without votes are excluded. divisionID restricts the rows
// to one division when set.
func (r *Repository) ListResults(ctx context.Context, eventID int, divisionID *int) ([]models.Result, error) {
	query := `
		SELECT s.entry_id, e.entry_number, e.name, s.division_id, d.name,
			s.total_points, s.vote_count, s.first_count, s.second_count, s.third_count
		FROM vote_summaries s
		JOIN entries e ON e.id = s.entry_id
		JOIN divisions d ON d.id = s.division_id
		WHERE s.event_id = ? AND s.vote_count > 0`
	args := []any{eventID}
	if divisionID != nil {
		query += ` AND s.division_id = ?`
		args = append(args, *divisionID)
	}
	query += ` ORDER BY s.total_points DESC, CAST(e.entry_number AS INTEGER), e.entry_number, s.entry_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var res models.Result
		var entryName sql.NullString
		if err := rows.Scan(&res.EntryID, &res.EntryNumber, &entryName, &res.DivisionID, &res.DivisionName,
			&res.TotalPoints, &res.VoteCount, &res.FirstCount, &res.SecondCount, &res.ThirdCount); err != nil {
			return nil, err
		}
		res.EntryName = entryName.String
		results = append(results, res)
	}
	return results, rows.Err()
}
