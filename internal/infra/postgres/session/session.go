package infra_postgres_session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/reelmatch/core/internal/model"
	"github.com/reelmatch/core/internal/service/ranking"
)

// Driver is the durable home of sessions, rosters and vote maps. Every
// mutation is a conditional update executed in one transaction: transitions
// lock the session row FOR UPDATE, vote writes take FOR SHARE, so votes do
// not serialize against each other but can never slip past a transition.
type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type sessionDTO struct {
	ID              uuid.UUID      `db:"id"`
	Code            string         `db:"code"`
	HostID          uuid.UUID      `db:"host_id"`
	Status          string         `db:"status"`
	MediaFilter     string         `db:"media_filter"`
	ProviderRegion  string         `db:"provider_region"`
	MinParticipants int            `db:"min_participants"`
	FinalistIDs     pq.StringArray `db:"finalist_ids"`
	FinalPickID     sql.NullString `db:"final_pick_title_id"`
	CreatedAt       time.Time      `db:"created_at"`
}

type participantDTO struct {
	ID          uuid.UUID      `db:"id"`
	SessionID   uuid.UUID      `db:"session_id"`
	DisplayName string         `db:"display_name"`
	ProviderIDs pq.StringArray `db:"provider_ids"`
	JoinedAt    time.Time      `db:"joined_at"`
}

type poolItemDTO struct {
	TitleID    string         `db:"title_id"`
	MediaType  string         `db:"media_type"`
	Position   int            `db:"position"`
	Title      string         `db:"title"`
	PosterLink string         `db:"poster_link"`
	Rating     float64        `db:"rating"`
	Year       int            `db:"year"`
	Genres     pq.StringArray `db:"genres"`
}

type voteDTO struct {
	ParticipantID uuid.UUID `db:"participant_id"`
	VoteKey       string    `db:"vote_key"`
	Vote          string    `db:"vote"`
}

type finalVoteDTO struct {
	ParticipantID uuid.UUID `db:"participant_id"`
	TitleID       string    `db:"title_id"`
}

func (d *Driver) CreateSession(ctx context.Context, session model.Session, host model.Participant) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO sessions (id, code, host_id, status, media_filter, provider_region, min_participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query,
		session.ID, session.Code, session.HostID, session.Status,
		session.Config.MediaFilter, session.Config.ProviderRegion, session.Config.MinParticipants,
	)
	if err != nil {
		// Partial unique index: codes clash only among non-completed sessions.
		if strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key") {
			return model.ErrCodeConflict
		}
		return storeErr(err)
	}

	if err := insertParticipant(ctx, tx, session.ID, host); err != nil {
		return storeErr(err)
	}

	return storeErr(tx.Commit())
}

func (d *Driver) JoinSession(ctx context.Context, code string, participant model.Participant) (model.Session, []model.Participant, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Session{}, nil, storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	var head struct {
		ID     uuid.UUID `db:"id"`
		Status string    `db:"status"`
	}
	query := `
		SELECT id, status FROM sessions
		WHERE code = $1 AND status <> $2
		FOR UPDATE
	`
	if err := tx.GetContext(ctx, &head, query, code, model.StatusCompleted); err != nil {
		if err == sql.ErrNoRows {
			return model.Session{}, nil, model.ErrNotFound
		}
		return model.Session{}, nil, storeErr(err)
	}

	if head.Status != model.StatusLobby {
		return model.Session{}, nil, model.ErrInvalidPhase
	}

	// ON CONFLICT DO NOTHING keeps the join idempotent: a returning
	// participant never grows the roster.
	if err := insertParticipant(ctx, tx, head.ID, participant); err != nil {
		return model.Session{}, nil, storeErr(err)
	}

	session, err := loadSession(ctx, tx, head.ID)
	if err != nil {
		return model.Session{}, nil, storeErr(err)
	}
	roster, err := selectParticipants(ctx, tx, head.ID)
	if err != nil {
		return model.Session{}, nil, storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return model.Session{}, nil, storeErr(err)
	}
	return session, roster, nil
}

func (d *Driver) SessionByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	session, err := loadSession(ctx, d.db, id)
	return session, storeErr(err)
}

func (d *Driver) Participants(ctx context.Context, id uuid.UUID) ([]model.Participant, error) {
	roster, err := selectParticipants(ctx, d.db, id)
	return roster, storeErr(err)
}

func (d *Driver) FreezePool(ctx context.Context, id uuid.UUID, pool []model.PoolItem) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	var head struct {
		Status          string `db:"status"`
		MinParticipants int    `db:"min_participants"`
	}
	if err := tx.GetContext(ctx, &head, `SELECT status, min_participants FROM sessions WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return model.ErrNotFound
		}
		return storeErr(err)
	}
	if head.Status != model.StatusLobby {
		return model.ErrInvalidPhase
	}

	var joined int
	if err := tx.GetContext(ctx, &joined, `SELECT COUNT(id) FROM participants WHERE session_id = $1`, id); err != nil {
		return storeErr(err)
	}
	if joined < head.MinParticipants {
		return model.ErrNotEnough
	}

	insert := `
		INSERT INTO pool_items (session_id, position, title_id, media_type, title, poster_link, rating, year, genres)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, item := range pool {
		_, err := tx.ExecContext(ctx, insert,
			id, item.Position, item.TitleID, item.MediaType, item.Title,
			item.PosterLink, item.Rating, item.Year, pq.StringArray(item.Genres),
		)
		if err != nil {
			return storeErr(err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET status = $1 WHERE id = $2`, model.StatusPoolReady, id); err != nil {
		return storeErr(err)
	}

	return storeErr(tx.Commit())
}

func (d *Driver) AdvanceStatus(ctx context.Context, id uuid.UUID, from, to model.SessionStatus) error {
	result, err := d.db.ExecContext(ctx, `UPDATE sessions SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return storeErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if affected == 0 {
		return model.ErrPhaseConflict
	}
	return nil
}

// PromoteFinalists moves swiping -> final_voting. The FOR UPDATE lock keeps
// the vote set frozen underneath the ranking: vote writes hold FOR SHARE and
// wait their turn, then see final_voting and get rejected.
func (d *Driver) PromoteFinalists(ctx context.Context, id uuid.UUID) (model.Session, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Session{}, storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	status, err := lockSession(ctx, tx, id)
	if err != nil {
		return model.Session{}, storeErr(err)
	}
	if status != model.StatusSwiping {
		return model.Session{}, model.ErrInvalidPhase
	}

	pool, err := selectPool(ctx, tx, id)
	if err != nil {
		return model.Session{}, storeErr(err)
	}
	votes, err := selectVotes(ctx, tx, id)
	if err != nil {
		return model.Session{}, storeErr(err)
	}

	finalists := ranking.SelectFinalists(pool, votes)
	ids := make(pq.StringArray, 0, len(finalists))
	for _, f := range finalists {
		ids = append(ids, f.TitleID)
	}

	query := `UPDATE sessions SET status = $1, finalist_ids = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, model.StatusFinalVoting, ids, id); err != nil {
		return model.Session{}, storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return model.Session{}, storeErr(err)
	}
	return d.SessionByID(ctx, id)
}

// CompleteSession moves final_voting -> completed and resolves the winner.
// Safe on a partial final vote set (host override, stalled session).
func (d *Driver) CompleteSession(ctx context.Context, id uuid.UUID) (model.Session, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Session{}, storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	status, err := lockSession(ctx, tx, id)
	if err != nil {
		return model.Session{}, storeErr(err)
	}
	if status != model.StatusFinalVoting {
		return model.Session{}, model.ErrInvalidPhase
	}

	var finalistIDs pq.StringArray
	if err := tx.GetContext(ctx, &finalistIDs, `SELECT finalist_ids FROM sessions WHERE id = $1`, id); err != nil {
		return model.Session{}, storeErr(err)
	}
	pool, err := selectPool(ctx, tx, id)
	if err != nil {
		return model.Session{}, storeErr(err)
	}
	finalVotes, err := selectFinalVotes(ctx, tx, id)
	if err != nil {
		return model.Session{}, storeErr(err)
	}

	finalists := make([]model.PoolItem, 0, len(finalistIDs))
	for _, fid := range finalistIDs {
		for _, item := range pool {
			if item.TitleID == fid {
				finalists = append(finalists, item)
				break
			}
		}
	}

	winner, ok := ranking.ResolveWinner(finalists, finalVotes)
	if !ok {
		// final_voting with no stored finalists means the promote write
		// was broken, not a caller mistake.
		return model.Session{}, errNoFinalists
	}

	query := `UPDATE sessions SET status = $1, final_pick_title_id = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, model.StatusCompleted, winner.TitleID, id); err != nil {
		return model.Session{}, storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return model.Session{}, storeErr(err)
	}
	return d.SessionByID(ctx, id)
}

func (d *Driver) ApplyVote(ctx context.Context, sessionID, participantID uuid.UUID, key string, vote model.Vote) (int, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	if err := tx.GetContext(ctx, &status, `SELECT status FROM sessions WHERE id = $1 FOR SHARE`, sessionID); err != nil {
		if err == sql.ErrNoRows {
			return 0, model.ErrNotFound
		}
		return 0, storeErr(err)
	}
	if status != model.StatusSwiping {
		return 0, model.ErrInvalidPhase
	}

	if err := requireParticipant(ctx, tx, sessionID, participantID); err != nil {
		return 0, storeErr(err)
	}

	var inPool bool
	poolCheck := `
		SELECT EXISTS(
			SELECT 1 FROM pool_items
			WHERE session_id = $1 AND title_id || ':' || media_type = $2
		)
	`
	if err := tx.GetContext(ctx, &inPool, poolCheck, sessionID, key); err != nil {
		return 0, storeErr(err)
	}
	if !inPool {
		return 0, model.ErrInvalidInput
	}

	// Each write touches one leaf only; concurrent participants and
	// concurrent keys never clobber each other.
	upsert := `
		INSERT INTO votes (session_id, participant_id, vote_key, vote)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, participant_id, vote_key)
		DO UPDATE SET vote = EXCLUDED.vote
	`
	if _, err := tx.ExecContext(ctx, upsert, sessionID, participantID, key, vote); err != nil {
		return 0, storeErr(err)
	}

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(vote_key) FROM votes WHERE session_id = $1 AND participant_id = $2`, sessionID, participantID); err != nil {
		return 0, storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

func (d *Driver) SwipeProgress(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]int, int, error) {
	var rows []struct {
		ParticipantID uuid.UUID `db:"participant_id"`
		Count         int       `db:"count"`
	}
	query := `
		SELECT p.id AS participant_id, COUNT(v.vote_key) AS count
		FROM participants p
		LEFT JOIN votes v ON v.session_id = p.session_id AND v.participant_id = p.id
		WHERE p.session_id = $1
		GROUP BY p.id
	`
	if err := d.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, 0, storeErr(err)
	}

	var poolSize int
	if err := d.db.GetContext(ctx, &poolSize, `SELECT COUNT(title_id) FROM pool_items WHERE session_id = $1`, sessionID); err != nil {
		return nil, 0, storeErr(err)
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		counts[r.ParticipantID] = r.Count
	}
	return counts, poolSize, nil
}

func (d *Driver) ApplyFinalVote(ctx context.Context, sessionID, participantID uuid.UUID, titleID string) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	var head struct {
		Status      string         `db:"status"`
		FinalistIDs pq.StringArray `db:"finalist_ids"`
	}
	if err := tx.GetContext(ctx, &head, `SELECT status, finalist_ids FROM sessions WHERE id = $1 FOR SHARE`, sessionID); err != nil {
		if err == sql.ErrNoRows {
			return model.ErrNotFound
		}
		return storeErr(err)
	}
	if head.Status != model.StatusFinalVoting {
		return model.ErrInvalidPhase
	}

	if err := requireParticipant(ctx, tx, sessionID, participantID); err != nil {
		return storeErr(err)
	}

	if !ranking.IsFinalist(head.FinalistIDs, titleID) {
		return model.ErrInvalidChoice
	}

	upsert := `
		INSERT INTO final_votes (session_id, participant_id, title_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, participant_id)
		DO UPDATE SET title_id = EXCLUDED.title_id
	`
	if _, err := tx.ExecContext(ctx, upsert, sessionID, participantID, titleID); err != nil {
		return storeErr(err)
	}

	return storeErr(tx.Commit())
}

func (d *Driver) FinalVoteProgress(ctx context.Context, sessionID uuid.UUID) (int, int, error) {
	var progress struct {
		Voted int `db:"voted"`
		Total int `db:"total"`
	}
	query := `
		SELECT COUNT(f.participant_id) AS voted, COUNT(p.id) AS total
		FROM participants p
		LEFT JOIN final_votes f ON f.session_id = p.session_id AND f.participant_id = p.id
		WHERE p.session_id = $1
	`
	if err := d.db.GetContext(ctx, &progress, query, sessionID); err != nil {
		return 0, 0, storeErr(err)
	}
	return progress.Voted, progress.Total, nil
}

// errNoFinalists marks a final_voting session whose finalist set never got
// stored. Unlike a phase error it is not resolvable by the caller.
var errNoFinalists = errors.New("no finalists stored for session")

// storeErr tags connection-level failures so callers can answer 503 instead
// of a blanket 500. Logical errors pass through unchanged.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return errors.Join(model.ErrUnavailable, err)
	}
	return err
}

func insertParticipant(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID, p model.Participant) error {
	query := `
		INSERT INTO participants (id, session_id, display_name, provider_ids)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, id) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, p.ID, sessionID, p.DisplayName, pq.StringArray(p.ProviderIDs))
	return err
}

func requireParticipant(ctx context.Context, tx *sqlx.Tx, sessionID, participantID uuid.UUID) error {
	var isParticipant bool
	query := `SELECT EXISTS(SELECT 1 FROM participants WHERE session_id = $1 AND id = $2)`
	if err := tx.GetContext(ctx, &isParticipant, query, sessionID, participantID); err != nil {
		return err
	}
	if !isParticipant {
		return model.ErrForbidden
	}
	return nil
}

func lockSession(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (string, error) {
	var status string
	if err := tx.GetContext(ctx, &status, `SELECT status FROM sessions WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return "", model.ErrNotFound
		}
		return "", err
	}
	return status, nil
}

type queryer interface {
	sqlx.QueryerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func loadSession(ctx context.Context, q queryer, id uuid.UUID) (model.Session, error) {
	var dto sessionDTO
	query := `
		SELECT id, code, host_id, status, media_filter, provider_region,
		       min_participants, finalist_ids, final_pick_title_id, created_at
		FROM sessions WHERE id = $1
	`
	if err := q.GetContext(ctx, &dto, query, id); err != nil {
		if err == sql.ErrNoRows {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, err
	}

	pool, err := selectPool(ctx, q, id)
	if err != nil {
		return model.Session{}, err
	}
	votes, err := selectVotes(ctx, q, id)
	if err != nil {
		return model.Session{}, err
	}
	finalVotes, err := selectFinalVotes(ctx, q, id)
	if err != nil {
		return model.Session{}, err
	}

	session := model.Session{
		ID:     dto.ID,
		Code:   dto.Code,
		HostID: dto.HostID,
		Status: dto.Status,
		Config: model.SessionConfig{
			MediaFilter:     dto.MediaFilter,
			ProviderRegion:  dto.ProviderRegion,
			MinParticipants: dto.MinParticipants,
		},
		Pool:        pool,
		Votes:       votes,
		FinalVotes:  finalVotes,
		FinalistIDs: dto.FinalistIDs,
		CreatedAt:   dto.CreatedAt,
	}

	if dto.FinalPickID.Valid {
		for _, item := range pool {
			if item.TitleID == dto.FinalPickID.String {
				pick := item
				session.FinalPick = &pick
				break
			}
		}
	}

	return session, nil
}

func selectPool(ctx context.Context, q queryer, id uuid.UUID) ([]model.PoolItem, error) {
	var dtos []poolItemDTO
	query := `
		SELECT title_id, media_type, position, title, poster_link, rating, year, genres
		FROM pool_items
		WHERE session_id = $1
		ORDER BY position
	`
	if err := q.SelectContext(ctx, &dtos, query, id); err != nil {
		return nil, err
	}

	pool := make([]model.PoolItem, 0, len(dtos))
	for _, dto := range dtos {
		pool = append(pool, model.PoolItem{
			TitleID:    dto.TitleID,
			MediaType:  dto.MediaType,
			Position:   dto.Position,
			Title:      dto.Title,
			PosterLink: dto.PosterLink,
			Rating:     dto.Rating,
			Year:       dto.Year,
			Genres:     []string(dto.Genres),
		})
	}
	return pool, nil
}

func selectVotes(ctx context.Context, q queryer, id uuid.UUID) (map[uuid.UUID]map[string]model.Vote, error) {
	var dtos []voteDTO
	query := `SELECT participant_id, vote_key, vote FROM votes WHERE session_id = $1`
	if err := q.SelectContext(ctx, &dtos, query, id); err != nil {
		return nil, err
	}

	votes := make(map[uuid.UUID]map[string]model.Vote)
	for _, dto := range dtos {
		if votes[dto.ParticipantID] == nil {
			votes[dto.ParticipantID] = make(map[string]model.Vote)
		}
		votes[dto.ParticipantID][dto.VoteKey] = dto.Vote
	}
	return votes, nil
}

func selectFinalVotes(ctx context.Context, q queryer, id uuid.UUID) (map[uuid.UUID]string, error) {
	var dtos []finalVoteDTO
	query := `SELECT participant_id, title_id FROM final_votes WHERE session_id = $1`
	if err := q.SelectContext(ctx, &dtos, query, id); err != nil {
		return nil, err
	}

	finalVotes := make(map[uuid.UUID]string, len(dtos))
	for _, dto := range dtos {
		finalVotes[dto.ParticipantID] = dto.TitleID
	}
	return finalVotes, nil
}

func selectParticipants(ctx context.Context, q queryer, id uuid.UUID) ([]model.Participant, error) {
	var dtos []participantDTO
	query := `
		SELECT id, session_id, display_name, provider_ids, joined_at
		FROM participants
		WHERE session_id = $1
		ORDER BY joined_at
	`
	if err := q.SelectContext(ctx, &dtos, query, id); err != nil {
		return nil, err
	}

	participants := make([]model.Participant, 0, len(dtos))
	for _, dto := range dtos {
		participants = append(participants, model.Participant{
			ID:          dto.ID,
			SessionID:   dto.SessionID,
			DisplayName: dto.DisplayName,
			ProviderIDs: []string(dto.ProviderIDs),
			JoinedAt:    dto.JoinedAt,
		})
	}
	return participants, nil
}
