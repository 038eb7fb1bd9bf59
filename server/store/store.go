package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leaklens/server/silver"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Bronze: files and raw hands
------------------------------*/

type HandFile struct {
	ID          int64
	UserID      int64
	StoragePath string
}

// ClaimHandFiles atomically marks up to limit pending files as processing
// and returns them. SKIP LOCKED keeps concurrent workers off each other's
// claims; files stuck in 'error' are retried.
func (db *DB) ClaimHandFiles(ctx context.Context, limit int) ([]HandFile, error) {
	rows, err := db.Query(ctx, `
        WITH cte AS (
            SELECT id, user_id, storage_path
              FROM hand_files
             WHERE status IN ('new','error')
             ORDER BY created_at
               FOR UPDATE SKIP LOCKED
             LIMIT $1
        )
        UPDATE hand_files h
           SET status = 'processing'
          FROM cte
         WHERE h.id = cte.id
        RETURNING h.id, cte.user_id, cte.storage_path
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HandFile
	for rows.Next() {
		var f HandFile
		if err := rows.Scan(&f.ID, &f.UserID, &f.StoragePath); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SetFileStatus records the processing outcome. errText is truncated to fit
// the column; pass "" on success.
func (db *DB) SetFileStatus(ctx context.Context, fileID int64, status, errText string) error {
	if errText == "" {
		_, err := db.Exec(ctx, `UPDATE hand_files SET status = $2, error = NULL WHERE id = $1`, fileID, status)
		return err
	}
	if len(errText) > 250 {
		errText = errText[:250]
	}
	_, err := db.Exec(ctx, `UPDATE hand_files SET status = $2, error = $3 WHERE id = $1`, fileID, status, errText)
	return err
}

// InsertHands bulk-inserts split hand blocks for one user, atomically.
func (db *DB) InsertHands(ctx context.Context, userID int64, blocks []string) (int, error) {
	if len(blocks) == 0 {
		return 0, nil
	}
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // safe if already committed

	for _, b := range blocks {
		if _, err := tx.Exec(ctx, `
            INSERT INTO hands(user_id, source_used, raw_text)
            VALUES ($1, 'upload', $2)
        `, userID, b); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(blocks), nil
}

/* -----------------------------
   Replayer stage
------------------------------*/

type UnparsedHand struct {
	ID      int64
	RawText string
}

func (db *DB) HandsNeedingReplayer(ctx context.Context, limit int) ([]UnparsedHand, error) {
	rows, err := db.Query(ctx, `
        SELECT id, raw_text
          FROM hands
         WHERE replayer_data IS NULL
           AND raw_text IS NOT NULL
         ORDER BY id
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UnparsedHand
	for rows.Next() {
		var h UnparsedHand
		if err := rows.Scan(&h.ID, &h.RawText); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ReplayerUpdate carries the parse results back into the bronze row.
type ReplayerUpdate struct {
	HandID   int64
	Replayer json.RawMessage
	Position string
	Cards    string
	Board    string
	Stakes   string
	Date     *time.Time
}

func (db *DB) UpdateReplayerData(ctx context.Context, u ReplayerUpdate) error {
	_, err := db.Exec(ctx, `
        UPDATE hands
           SET replayer_data = $2,
               position = NULLIF($3, ''),
               cards    = NULLIF($4, ''),
               board    = NULLIF($5, ''),
               stakes   = NULLIF($6, ''),
               date     = COALESCE($7, date)
         WHERE id = $1
    `, u.HandID, u.Replayer, u.Position, u.Cards, u.Board, u.Stakes, u.Date)
	return err
}

/* -----------------------------
   Coach stage
------------------------------*/

type CoachHand struct {
	ID       int64
	UserID   int64
	RawText  string
	Position *string
	Cards    *string
	Board    *string
	Stakes   *string
	Replayer json.RawMessage
}

func (db *DB) HandsForCoaching(ctx context.Context, limit int) ([]CoachHand, error) {
	rows, err := db.Query(ctx, `
        SELECT id, user_id, raw_text, position, cards, board, stakes, replayer_data
          FROM hands
         WHERE gto_strategy IS NULL
           AND raw_text IS NOT NULL
         ORDER BY COALESCE(date, created_at), id
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CoachHand
	for rows.Next() {
		var h CoachHand
		if err := rows.Scan(&h.ID, &h.UserID, &h.RawText, &h.Position, &h.Cards, &h.Board, &h.Stakes, &h.Replayer); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CoachUpdate stores the coach's review. HeroPosition overrides the parser's
// estimate when the coach is confident about it.
type CoachUpdate struct {
	HandID           int64
	GTOStrategy      string
	ExploitDeviation string
	LearningTags     []string
	HeroPosition     string
	ExploitSignals   json.RawMessage
}

func (db *DB) UpdateHandCoach(ctx context.Context, u CoachUpdate) error {
	var signals any
	if len(u.ExploitSignals) > 0 {
		signals = u.ExploitSignals
	}
	_, err := db.Exec(ctx, `
        UPDATE hands
           SET gto_strategy = $2,
               exploit_deviation = NULLIF($3, ''),
               learning_tag = $4,
               hero_position = COALESCE(NULLIF($5, ''), hero_position),
               position = COALESCE(NULLIF($5, ''), position),
               exploit_signals = $6
         WHERE id = $1
    `, u.HandID, u.GTOStrategy, u.ExploitDeviation, u.LearningTags, u.HeroPosition, signals)
	return err
}

/* -----------------------------
   Silver stage
------------------------------*/

// HandsForSilver returns coached hands that have no silver row yet.
func (db *DB) HandsForSilver(ctx context.Context, limit int) ([]silver.HandRow, error) {
	rows, err := db.Query(ctx, `
        SELECT h.id, h.user_id, COALESCE(h.date, h.created_at),
               COALESCE(h.stakes, ''), COALESCE(h.position, ''), COALESCE(h.cards, ''),
               COALESCE(h.board, ''), COALESCE(h.raw_text, ''), COALESCE(h.hand_class, ''),
               COALESCE(h.gto_strategy, ''), COALESCE(h.exploit_deviation, ''),
               COALESCE(h.learning_tag, '{}')
          FROM hands h
          LEFT JOIN hands_silver s ON s.hand_id = h.id
         WHERE s.hand_id IS NULL
           AND h.gto_strategy IS NOT NULL
         ORDER BY COALESCE(h.date, h.created_at), h.id
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []silver.HandRow
	for rows.Next() {
		var h silver.HandRow
		var date time.Time
		if err := rows.Scan(&h.HandID, &h.UserID, &date, &h.Stakes, &h.Position, &h.Cards,
			&h.Board, &h.RawText, &h.HandClass, &h.GTOStrategy, &h.ExploitDeviation, &h.LearningTags); err != nil {
			return nil, err
		}
		h.HandDate = &date
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpsertSilver writes one fully derived silver row; reprocessing a hand
// replaces all derived columns.
func (db *DB) UpsertSilver(ctx context.Context, r silver.Row) error {
	_, err := db.Exec(ctx, `
        INSERT INTO hands_silver (
            hand_id, user_id, hand_date, stakes_raw, small_blind, big_blind,
            position_raw, position_norm, cards, flop_cards, turn_card, river_card,
            board, hand_class, gto_strategy, exploit_deviation, learning_tag,
            hero_position, preflop_call, site, game_type, table_size,
            street_reached, result_amount, result_bb,
            preflop_open, preflop_3bet, preflop_4bet, all_in, currency, parsed_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,
            $7,$8,$9,$10,$11,$12,
            $13,$14,$15,$16,$17,
            $18,$19,$20,$21,$22,
            $23,$24,$25,
            $26,$27,$28,$29,$30,$31
        )
        ON CONFLICT (hand_id) DO UPDATE SET
            user_id           = EXCLUDED.user_id,
            hand_date         = EXCLUDED.hand_date,
            stakes_raw        = EXCLUDED.stakes_raw,
            small_blind       = EXCLUDED.small_blind,
            big_blind         = EXCLUDED.big_blind,
            position_raw      = EXCLUDED.position_raw,
            position_norm     = EXCLUDED.position_norm,
            cards             = EXCLUDED.cards,
            flop_cards        = EXCLUDED.flop_cards,
            turn_card         = EXCLUDED.turn_card,
            river_card        = EXCLUDED.river_card,
            board             = EXCLUDED.board,
            hand_class        = EXCLUDED.hand_class,
            gto_strategy      = EXCLUDED.gto_strategy,
            exploit_deviation = EXCLUDED.exploit_deviation,
            learning_tag      = EXCLUDED.learning_tag,
            hero_position     = EXCLUDED.hero_position,
            preflop_call      = EXCLUDED.preflop_call,
            site              = EXCLUDED.site,
            game_type         = EXCLUDED.game_type,
            table_size        = EXCLUDED.table_size,
            street_reached    = EXCLUDED.street_reached,
            result_amount     = EXCLUDED.result_amount,
            result_bb         = EXCLUDED.result_bb,
            preflop_open      = EXCLUDED.preflop_open,
            preflop_3bet      = EXCLUDED.preflop_3bet,
            preflop_4bet      = EXCLUDED.preflop_4bet,
            all_in            = EXCLUDED.all_in,
            currency          = EXCLUDED.currency,
            parsed_at         = EXCLUDED.parsed_at
    `,
		r.HandID, r.UserID, r.HandDate, nilIfEmpty(r.StakesRaw), r.SmallBlind, r.BigBlind,
		nilIfEmpty(r.PositionRaw), nilIfEmpty(r.PositionNorm), nilIfEmpty(r.Cards),
		nilIfEmpty(r.FlopCards), nilIfEmpty(r.TurnCard), nilIfEmpty(r.RiverCard),
		nilIfEmpty(r.Board), nilIfEmpty(r.HandClass), nilIfEmpty(r.GTOStrategy),
		nilIfEmpty(r.ExploitDeviation), r.LearningTags,
		nilIfEmpty(r.HeroPosition), r.PreflopCall, nilIfEmpty(r.Site), r.GameType, r.TableSize,
		r.StreetReached, r.ResultAmount, r.ResultBB,
		r.PreflopOpen, r.Preflop3Bet, r.Preflop4Bet, r.AllIn, nilIfEmpty(r.Currency), r.ParsedAt,
	)
	return err
}

/* -----------------------------
   Study stage
------------------------------*/

// StudyHand is a silver row ready for indexing.
type StudyHand struct {
	HandID           int64
	UserID           int64
	StakesBucket     string
	StakesRaw        string
	PositionNorm     string
	HeroPosition     string
	Site             string
	StreetReached    string
	GTOStrategy      string
	ExploitDeviation string
	LearningTags     []string
}

// SilverForStudy returns coached silver rows not yet present in study_chunks.
func (db *DB) SilverForStudy(ctx context.Context, limit int) ([]StudyHand, error) {
	rows, err := db.Query(ctx, `
        SELECT hs.hand_id, hs.user_id,
               COALESCE(hs.stakes_bucket, ''), COALESCE(hs.stakes_raw, ''),
               COALESCE(hs.position_norm, ''),
               COALESCE(hs.hero_position, ''), COALESCE(hs.site, ''),
               COALESCE(hs.street_reached, ''),
               COALESCE(hs.gto_strategy, ''), COALESCE(hs.exploit_deviation, ''),
               COALESCE(hs.learning_tag, '{}')
          FROM hands_silver hs
          LEFT JOIN study_chunks sc
            ON sc.source = 'hand' AND sc.ref_id = hs.hand_id::text
         WHERE hs.gto_strategy IS NOT NULL
           AND hs.learning_tag IS NOT NULL
           AND sc.id IS NULL
         ORDER BY hs.hand_date NULLS LAST, hs.hand_id
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StudyHand
	for rows.Next() {
		var h StudyHand
		if err := rows.Scan(&h.HandID, &h.UserID, &h.StakesBucket, &h.StakesRaw, &h.PositionNorm,
			&h.HeroPosition, &h.Site, &h.StreetReached,
			&h.GTOStrategy, &h.ExploitDeviation, &h.LearningTags); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type StudyChunk struct {
	UserID       int64
	RefID        string
	Content      string
	Tokens       int
	StakesBucket string
	PositionNorm string
	Street       string
	Tags         []string
	Embedding    []float64
}

func (db *DB) InsertStudyChunk(ctx context.Context, c StudyChunk) error {
	_, err := db.Exec(ctx, `
        INSERT INTO study_chunks (
            user_id, source, ref_id, content, tokens,
            stakes_bucket, position_norm, street, tags, embedding
        ) VALUES ($1, 'hand', $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (source, ref_id) DO NOTHING
    `, c.UserID, c.RefID, c.Content, c.Tokens,
		nilIfEmpty(c.StakesBucket), nilIfEmpty(c.PositionNorm), nilIfEmpty(c.Street), c.Tags, c.Embedding)
	return err
}

/* -----------------------------
   Read API
------------------------------*/

// HandSummary is the listing row for the read API.
type HandSummary struct {
	ID           int64      `json:"id"`
	Stakes       *string    `json:"stakes"`
	Position     *string    `json:"position"`
	Cards        *string    `json:"cards"`
	Board        *string    `json:"board"`
	GTOStrategy  *string    `json:"gto_strategy"`
	LearningTags []string   `json:"learning_tag"`
	Date         *time.Time `json:"date"`
}

func (db *DB) RecentHands(ctx context.Context, userID int64, limit int) ([]HandSummary, error) {
	rows, err := db.Query(ctx, `
        SELECT id, stakes, position, cards, board, gto_strategy, learning_tag, date
          FROM hands
         WHERE user_id = $1
         ORDER BY COALESCE(date, created_at) DESC, id DESC
         LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HandSummary
	for rows.Next() {
		var h HandSummary
		if err := rows.Scan(&h.ID, &h.Stakes, &h.Position, &h.Cards, &h.Board,
			&h.GTOStrategy, &h.LearningTags, &h.Date); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// HandReplayer returns the stored replayer JSON for one hand, or pgx.ErrNoRows.
func (db *DB) HandReplayer(ctx context.Context, handID int64) (json.RawMessage, error) {
	var data json.RawMessage
	err := db.QueryRow(ctx, `
        SELECT replayer_data FROM hands WHERE id = $1 AND replayer_data IS NOT NULL
    `, handID).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LeakSamples maps each learning tag to the per-hand results (in big blinds)
// of the hands that carry it. The caller turns these into confidence
// intervals.
func (db *DB) LeakSamples(ctx context.Context, userID int64) (map[string][]float64, error) {
	rows, err := db.Query(ctx, `
        SELECT t.tag, hs.result_bb
          FROM hands_silver hs,
               LATERAL unnest(hs.learning_tag) AS t(tag)
         WHERE hs.user_id = $1
           AND hs.result_bb IS NOT NULL
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]float64)
	for rows.Next() {
		var tag string
		var bb float64
		if err := rows.Scan(&tag, &bb); err != nil {
			return nil, err
		}
		out[tag] = append(out[tag], bb)
	}
	return out, rows.Err()
}

// IsNotFound reports whether err is the no-rows case.
func IsNotFound(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
