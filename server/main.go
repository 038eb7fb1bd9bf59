package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"leaklens/server/coach"
	"leaklens/server/fetch"
	"leaklens/server/handparse"
	"leaklens/server/silver"
	"leaklens/server/store"
	"leaklens/server/study"
)

var mainLogger = log.With().Str("logger_name", "server::main").Logger()

//
// ===== bootstrap =====
//

func mustEnv(keys ...string) {
	for _, k := range keys {
		if os.Getenv(k) == "" {
			mainLogger.Fatal().Msgf("Missing required env var %s. Put it in .env (dev) or set it on the host (prod).", k)
		}
	}
}
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

var stopFlag atomic.Bool

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	stopFlag.Store(true)
	cancel()
}

func main() {
	_ = godotenv.Load()

	if lvl, err := zerolog.ParseLevel(strings.ToLower(getenv("LOG_LEVEL", "info"))); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var migrate, serve, once, loop bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--serve":
			serve = true
		case "--once":
			once = true
		case "--loop":
			loop = true
		}
	}
	if !migrate && !once && !loop {
		serve = true
	}

	mustEnv("DATABASE_URL")
	dsn := getenv("DATABASE_URL", "")

	db, err := store.Open(dsn)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	if migrate || asBool(os.Getenv("AUTO_MIGRATE")) {
		if err := store.Migrate(ctx, db); err != nil {
			mainLogger.Fatal().Err(err).Msg("migrate failed")
		}
		mainLogger.Info().Msg("migrated")
		if migrate {
			return
		}
	}

	maxSeconds := atoiDef(os.Getenv("MAX_SECONDS"), 0)
	stopFile := os.Getenv("STOP_FILE")

	var deadline time.Time
	if maxSeconds > 0 {
		deadline = time.Now().Add(time.Duration(maxSeconds) * time.Second)
	}
	checkStop := func() bool {
		select {
		case <-ctx.Done():
			stopFlag.Store(true)
		default:
		}
		if stopFlag.Load() {
			return true
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			stopFlag.Store(true)
			return true
		}
		if stopFile != "" {
			if _, err := os.Stat(stopFile); err == nil {
				stopFlag.Store(true)
				return true
			}
		}
		return false
	}

	if once || loop {
		p := newPipeline(db)
		interval := time.Duration(atoiDef(os.Getenv("PIPELINE_INTERVAL_SECONDS"), 60)) * time.Second
		for {
			if err := p.run(ctx, checkStop); err != nil {
				mainLogger.Error().Err(err).Msg("pipeline pass failed")
				if once {
					os.Exit(1)
				}
			}
			if once || checkStop() {
				return
			}
			mainLogger.Info().Dur("sleep", interval).Msg("pipeline pass complete")
			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
		}
	}

	if serve {
		port := getenv("PORT", "8080")
		srv := &http.Server{Addr: ":" + port, Handler: Router(db), ReadTimeout: 15 * time.Second, WriteTimeout: 15 * time.Second}
		mainLogger.Info().Str("port", port).Msg("listening")
		mainLogger.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
	}
}

//
// ===== pipeline =====
//

// pipeline runs the staged hand-history flow: ingest uploaded files into
// bronze rows, parse them into replayer states, send annotated hands to the
// coach, derive silver analytics columns, and index coached hands for study
// search. Stages run in order; each drains its queue in batches.
type pipeline struct {
	db *store.DB

	coachClient *coach.Client
	embedder    *study.Embedder

	fileBatch    int
	replayBatch  int
	coachBatch   int
	silverBatch  int
	studyBatch   int
	parseWorkers int
}

func newPipeline(db *store.DB) *pipeline {
	p := &pipeline{
		db:           db,
		fileBatch:    atoiDef(os.Getenv("HAND_FILES_BATCH"), 5),
		replayBatch:  atoiDef(os.Getenv("REPLAYER_BATCH_SIZE"), 50),
		coachBatch:   atoiDef(os.Getenv("COACH_BATCH_SIZE"), 30),
		silverBatch:  atoiDef(os.Getenv("SILVER_BATCH_SIZE"), 100),
		studyBatch:   atoiDef(os.Getenv("STUDY_BATCH_SIZE"), 20),
		parseWorkers: atoiDef(os.Getenv("PARSE_WORKERS"), 8),
	}
	if c, err := coach.NewFromEnv(); err == nil {
		p.coachClient = c
	} else {
		mainLogger.Warn().Err(err).Msg("coach stage disabled")
	}
	if e, err := study.NewEmbedderFromEnv(); err == nil {
		p.embedder = e
	} else {
		mainLogger.Warn().Err(err).Msg("study stage disabled")
	}
	return p
}

// maxStageLoops caps how many batches a stage may drain in one pass so a
// misbehaving stage cannot starve the ones after it.
const maxStageLoops = 50

func (p *pipeline) run(ctx context.Context, checkStop func() bool) error {
	stages := []struct {
		name     string
		fn       func(ctx context.Context) (int, error)
		maxLoops int
	}{
		{"ingest", p.ingestFiles, maxStageLoops},
		{"replayer", p.parseReplayer, maxStageLoops},
		{"coach", p.coachHands, maxStageLoops},
		{"silver", p.buildSilver, maxStageLoops},
		{"study", p.indexStudy, 10},
	}
	for _, s := range stages {
		total := 0
		for i := 0; i < s.maxLoops; i++ {
			if checkStop() {
				mainLogger.Info().Str("stage", s.name).Msg("stop requested")
				return nil
			}
			n, err := s.fn(ctx)
			if err != nil {
				return fmt.Errorf("stage %s: %w", s.name, err)
			}
			total += n
			if n == 0 {
				break
			}
		}
		mainLogger.Info().Str("stage", s.name).Int("processed", total).Msg("stage complete")
	}
	return nil
}

// ingestFiles claims uploaded hand-history files, fetches their text, splits
// it into individual hands and inserts bronze rows. A failed file is marked
// 'error' and retried on the next pass.
func (p *pipeline) ingestFiles(ctx context.Context) (int, error) {
	files, err := p.db.ClaimHandFiles(ctx, p.fileBatch)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		txt, err := fetch.Text(ctx, f.StoragePath)
		if err != nil {
			mainLogger.Error().Err(err).Int64("file_id", f.ID).Msg("fetch failed")
			if err := p.db.SetFileStatus(ctx, f.ID, "error", err.Error()); err != nil {
				return 0, err
			}
			continue
		}
		blocks := handparse.SplitHands(txt)
		if len(blocks) == 0 {
			if err := p.db.SetFileStatus(ctx, f.ID, "error", "no hands found in file"); err != nil {
				return 0, err
			}
			continue
		}
		n, err := p.db.InsertHands(ctx, f.UserID, blocks)
		if err != nil {
			mainLogger.Error().Err(err).Int64("file_id", f.ID).Msg("insert failed")
			if err := p.db.SetFileStatus(ctx, f.ID, "error", err.Error()); err != nil {
				return 0, err
			}
			continue
		}
		if err := p.db.SetFileStatus(ctx, f.ID, "done", ""); err != nil {
			return 0, err
		}
		mainLogger.Info().Int64("file_id", f.ID).Int("hands", n).Msg("file ingested")
	}
	return len(files), nil
}

// parseReplayer fills replayer_data for bronze rows that have none. Parsing
// is CPU-bound and per-hand independent, so a batch parses in parallel;
// writes go through the shared pool, which is safe for concurrent use.
func (p *pipeline) parseReplayer(ctx context.Context) (int, error) {
	hands, err := p.db.HandsNeedingReplayer(ctx, p.replayBatch)
	if err != nil {
		return 0, err
	}
	if len(hands) == 0 {
		return 0, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parseWorkers)
	for _, h := range hands {
		h := h
		g.Go(func() error {
			st := handparse.Parse(h.RawText)
			raw, err := json.Marshal(st)
			if err != nil {
				return err
			}
			u := store.ReplayerUpdate{HandID: h.ID, Replayer: raw}
			for _, pl := range st.Players {
				if !pl.IsHero {
					continue
				}
				if pl.Position != handparse.PositionUnknown {
					u.Position = pl.Position
				}
				break
			}
			// Column values use two-letter card codes; the replayer JSON
			// keeps its display glyphs.
			cards, flop, turnCard, riverCard := silver.CardsAndBoard(h.RawText)
			u.Cards = cards
			u.Board = strings.Join(strings.Fields(flop+" "+turnCard+" "+riverCard), " ")
			if st.SB != nil && st.BB != nil {
				u.Stakes = fmt.Sprintf("$%g/$%g", *st.SB, *st.BB)
			}
			if s, ok := handparse.NewParser().ExtractDate(h.RawText); ok {
				if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
					u.Date = &t
				}
			}
			return p.db.UpdateReplayerData(gctx, u)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(hands), nil
}

// coachHands sends uncoached hands to the coach API. The raw text is
// annotated with inferred seat positions first so the model does not have to
// re-derive them. A hand that fails review is logged and left uncoached for
// the next pass.
func (p *pipeline) coachHands(ctx context.Context) (int, error) {
	if p.coachClient == nil {
		return 0, nil
	}
	hands, err := p.db.HandsForCoaching(ctx, p.coachBatch)
	if err != nil {
		return 0, err
	}
	coached := 0
	for _, h := range hands {
		if stopFlag.Load() {
			break
		}
		st := handparse.Parse(h.RawText)
		req := coach.Request{
			HandID:       strconv.FormatInt(h.ID, 10),
			RawText:      coach.AnnotatePositions(h.RawText, coach.PositionMap(&st)),
			Parsed:       coach.BuildParsed(&st),
			ReplayerData: h.Replayer,
		}
		res, err := p.coachClient.Review(ctx, req)
		if err != nil {
			mainLogger.Error().Err(err).Int64("hand_id", h.ID).Msg("coach review failed")
			continue
		}
		if strings.TrimSpace(res.GTOStrategy) == "" {
			mainLogger.Warn().Int64("hand_id", h.ID).Msg("coach returned empty strategy")
			continue
		}
		err = p.db.UpdateHandCoach(ctx, store.CoachUpdate{
			HandID:           h.ID,
			GTOStrategy:      res.GTOStrategy,
			ExploitDeviation: res.ExploitDeviation,
			LearningTags:     res.LearningTags,
			HeroPosition:     res.HeroPosition,
			ExploitSignals:   res.ExploitSignals,
		})
		if err != nil {
			return coached, err
		}
		coached++
	}
	mainLogger.Info().Msgf("Coached %d hands this run.", coached)
	return coached, nil
}

// buildSilver derives the query-ready analytics row for every coached hand
// that lacks one.
func (p *pipeline) buildSilver(ctx context.Context) (int, error) {
	hands, err := p.db.HandsForSilver(ctx, p.silverBatch)
	if err != nil {
		return 0, err
	}
	for _, h := range hands {
		if err := p.db.UpsertSilver(ctx, silver.BuildRow(h)); err != nil {
			return 0, err
		}
	}
	return len(hands), nil
}

// indexStudy embeds a text summary of each coached hand into study_chunks so
// the study chat can retrieve it.
func (p *pipeline) indexStudy(ctx context.Context) (int, error) {
	if p.embedder == nil {
		return 0, nil
	}
	hands, err := p.db.SilverForStudy(ctx, p.studyBatch)
	if err != nil {
		return 0, err
	}
	indexed := 0
	for _, h := range hands {
		if stopFlag.Load() {
			break
		}
		content := study.BuildContent(study.ChunkInput{
			Site:             h.Site,
			StakesBucket:     h.StakesBucket,
			StakesRaw:        h.StakesRaw,
			HeroPosition:     h.HeroPosition,
			PositionNorm:     h.PositionNorm,
			StreetReached:    h.StreetReached,
			LearningTags:     h.LearningTags,
			GTOStrategy:      h.GTOStrategy,
			ExploitDeviation: h.ExploitDeviation,
		})
		vec, err := p.embedder.Embed(ctx, content)
		if err != nil {
			mainLogger.Error().Err(err).Int64("hand_id", h.HandID).Msg("embedding failed")
			continue
		}
		err = p.db.InsertStudyChunk(ctx, store.StudyChunk{
			UserID:       h.UserID,
			RefID:        strconv.FormatInt(h.HandID, 10),
			Content:      content,
			Tokens:       study.TokenEstimate(content),
			StakesBucket: h.StakesBucket,
			PositionNorm: study.ChunkPosition(h.HeroPosition, h.PositionNorm),
			Street:       h.StreetReached,
			Tags:         h.LearningTags,
			Embedding:    vec,
		})
		if err != nil {
			return indexed, err
		}
		indexed++
	}
	return indexed, nil
}
