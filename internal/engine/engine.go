package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/lure/internal/archive"
	"github.com/MikeSquared-Agency/lure/internal/callback"
	"github.com/MikeSquared-Agency/lure/internal/detector"
	"github.com/MikeSquared-Agency/lure/internal/hermes"
	"github.com/MikeSquared-Agency/lure/internal/intel"
	"github.com/MikeSquared-Agency/lure/internal/persona"
	"github.com/MikeSquared-Agency/lure/internal/session"
)

// Per-call budget for each model-backed step within a turn. The classifier,
// responder and extractor all degrade gracefully on timeout, so this bounds
// turn latency rather than correctness.
const stepTimeout = 20 * time.Second

type Classifier interface {
	Classify(ctx context.Context, message, history string) detector.Analysis
}

type Responder interface {
	Respond(ctx context.Context, message string, history []session.Turn, personaKey, sessionID string) string
}

type Extractor interface {
	Extract(ctx context.Context, text string) intel.Record
}

type Reporter interface {
	// Dispatch reports whether a delivery attempt was issued.
	Dispatch(report callback.Report) bool
}

type Publisher interface {
	Publish(subject string, data any) error
}

type Archiver interface {
	SaveSnapshot(ctx context.Context, snap archive.Snapshot) error
}

// TurnResult is everything a single processed turn exposes to the transport
// layer.
type TurnResult struct {
	SessionID       string
	Reply           string
	ScamDetected    bool
	ScamType        string
	Confidence      float64
	Intelligence    intel.Record
	Notes           string
	MessageCount    int
	DurationSeconds int
}

// Engine orchestrates one conversation turn end to end: session state,
// classification, persona reply, intelligence extraction and reporting.
type Engine struct {
	store      session.Store
	classifier Classifier
	responder  Responder
	extractor  Extractor
	reporter   Reporter
	publisher  Publisher
	archiver   Archiver
	logger     *slog.Logger

	notesMaxLen int
	now         func() time.Time
}

type Options struct {
	Store      session.Store
	Classifier Classifier
	Responder  Responder
	Extractor  Extractor
	Reporter   Reporter
	Publisher  Publisher // optional
	Archiver   Archiver  // optional
	Logger     *slog.Logger

	NotesMaxLen int
}

func New(opts Options) *Engine {
	if opts.NotesMaxLen <= 0 {
		opts.NotesMaxLen = 300
	}
	return &Engine{
		store:       opts.Store,
		classifier:  opts.Classifier,
		responder:   opts.Responder,
		extractor:   opts.Extractor,
		reporter:    opts.Reporter,
		publisher:   opts.Publisher,
		archiver:    opts.Archiver,
		logger:      opts.Logger,
		notesMaxLen: opts.NotesMaxLen,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ProcessTurn handles one inbound scammer message. seedHistory is only
// applied when the session does not exist yet; an established session's
// transcript is the source of truth and client-supplied history is ignored.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, message string, ts time.Time, seedHistory []session.Turn) (*TurnResult, error) {
	release, err := e.store.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("acquiring session lock: %w", err)
	}
	defer release()

	sess, created, err := e.store.GetOrCreate(ctx, sessionID, personaKeyFor(sessionID))
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if created {
		for _, turn := range seedHistory {
			sess.AddTurn(turn.Sender, turn.Text, turn.Timestamp)
		}
		e.logger.Info("session created",
			"session_id", sessionID,
			"persona", sess.PersonaKey,
			"seeded_turns", len(seedHistory),
		)
	}

	if ts.IsZero() {
		ts = e.now()
	}
	sess.AddTurn(session.SenderScammer, message, ts)

	firstDetection := false
	if !sess.ScamDetected {
		analysis := e.classify(ctx, message, sess)
		sess.MarkScam(analysis.IsScam, analysis.ScamType, analysis.Confidence)
		firstDetection = sess.ScamDetected
	}

	reply, extracted := e.respondAndExtract(ctx, message, sess)

	sess.AddTurn(session.SenderAgent, reply, e.now())
	sess.Intelligence = sess.Intelligence.Merge(extracted)
	sess.Notes = e.buildNotes(sess)

	if sess.ScamDetected {
		e.report(sess)
		if firstDetection {
			e.announce(sess)
		}
		e.archive(ctx, sess)
	}

	if err := e.store.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	return &TurnResult{
		SessionID:       sess.ID,
		Reply:           reply,
		ScamDetected:    sess.ScamDetected,
		ScamType:        sess.ScamType,
		Confidence:      sess.Confidence,
		Intelligence:    sess.Intelligence,
		Notes:           sess.Notes,
		MessageCount:    sess.MessageCount(),
		DurationSeconds: sess.DurationSeconds(),
	}, nil
}

// Inspect returns the live state of a session.
func (e *Engine) Inspect(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.store.Get(ctx, sessionID)
}

// Terminate removes a session, issuing a final report first if the session
// was confirmed as a scam but never reported.
func (e *Engine) Terminate(ctx context.Context, sessionID string) error {
	release, err := e.store.Acquire(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("acquiring session lock: %w", err)
	}
	defer release()

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if sess.ScamDetected && !sess.CallbackSent {
		e.report(sess)
	}
	return e.store.Delete(ctx, sessionID)
}

// HandlePurgeSignal terminates a session on the swarm's request. Signature
// matches the hermes subscription handler; malformed or unknown-session
// signals are logged and dropped.
func (e *Engine) HandlePurgeSignal(subject string, data []byte) {
	var sig hermes.PurgeSignal
	if err := json.Unmarshal(data, &sig); err != nil || sig.SessionRef == "" {
		e.logger.Warn("malformed purge signal", "subject", subject, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
	defer cancel()
	if err := e.Terminate(ctx, sig.SessionRef); err != nil {
		e.logger.Warn("purge failed", "session_id", sig.SessionRef, "error", err)
		return
	}
	e.logger.Info("session purged by swarm", "session_id", sig.SessionRef, "reason", sig.Reason)
}

// SessionCount reports how many live sessions the store holds.
func (e *Engine) SessionCount(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

func (e *Engine) classify(ctx context.Context, message string, sess *session.Session) detector.Analysis {
	cctx, cancel := context.WithTimeout(ctx, stepTimeout)
	defer cancel()
	return e.classifier.Classify(cctx, message, sess.HistoryText())
}

// respondAndExtract runs reply generation and intelligence extraction in
// parallel; both are independent reads of session state. The extractor sees
// the whole transcript so artifacts split across turns are still caught,
// and the union merge keeps the re-scan idempotent.
func (e *Engine) respondAndExtract(ctx context.Context, message string, sess *session.Session) (string, intel.Record) {
	history := sess.Turns[:len(sess.Turns)-1]
	transcript := sess.TranscriptText()

	var (
		wg        sync.WaitGroup
		reply     string
		extracted intel.Record
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rctx, cancel := context.WithTimeout(ctx, stepTimeout)
		defer cancel()
		reply = e.responder.Respond(rctx, message, history, sess.PersonaKey, sess.ID)
	}()
	go func() {
		defer wg.Done()
		xctx, cancel := context.WithTimeout(ctx, stepTimeout)
		defer cancel()
		extracted = e.extractor.Extract(xctx, transcript)
	}()
	wg.Wait()

	return reply, extracted
}

func (e *Engine) report(sess *session.Session) {
	issued := e.reporter.Dispatch(callback.Report{
		SessionID:                 sess.ID,
		ScamDetected:              sess.ScamDetected,
		TotalMessagesExchanged:    sess.MessageCount(),
		EngagementDurationSeconds: int64(sess.DurationSeconds()),
		ExtractedIntelligence:     sess.Intelligence,
		AgentNotes:                sess.Notes,
		ScamType:                  sess.ScamType,
		ConfidenceLevel:           sess.Confidence,
	})
	if issued {
		sess.CallbackSent = true
	}
}

func (e *Engine) announce(sess *session.Session) {
	if e.publisher == nil {
		return
	}
	err := e.publisher.Publish(hermes.SubjectScamDetected, hermes.ScamSignal{
		SessionRef:   sess.ID,
		AgentID:      "lure",
		ScamType:     sess.ScamType,
		Confidence:   sess.Confidence,
		PersonaKey:   sess.PersonaKey,
		MessageCount: sess.MessageCount(),
	})
	if err != nil {
		e.logger.Warn("scam signal publish failed", "session_id", sess.ID, "error", err)
	}
}

func (e *Engine) archive(ctx context.Context, sess *session.Session) {
	if e.archiver == nil {
		return
	}
	err := e.archiver.SaveSnapshot(ctx, archive.Snapshot{
		SessionID:       sess.ID,
		ScamType:        sess.ScamType,
		Confidence:      sess.Confidence,
		PersonaKey:      sess.PersonaKey,
		MessageCount:    sess.MessageCount(),
		DurationSeconds: int64(sess.DurationSeconds()),
		Intelligence:    sess.Intelligence,
		Notes:           sess.Notes,
	})
	if err != nil {
		e.logger.Warn("engagement snapshot failed", "session_id", sess.ID, "error", err)
	}
}

var archetypes = []string{"elderly", "elderly", "young_professional", "worried_parent"}

// personaKeyFor assigns a stable persona to a session, biased toward the
// elderly archetypes that draw the longest engagements.
func personaKeyFor(sessionID string) string {
	h := fnv.New32a()
	h.Write([]byte("archetype:" + sessionID))
	return persona.KeyFor(sessionID, archetypes[h.Sum32()%uint32(len(archetypes))])
}
