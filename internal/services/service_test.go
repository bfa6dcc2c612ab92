package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kitzurapp/qa-backend/internal/db"
	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/repos"
	"github.com/kitzurapp/qa-backend/internal/requestdata"
	"github.com/kitzurapp/qa-backend/internal/types"
)

// Fixed clock for every test limiter, so a wall-clock minute rollover
// mid-test cannot reset a bucket underneath an exhaustion assertion.
var testClock = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	db *gorm.DB

	questions   QuestionService
	answers     AnswerService
	discussions DiscussionService
	flags       FlagService
	events      EventService

	questionRepo repos.QuestionRepo
	answerRepo   repos.AnswerRepo
	approvalRepo repos.ApprovalRepo
	ratingRepo   repos.AnswerRatingRepo
	revisionRepo repos.RevisionRepo
	auditRepo    repos.AuditLogRepo
	flagRepo     repos.ModerationFlagRepo
	limitRepo    repos.RateLimitRepo
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "qa_test.db")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)

	questionRepo := repos.NewQuestionRepo(gdb, log)
	answerRepo := repos.NewAnswerRepo(gdb, log)
	approvalRepo := repos.NewApprovalRepo(gdb, log)
	ratingRepo := repos.NewAnswerRatingRepo(gdb, log)
	discussionRepo := repos.NewDiscussionRepo(gdb, log)
	flagRepo := repos.NewModerationFlagRepo(gdb, log)
	limitRepo := repos.NewRateLimitRepo(gdb, log)
	auditRepo := repos.NewAuditLogRepo(gdb, log)
	revisionRepo := repos.NewRevisionRepo(gdb, log)
	notifRepo := repos.NewNotificationRepo(gdb, log)

	limiter := &dbRateLimiter{
		db:   gdb,
		log:  log,
		repo: limitRepo,
		now:  func() time.Time { return testClock },
	}
	events := NewEventService(gdb, log, auditRepo, notifRepo)

	return &testEnv{
		db:           gdb,
		questions:    NewQuestionService(gdb, log, questionRepo, events),
		answers:      NewAnswerService(gdb, log, answerRepo, questionRepo, approvalRepo, ratingRepo, revisionRepo, auditRepo, limiter, events),
		discussions:  NewDiscussionService(gdb, log, discussionRepo, questionRepo, limiter, events),
		flags:        NewFlagService(gdb, log, flagRepo, limiter, events),
		events:       events,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		approvalRepo: approvalRepo,
		ratingRepo:   ratingRepo,
		revisionRepo: revisionRepo,
		auditRepo:    auditRepo,
		flagRepo:     flagRepo,
		limitRepo:    limitRepo,
	}
}

func authedCtx(userID uuid.UUID, name string, role types.Role) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID:      userID,
		DisplayName: name,
		Role:        role,
	})
}

func anonCtx(sessionID string) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		AnonSessionID: sessionID,
	})
}

func (env *testEnv) submitQuestion(t *testing.T, ctx context.Context, title string) *types.Question {
	t.Helper()
	question, err := env.questions.Submit(ctx, SubmitQuestionInput{
		Title:    title,
		Body:     "body of " + title,
		Category: "shabbat",
	})
	if err != nil {
		t.Fatalf("submit question: %v", err)
	}
	return question
}

func (env *testEnv) proposeAnswer(t *testing.T, ctx context.Context, questionID uuid.UUID) *types.Answer {
	t.Helper()
	answer, err := env.answers.Propose(ctx, questionID, ProposeAnswerInput{
		Text: "מותר להדליק נרות שבת מבעוד יום לפי כל הדעות",
		Sources: []types.HalachicSource{
			{Book: "קיצור שולחן ערוך", Siman: "עה"},
		},
	})
	if err != nil {
		t.Fatalf("propose answer: %v", err)
	}
	return answer
}
