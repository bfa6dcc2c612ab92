package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/types"
)

func TestSubmitQuestionValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name  string
		ctx   context.Context
		input SubmitQuestionInput
	}{
		{
			name:  "no identity at all",
			ctx:   context.Background(),
			input: SubmitQuestionInput{Title: "t", Body: "b", Category: "shabbat"},
		},
		{
			name:  "missing title",
			ctx:   anonCtx("sess-1"),
			input: SubmitQuestionInput{Body: "b", Category: "shabbat"},
		},
		{
			name:  "missing body",
			ctx:   anonCtx("sess-1"),
			input: SubmitQuestionInput{Title: "t", Category: "shabbat"},
		},
		{
			name:  "unknown category",
			ctx:   anonCtx("sess-1"),
			input: SubmitQuestionInput{Title: "t", Body: "b", Category: "astrology"},
		},
		{
			name:  "unknown visibility",
			ctx:   anonCtx("sess-1"),
			input: SubmitQuestionInput{Title: "t", Body: "b", Category: "shabbat", Visibility: "secret"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.questions.Submit(tc.ctx, tc.input)
			if !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Fatalf("expected invalid-argument, got %v", err)
			}
		})
	}
}

func TestSubmitQuestionAnonymous(t *testing.T) {
	env := newTestEnv(t)

	question, err := env.questions.Submit(anonCtx("sess-42"), SubmitQuestionInput{
		Title:    "האם מותר לחמם אוכל בשבת",
		Body:     "יש לי פלטה של שבת ואני רוצה לחמם מרק",
		Category: "shabbat",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if question.Status != types.QuestionPendingReview {
		t.Fatalf("status = %q, want pending_review", question.Status)
	}
	if question.AskedByUserID != nil {
		t.Fatal("anonymous question must not carry a user id")
	}
	if question.AnonSessionID != "sess-42" {
		t.Fatalf("anon session = %q", question.AnonSessionID)
	}
	if question.Slug == "" || question.ContentHash == "" {
		t.Fatalf("slug/hash not derived: %q / %q", question.Slug, question.ContentHash)
	}
	if question.MinimumApprovalsRequired != types.DefaultMinimumApprovals {
		t.Fatalf("minimum approvals = %d", question.MinimumApprovalsRequired)
	}
	if tags := question.Tags.Data(); len(tags) == 0 {
		t.Fatal("expected tags extracted from the title")
	} else {
		for _, tag := range tags {
			if commonQuestionWords[tag] {
				t.Fatalf("stop word %q leaked into tags", tag)
			}
		}
	}

	stored, err := env.questionRepo.GetBySlug(context.Background(), nil, question.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if stored.ID != question.ID {
		t.Fatalf("slug lookup returned %s, want %s", stored.ID, question.ID)
	}
}

// The session id may arrive only in the request body, with nothing in
// the request context. The audit actor must still be the session id,
// not the anonymous placeholder.
func TestSubmitQuestionBodySessionStampsAuditActor(t *testing.T) {
	env := newTestEnv(t)
	env.events.Start(context.Background())

	question, err := env.questions.Submit(context.Background(), SubmitQuestionInput{
		Title:         "Carrying a key on shabbat",
		Body:          "May one carry a house key where there is no eruv?",
		Category:      "shabbat",
		AnonSessionID: "sess-body-only",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := env.events.Drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}

	entries, err := env.auditRepo.ListByEntity(context.Background(), nil, "question", question.ID.String())
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}
	if entries[0].ActorKey != "sess-body-only" {
		t.Fatalf("audit actor = %q, want the body session id", entries[0].ActorKey)
	}
}

func TestSubmitQuestionAuthenticatedClearsAnonSession(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	question, err := env.questions.Submit(authedCtx(userID, "Dovid", types.RoleNone), SubmitQuestionInput{
		Title:         "Checking rice for insects",
		Body:          "Does rice need checking before Pesach?",
		Category:      "kashrut",
		AnonSessionID: "sess-should-be-dropped",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if question.AskedByUserID == nil || *question.AskedByUserID != userID {
		t.Fatalf("asked_by_user_id = %v, want %s", question.AskedByUserID, userID)
	}
	if question.AnonSessionID != "" {
		t.Fatalf("authenticated question kept anon session %q", question.AnonSessionID)
	}
	if question.AskedByName != "Dovid" {
		t.Fatalf("asked_by_name = %q", question.AskedByName)
	}
}

func TestFindDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := anonCtx("sess-dup")

	first, err := env.questions.Submit(ctx, SubmitQuestionInput{
		Title: "Kiddush over grape juice", Body: "Is grape juice acceptable?", Category: "shabbat",
	})
	if err != nil {
		t.Fatalf("submit first: %v", err)
	}
	second, err := env.questions.Submit(ctx, SubmitQuestionInput{
		Title: "Kiddush over grape juice", Body: "Is grape juice acceptable?", Category: "shabbat",
	})
	if err != nil {
		t.Fatalf("submit second: %v", err)
	}
	if first.Slug == second.Slug {
		t.Fatal("resubmission must not collide on slug")
	}
	if first.ContentHash != second.ContentHash {
		t.Fatal("identical submissions should share a content hash")
	}

	dupes, err := env.questions.FindDuplicates(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if len(dupes) != 1 || dupes[0].ID != first.ID {
		t.Fatalf("expected exactly the first question as duplicate, got %d results", len(dupes))
	}

	// A different asker produces a different hash and no match.
	other, err := env.questions.Submit(anonCtx("sess-other"), SubmitQuestionInput{
		Title: "Kiddush over grape juice", Body: "Is grape juice acceptable?", Category: "shabbat",
	})
	if err != nil {
		t.Fatalf("submit other: %v", err)
	}
	if other.ContentHash == first.ContentHash {
		t.Fatal("different session should change the content hash")
	}
}

func TestGetByIDCountsViews(t *testing.T) {
	env := newTestEnv(t)
	question := env.submitQuestion(t, anonCtx("sess-v"), "Tefillin on chol hamoed")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := env.questions.GetByID(ctx, question.ID); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	stored, err := env.questionRepo.GetByID(ctx, nil, question.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Views != 3 {
		t.Fatalf("views = %d, want 3", stored.Views)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.questions.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
