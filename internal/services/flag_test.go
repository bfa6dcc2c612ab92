package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/types"
)

func TestCreateFlagValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := anonCtx("sess-f")

	cases := []struct {
		name       string
		entityType string
		entityID   string
		reason     string
	}{
		{name: "unknown entity type", entityType: "user", entityID: uuid.NewString(), reason: "spam"},
		{name: "empty reason", entityType: "question", entityID: uuid.NewString()},
		{name: "empty entity id", entityType: "question", reason: "spam"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.flags.Create(ctx, tc.entityType, tc.entityID, tc.reason, "")
			if !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Fatalf("expected invalid-argument, got %v", err)
			}
		})
	}
}

func TestCreateFlagAnonymous(t *testing.T) {
	env := newTestEnv(t)

	// Even a caller with no identity at all may report content.
	flag, err := env.flags.Create(context.Background(), "answer", uuid.NewString(), "offensive wording", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if flag.Status != types.FlagPending {
		t.Fatalf("status = %q, want pending", flag.Status)
	}
	if flag.ReporterUserID != nil {
		t.Fatal("anonymous flag must not carry a reporter id")
	}
}

func TestResolveFlagPermissions(t *testing.T) {
	env := newTestEnv(t)

	flag, err := env.flags.Create(anonCtx("sess-f"), "question", uuid.NewString(), "wrong category", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := env.flags.Resolve(anonCtx("sess-f"), flag.ID, ""); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if err := env.flags.Resolve(authedCtx(uuid.New(), "user", types.RoleNone), flag.ID, ""); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission-denied, got %v", err)
	}
	if err := env.flags.Resolve(authedCtx(uuid.New(), "posek", types.RolePosek), flag.ID, ""); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission-denied for posek, got %v", err)
	}

	editorID := uuid.New()
	if err := env.flags.Resolve(authedCtx(editorID, "editor", types.RoleEditor), flag.ID, "moved to kashrut"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	stored, err := env.flagRepo.GetByID(context.Background(), nil, flag.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != types.FlagActioned {
		t.Fatalf("status = %q, want actioned", stored.Status)
	}
	if stored.ResolvedBy == nil || *stored.ResolvedBy != editorID {
		t.Fatalf("resolved_by = %v", stored.ResolvedBy)
	}
	if stored.ResolutionNote != "moved to kashrut" {
		t.Fatalf("note = %q", stored.ResolutionNote)
	}

	t.Run("unknown flag", func(t *testing.T) {
		err := env.flags.Resolve(authedCtx(editorID, "editor", types.RoleEditor), uuid.New(), "")
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not-found, got %v", err)
		}
	})
}

// Creating flags and resolving them run under different per-minute
// limits: 31 reports in a minute are fine (limit 60), but the 31st
// resolution in the same minute trips the resolver's limit of 30.
func TestFlagLimitsDivergeBetweenCreateAndResolve(t *testing.T) {
	env := newTestEnv(t)

	reporter := anonCtx("sess-burst")
	flagIDs := make([]uuid.UUID, 0, 31)
	for i := 0; i < 31; i++ {
		flag, err := env.flags.Create(reporter, "answer", uuid.NewString(), fmt.Sprintf("reason %d", i), "")
		if err != nil {
			t.Fatalf("create %d: %v", i+1, err)
		}
		flagIDs = append(flagIDs, flag.ID)
	}

	editor := authedCtx(uuid.New(), "editor", types.RoleEditor)
	for i, id := range flagIDs[:30] {
		if err := env.flags.Resolve(editor, id, ""); err != nil {
			t.Fatalf("resolve %d: %v", i+1, err)
		}
	}
	err := env.flags.Resolve(editor, flagIDs[30], "")
	if !errors.Is(err, apperr.ErrResourceExhausted) {
		t.Fatalf("31st resolve should be rate limited, got %v", err)
	}

	// The rejected resolution must not have touched the flag.
	stored, gErr := env.flagRepo.GetByID(context.Background(), nil, flagIDs[30])
	if gErr != nil {
		t.Fatalf("reload: %v", gErr)
	}
	if stored.Status != types.FlagPending {
		t.Fatalf("rejected resolve mutated flag to %q", stored.Status)
	}
}

func TestListPendingIsRoleGated(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.flags.Create(anonCtx("sess-l"), "question", uuid.NewString(), "dup", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.flags.ListPending(anonCtx("sess-l"), 10); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := env.flags.ListPending(authedCtx(uuid.New(), "user", types.RoleNone), 10); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission-denied, got %v", err)
	}

	flags, err := env.flags.ListPending(authedCtx(uuid.New(), "admin", types.RoleSuperAdmin), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("expected 1 pending flag, got %d", len(flags))
	}
}
