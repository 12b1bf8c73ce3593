package services

import (
	"errors"
	"sync"
	"testing"

	"inkpress/internal/models"
)

func TestSubmitLikeToggle(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Toggle Test")
	actor := models.SessionActor("sess-1")

	counts, rec, err := svc.Submit(post.ID, actor, ActionLike)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if counts.Like != 1 || counts.Dislike != 0 || counts.Share != 0 {
		t.Fatalf("after like: %+v", counts)
	}
	if !rec.Like || rec.Dislike {
		t.Fatalf("record state after like: %+v", rec)
	}
	assertConsistent(t, gdb, post.ID)

	// Second like undoes the first and restores the original counters.
	counts, rec, err = svc.Submit(post.ID, actor, ActionLike)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if counts.Like != 0 {
		t.Fatalf("after unlike: %+v", counts)
	}
	if rec.Like {
		t.Fatalf("record still liked after toggle: %+v", rec)
	}
	assertConsistent(t, gdb, post.ID)
}

func TestSubmitLikeThenDislike(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Swap Test")
	actor := models.UserActor(42)

	if _, _, err := svc.Submit(post.ID, actor, ActionLike); err != nil {
		t.Fatalf("like: %v", err)
	}
	counts, rec, err := svc.Submit(post.ID, actor, ActionDislike)
	if err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if counts.Like != 0 || counts.Dislike != 1 {
		t.Fatalf("after swap: %+v", counts)
	}
	if rec.Like || !rec.Dislike {
		t.Fatalf("record after swap: %+v", rec)
	}
	assertConsistent(t, gdb, post.ID)

	// And back again.
	counts, rec, err = svc.Submit(post.ID, actor, ActionLike)
	if err != nil {
		t.Fatalf("like again: %v", err)
	}
	if counts.Like != 1 || counts.Dislike != 0 {
		t.Fatalf("after swap back: %+v", counts)
	}
	if !rec.Like || rec.Dislike {
		t.Fatalf("record after swap back: %+v", rec)
	}
}

func TestSubmitShareMonotonic(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Share Test")
	actor := models.SessionActor("sess-share")

	counts, _, err := svc.Submit(post.ID, actor, ActionShare)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if counts.Share != 1 {
		t.Fatalf("after share: %+v", counts)
	}

	// Repeating share changes nothing.
	counts, rec, err := svc.Submit(post.ID, actor, ActionShare)
	if err != nil {
		t.Fatalf("reshare: %v", err)
	}
	if counts.Share != 1 || !rec.Share {
		t.Fatalf("share not monotonic: counts %+v rec %+v", counts, rec)
	}
	assertConsistent(t, gdb, post.ID)
}

func TestSubmitShareSurvivesReactionChanges(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Overlay Test")
	actor := models.SessionActor("sess-overlay")

	for _, action := range []string{ActionShare, ActionLike, ActionDislike, ActionDislike} {
		if _, _, err := svc.Submit(post.ID, actor, action); err != nil {
			t.Fatalf("%s: %v", action, err)
		}
	}
	counts := storedCounts(t, gdb, post.ID)
	if counts.Share != 1 {
		t.Fatalf("share lost across reaction changes: %+v", counts)
	}
	assertConsistent(t, gdb, post.ID)
}

func TestSubmitNeverProducesBothFlags(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Exclusive Test")
	actor := models.SessionActor("sess-x")

	sequence := []string{
		ActionLike, ActionDislike, ActionLike, ActionLike,
		ActionDislike, ActionShare, ActionDislike, ActionLike,
	}
	for _, action := range sequence {
		_, rec, err := svc.Submit(post.ID, actor, action)
		if err != nil {
			t.Fatalf("%s: %v", action, err)
		}
		if rec.Like && rec.Dislike {
			t.Fatalf("like and dislike both set after %s", action)
		}
		assertConsistent(t, gdb, post.ID)
	}
}

func TestSubmitOneRecordPerActor(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Dedupe Test")
	actor := models.SessionActor("sess-d")

	for _, action := range []string{ActionLike, ActionDislike, ActionShare, ActionLike, ActionShare} {
		if _, _, err := svc.Submit(post.ID, actor, action); err != nil {
			t.Fatalf("%s: %v", action, err)
		}
	}

	var count int64
	if err := gdb.Model(&models.Interaction{}).
		Where("post_id = ? AND actor_type = ? AND actor_key = ?", post.ID, actor.Kind, actor.Key).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 interaction record, got %d", count)
	}
}

func TestSubmitActorSchemesAreDistinct(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Scheme Test")

	// Same key under the two identity schemes must be two actors.
	if _, _, err := svc.Submit(post.ID, models.SessionActor("7"), ActionLike); err != nil {
		t.Fatalf("session like: %v", err)
	}
	counts, _, err := svc.Submit(post.ID, models.UserActor(7), ActionLike)
	if err != nil {
		t.Fatalf("user like: %v", err)
	}
	if counts.Like != 2 {
		t.Fatalf("expected 2 likes from distinct actors, got %+v", counts)
	}
	assertConsistent(t, gdb, post.ID)
}

func TestSubmitInvalidAction(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Invalid Action Test")

	_, _, err := svc.Submit(post.ID, models.SessionActor("s"), "boost")
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}

	// No mutation happened.
	var count int64
	if err := gdb.Model(&models.Interaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("invalid action created a ledger row")
	}
}

func TestSubmitMissingPost(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)

	_, _, err := svc.Submit(9999, models.SessionActor("s"), ActionLike)
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestSubmitConcurrentActors(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Concurrent Test")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, actor := range []models.Actor{models.SessionActor("sess-a"), models.SessionActor("sess-b")} {
		wg.Add(1)
		go func(i int, actor models.Actor) {
			defer wg.Done()
			_, _, errs[i] = svc.Submit(post.ID, actor, ActionLike)
		}(i, actor)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent like %d: %v", i, err)
		}
	}
	counts := storedCounts(t, gdb, post.ID)
	if counts.Like != 2 {
		t.Fatalf("expected like_count 2 after concurrent likes, got %d", counts.Like)
	}
	assertConsistent(t, gdb, post.ID)
}

func TestGetOrCreateRecoversFromLostInsertRace(t *testing.T) {
	gdb := newTestDB(t)
	post := seedPost(t, gdb, "Race Test")
	actor := models.SessionActor("sess-race")

	// A competing caller already inserted the row.
	winner := models.Interaction{PostID: post.ID, ActorType: actor.Kind, ActorKey: actor.Key, Like: true}
	if err := gdb.Create(&winner).Error; err != nil {
		t.Fatalf("seed winner: %v", err)
	}

	rec, created, err := getOrCreateInteraction(gdb, post.ID, actor)
	if err != nil {
		t.Fatalf("getOrCreate: %v", err)
	}
	if created {
		t.Fatalf("expected existing row, got a new one")
	}
	if rec.ID != winner.ID {
		t.Fatalf("expected winning row %d, got %d", winner.ID, rec.ID)
	}
}

func TestRecountPostRebuildsFromLedger(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewInteractionService(gdb)
	post := seedPost(t, gdb, "Recount Test")

	for i, actor := range []models.Actor{
		models.SessionActor("r1"), models.SessionActor("r2"), models.UserActor(3),
	} {
		action := ActionLike
		if i == 2 {
			action = ActionShare
		}
		if _, _, err := svc.Submit(post.ID, actor, action); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	// Corrupt the counters, then rebuild.
	if err := gdb.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumns(map[string]interface{}{"like_count": 99, "share_count": -5}).Error; err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if err := RecountPost(gdb, post.ID); err != nil {
		t.Fatalf("recount: %v", err)
	}

	counts := storedCounts(t, gdb, post.ID)
	if counts.Like != 2 || counts.Dislike != 0 || counts.Share != 1 {
		t.Fatalf("after recount: %+v", counts)
	}
	assertConsistent(t, gdb, post.ID)
}
