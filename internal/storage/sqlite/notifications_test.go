package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/types"
)

func TestNotificationsPanel(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	member := mustCreateMember(t, store, "Ada", "ada@example.com")
	other := mustCreateMember(t, store, "Bob", "bob@example.com")

	for i, title := range []string{"Duty starts Monday", "cd-7 assigned to you", "Goal at risk"} {
		n := &types.Notification{RecipientID: member.ID, Kind: "panel", Title: title}
		if i == 2 {
			n.RecipientID = other.ID
		}
		if err := store.CreateNotification(ctx, n); err != nil {
			t.Fatalf("Failed to create notification: %v", err)
		}
	}

	unread, err := store.ListNotifications(ctx, member.ID, true, 0)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("Expected 2 unread, got %d", len(unread))
	}

	if err := store.MarkNotificationRead(ctx, unread[0].ID); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	unread, _ = store.ListNotifications(ctx, member.ID, true, 0)
	if len(unread) != 1 {
		t.Errorf("Expected 1 unread after marking, got %d", len(unread))
	}

	count, err := store.MarkAllNotificationsRead(ctx, member.ID)
	if err != nil {
		t.Fatalf("MarkAllNotificationsRead failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 marked, got %d", count)
	}

	// Other member's panel untouched
	unread, _ = store.ListNotifications(ctx, other.ID, true, 0)
	if len(unread) != 1 {
		t.Errorf("Expected other member's notification unread, got %d", len(unread))
	}

	// Unknown ID errors
	if err := store.MarkNotificationRead(ctx, "nope"); err == nil {
		t.Error("Expected error for unknown notification")
	}
}

func TestCleanupNotificationsByAge(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	member := mustCreateMember(t, store, "Ada", "ada@example.com")

	old := &types.Notification{
		RecipientID: member.ID, Kind: "panel", Title: "ancient",
		Read: true, CreatedAt: time.Now().AddDate(0, 0, -90),
	}
	recent := &types.Notification{RecipientID: member.ID, Kind: "panel", Title: "fresh", Read: true}
	oldUnread := &types.Notification{
		RecipientID: member.ID, Kind: "panel", Title: "ancient but unread",
		CreatedAt: time.Now().AddDate(0, 0, -90),
	}
	for _, n := range []*types.Notification{old, recent, oldUnread} {
		if err := store.CreateNotification(ctx, n); err != nil {
			t.Fatalf("Failed to create notification: %v", err)
		}
	}

	removed, err := store.CleanupNotificationsByAge(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed (old and read), got %d", removed)
	}

	// Unread notifications are never reaped
	all, _ := store.ListNotifications(ctx, member.ID, false, 0)
	if len(all) != 2 {
		t.Errorf("Expected 2 remaining, got %d", len(all))
	}

	if _, err := store.CleanupNotificationsByAge(ctx, 0); err == nil {
		t.Error("Expected error for non-positive retention")
	}
}
