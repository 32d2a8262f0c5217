package services

import (
	"testing"
	"time"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"

	"gorm.io/gorm"
)

func msgAt(id uint, thread string, from, to uint, body string, at time.Time) models.Message {
	return models.Message{
		Model:      gorm.Model{ID: id, CreatedAt: at},
		ThreadID:   thread,
		FromUserID: from,
		ToUserID:   to,
		Body:       body,
		FromUser:   models.User{Model: gorm.Model{ID: from}, FirstName: "User", LastName: "F"},
		ToUser:     models.User{Model: gorm.Model{ID: to}, FirstName: "User", LastName: "T"},
	}
}

func TestBuildConversationsGroupsEveryThreadOnce(t *testing.T) {
	now := time.Now()
	msgs := []models.Message{
		msgAt(1, "t1", 2, 1, "a", now.Add(-3*time.Hour)),
		msgAt(2, "t1", 1, 2, "b", now.Add(-2*time.Hour)),
		msgAt(3, "t2", 3, 1, "c", now.Add(-1*time.Hour)),
		msgAt(4, "t3", 1, 4, "d", now.Add(-30*time.Minute)),
	}

	out := BuildConversations(1, msgs, now)
	if len(out) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(out))
	}
	seen := map[string]bool{}
	for _, c := range out {
		if seen[c.ID] {
			t.Fatalf("thread %s appears twice", c.ID)
		}
		seen[c.ID] = true
	}
	for _, id := range []string{"t1", "t2", "t3"} {
		if !seen[id] {
			t.Fatalf("thread %s missing from output", id)
		}
	}
}

func TestBuildConversationsLastMessageSelection(t *testing.T) {
	now := time.Now()
	// Deliberately shuffled insertion order
	msgs := []models.Message{
		msgAt(5, "t1", 2, 1, "middle", now.Add(-2*time.Hour)),
		msgAt(6, "t1", 1, 2, "latest", now.Add(-1*time.Hour)),
		msgAt(7, "t1", 2, 1, "oldest", now.Add(-3*time.Hour)),
	}

	out := BuildConversations(1, msgs, now)
	if len(out) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(out))
	}
	if out[0].LastMessage != "latest" {
		t.Fatalf("expected last message %q, got %q", "latest", out[0].LastMessage)
	}
	if !out[0].LastMessageAt.Equal(now.Add(-1 * time.Hour)) {
		t.Fatalf("lastMessageAt should be the raw timestamp of the newest message")
	}
}

func TestBuildConversationsUnreadCount(t *testing.T) {
	now := time.Now()
	read := now.Add(-90 * time.Minute)
	msgs := []models.Message{
		msgAt(1, "t1", 2, 1, "unread one", now.Add(-2*time.Hour)),
		msgAt(2, "t1", 2, 1, "unread two", now.Add(-1*time.Hour)),
		msgAt(3, "t1", 1, 2, "mine, never counts", now.Add(-50*time.Minute)),
	}
	msgs = append(msgs, msgAt(4, "t1", 2, 1, "already read", now.Add(-3*time.Hour)))
	msgs[3].ReadAt = &read

	out := BuildConversations(1, msgs, now)
	if len(out) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(out))
	}
	if out[0].Unread != 2 {
		t.Fatalf("expected 2 unread, got %d", out[0].Unread)
	}
}

func TestBuildConversationsCounterpartFallback(t *testing.T) {
	now := time.Now()
	m := msgAt(1, "t1", 2, 1, "hello", now.Add(-time.Hour))
	// Simulate a failed profile join: zero-value sender
	m.FromUser = models.User{}

	out := BuildConversations(1, []models.Message{m}, now)
	if len(out) != 1 {
		t.Fatalf("thread with unresolved counterpart must not be dropped")
	}
	if out[0].OtherName != "Unknown User" || out[0].AvatarInitial != "U" {
		t.Fatalf("expected Unknown User/U fallback, got %q/%q", out[0].OtherName, out[0].AvatarInitial)
	}
	if out[0].PropertyTitle != "Property Discussion" {
		t.Fatalf("expected generic property title, got %q", out[0].PropertyTitle)
	}
}

// Two threads ordered by real last-activity timestamp, not by the
// formatted relative label.
func TestBuildConversationsOrderingScenario(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base.Add(10 * time.Minute)

	msgs := []models.Message{
		msgAt(1, "T1", 2, 1, "Hi", base),
		msgAt(2, "T1", 2, 1, "Are you there?", base.Add(1*time.Minute)),
		msgAt(3, "T2", 1, 2, "Thanks", base.Add(2*time.Minute)),
	}

	out := BuildConversations(1, msgs, now)
	if len(out) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(out))
	}
	if out[0].ID != "T2" || out[1].ID != "T1" {
		t.Fatalf("expected order [T2 T1], got [%s %s]", out[0].ID, out[1].ID)
	}
	if out[0].Unread != 0 {
		t.Fatalf("T2 holds only a sent message, expected 0 unread, got %d", out[0].Unread)
	}
	if out[1].Unread != 2 {
		t.Fatalf("T1 expected 2 unread, got %d", out[1].Unread)
	}
	if out[1].LastMessage != "Are you there?" {
		t.Fatalf("T1 last message wrong: %q", out[1].LastMessage)
	}
}

func TestRelativeTimeBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "Just now"},
		{now.Add(-5 * time.Minute), "5 min ago"},
		{now.Add(-1 * time.Minute), "1 min ago"},
		{now.Add(-90 * time.Minute), "1 hour ago"},
		{now.Add(-5 * time.Hour), "5 hours ago"},
		{now.Add(-30 * time.Hour), "Yesterday"},
		{now.Add(-72 * time.Hour), "Mar 7, 2026"},
	}

	for _, c := range cases {
		if got := RelativeTime(c.at, now); got != c.want {
			t.Fatalf("RelativeTime(%v): expected %q, got %q", c.at, c.want, got)
		}
	}
}
