package services

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
)

// ConversationSummary is the per-viewer, per-thread display model consumed
// by the messaging UI. It is derived on every fetch and never persisted.
type ConversationSummary struct {
	ID            string    `json:"id"` // thread id
	OtherName     string    `json:"otherName"`
	AvatarInitial string    `json:"avatarInitial"`
	PropertyTitle string    `json:"propertyTitle"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Time          string    `json:"time"` // relative label for display
	Unread        int       `json:"unread"`
}

const (
	unknownUserName      = "Unknown User"
	unknownUserInitial   = "U"
	genericPropertyTitle = "Property Discussion"
)

// BuildConversations turns the flat set of messages involving the viewer
// into one summary per thread, ordered by most recent activity first.
// Ordering uses the raw last-message timestamp; the relative label is
// display-only. Threads whose counterpart user failed to load still appear,
// with the Unknown User placeholder.
func BuildConversations(viewerID uint, messages []models.Message, now time.Time) []ConversationSummary {
	groups := make(map[string][]models.Message)
	for _, msg := range messages {
		groups[msg.ThreadID] = append(groups[msg.ThreadID], msg)
	}

	summaries := make([]ConversationSummary, 0, len(groups))
	for threadID, group := range groups {
		// Chronological order within the thread; id breaks created_at ties
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].ID < group[j].ID
			}
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		last := group[len(group)-1]

		var other models.User
		if last.FromUserID == viewerID {
			other = last.ToUser
		} else {
			other = last.FromUser
		}

		name := unknownUserName
		initial := unknownUserInitial
		if other.ID > 0 {
			if full := other.FullName(); full != "" {
				name = full
				initial = avatarInitial(full)
			}
		}

		propertyTitle := genericPropertyTitle
		if last.Property != nil && last.Property.Title != "" {
			propertyTitle = last.Property.Title
		}

		unread := 0
		for _, msg := range group {
			if msg.ToUserID == viewerID && msg.ReadAt == nil {
				unread++
			}
		}

		summaries = append(summaries, ConversationSummary{
			ID:            threadID,
			OtherName:     name,
			AvatarInitial: initial,
			PropertyTitle: propertyTitle,
			LastMessage:   last.Body,
			LastMessageAt: last.CreatedAt,
			Time:          RelativeTime(last.CreatedAt, now),
			Unread:        unread,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].LastMessageAt.Equal(summaries[j].LastMessageAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})

	return summaries
}

func avatarInitial(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, r := range trimmed {
		return string(unicode.ToUpper(r))
	}
	return unknownUserInitial
}

// RelativeTime renders a "time ago" label for the given timestamp.
// Pure function of the supplied now, so tests can pin the clock.
func RelativeTime(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmtMinutes(int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmtHours(int(diff.Hours()))
	case diff < 48*time.Hour:
		return "Yesterday"
	default:
		return t.Format("Jan 2, 2006")
	}
}

func fmtMinutes(n int) string {
	if n <= 1 {
		return "1 min ago"
	}
	return strconv.Itoa(n) + " min ago"
}

func fmtHours(n int) string {
	if n <= 1 {
		return "1 hour ago"
	}
	return strconv.Itoa(n) + " hours ago"
}
