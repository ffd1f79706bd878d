// Package study builds daily review queues: it partitions a user's words
// into review-due and new, applies the per-day caps and filters from
// QuizSettings, and orders the result for the client.
package study

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
)

// SelectDueWords produces the ordered review queue for a session.
//
// Words with a persisted card state whose next review has passed are
// review-due; words with no card state are new. Mastered words are
// excluded from both partitions. The JLPT and priority filters apply to
// the new partition only: once a card has been introduced it keeps
// surfacing for review regardless of filter changes, so overdue reviews
// are never silently starved.
//
// The new partition is capped at what remains of newPerDay for today and
// the combined queue at min(limit, what remains of maxReviewsPerDay).
// New words are spread evenly through the due words rather than appended,
// and the whole selection is deterministic for a fixed input.
//
// An empty result is not an error; it means the user is caught up.
func SelectDueWords(
	words []*domain.Word,
	states map[uuid.UUID]*domain.CardState,
	settings *domain.QuizSettings,
	stats *domain.DailyStats,
	now time.Time,
	limit int,
) []*domain.Word {
	if settings == nil || limit <= 0 {
		return nil
	}

	newCount, reviewCount := 0, 0
	if stats != nil {
		newCount = stats.NewCount
		reviewCount = stats.ReviewCount
	}

	remainingNew := settings.NewPerDay - newCount
	if remainingNew < 0 {
		remainingNew = 0
	}
	remainingReviews := settings.MaxReviewsPerDay - reviewCount
	if remainingReviews < 0 {
		remainingReviews = 0
	}
	if limit < remainingReviews {
		remainingReviews = limit
	}
	if remainingReviews == 0 {
		return nil
	}

	var due, fresh []*domain.Word
	for _, word := range words {
		if word == nil || word.Mastered {
			continue
		}
		state := states[word.ID]
		if state == nil {
			if matchesFilters(word, settings) {
				fresh = append(fresh, word)
			}
			continue
		}
		if !state.NextReview.After(now) {
			due = append(due, word)
		}
	}

	// Oldest due first; ties broken by ID so the order is reproducible.
	sort.SliceStable(due, func(i, j int) bool {
		a, b := states[due[i].ID], states[due[j].ID]
		if !a.NextReview.Equal(b.NextReview) {
			return a.NextReview.Before(b.NextReview)
		}
		return lessID(due[i].ID, due[j].ID)
	})

	// Highest priority new words enter first.
	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].Priority != fresh[j].Priority {
			return fresh[i].Priority > fresh[j].Priority
		}
		if !fresh[i].CreatedAt.Equal(fresh[j].CreatedAt) {
			return fresh[i].CreatedAt.Before(fresh[j].CreatedAt)
		}
		return lessID(fresh[i].ID, fresh[j].ID)
	})

	if len(fresh) > remainingNew {
		fresh = fresh[:remainingNew]
	}

	queue := interleave(due, fresh)
	if len(queue) > remainingReviews {
		queue = queue[:remainingReviews]
	}

	return queue
}

// SelectPracticeWords returns up to count non-mastered words for a
// non-graded practice round. There is no due-date gating; only the JLPT
// filter applies.
func SelectPracticeWords(words []*domain.Word, count int, jlptFilter int) []*domain.Word {
	if count <= 0 {
		return nil
	}

	var picked []*domain.Word
	for _, word := range words {
		if word == nil || word.Mastered {
			continue
		}
		if jlptFilter > 0 && word.JLPTLevel != jlptFilter {
			continue
		}
		picked = append(picked, word)
	}

	sort.SliceStable(picked, func(i, j int) bool {
		if !picked[i].CreatedAt.Equal(picked[j].CreatedAt) {
			return picked[i].CreatedAt.Before(picked[j].CreatedAt)
		}
		return lessID(picked[i].ID, picked[j].ID)
	})

	if len(picked) > count {
		picked = picked[:count]
	}

	return picked
}

func matchesFilters(word *domain.Word, settings *domain.QuizSettings) bool {
	if settings.JLPTFilter > 0 && word.JLPTLevel != settings.JLPTFilter {
		return false
	}
	if settings.PriorityFilter > 0 && word.Priority < settings.PriorityFilter {
		return false
	}
	return true
}

// interleave merges the two lists proportionally, so new words are spread
// through the due words instead of clustered at either end. The merge is
// deterministic: position k takes from whichever list is furthest behind
// its share, preferring due on ties.
func interleave(due, fresh []*domain.Word) []*domain.Word {
	if len(fresh) == 0 {
		return due
	}
	if len(due) == 0 {
		return fresh
	}

	out := make([]*domain.Word, 0, len(due)+len(fresh))
	di, fi := 0, 0
	for di < len(due) || fi < len(fresh) {
		switch {
		case di >= len(due):
			out = append(out, fresh[fi])
			fi++
		case fi >= len(fresh):
			out = append(out, due[di])
			di++
		case di*len(fresh) <= fi*len(due):
			out = append(out, due[di])
			di++
		default:
			out = append(out, fresh[fi])
			fi++
		}
	}

	return out
}

func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
