package firestore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/innerguide/internal/domain"
)

const (
	colMessages = "chat_messages"
	colJournal  = "journal_entries"

	// Firestore caps a batch write at 500 operations.
	maxBatch = 500
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (INNERGUIDE_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) messagesCol() *firestore.CollectionRef {
	return s.client.Collection(colMessages)
}

func (s *Store) journalCol() *firestore.CollectionRef {
	return s.client.Collection(colJournal)
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type messageDoc struct {
	UserID    string    `firestore:"user_id"`
	Content   string    `firestore:"content"`
	Role      string    `firestore:"role"`
	CreatedAt time.Time `firestore:"created_at"`
}

type moodDoc struct {
	Valence   float64   `firestore:"valence"`
	Arousal   float64   `firestore:"arousal"`
	Timestamp time.Time `firestore:"timestamp"`
	Notes     string    `firestore:"notes,omitempty"`
}

type journalDoc struct {
	UserID        string     `firestore:"user_id"`
	ActivityID    string     `firestore:"activity_id"`
	ActivityTitle string     `firestore:"activity_title"`
	StartedAt     *time.Time `firestore:"started_at"`
	CompletedAt   time.Time  `firestore:"completed_at"`
	MoodBefore    *moodDoc   `firestore:"mood_before"`
	MoodAfter     moodDoc    `firestore:"mood_after"`
}

func toMessageDoc(msg *domain.Message) messageDoc {
	return messageDoc{
		UserID:    string(msg.UserID),
		Content:   msg.Content,
		Role:      string(msg.Role),
		CreatedAt: msg.CreatedAt,
	}
}

func fromMessageDoc(id string, doc messageDoc) *domain.Message {
	return &domain.Message{
		ID:        domain.MessageID(id),
		UserID:    domain.UserID(doc.UserID),
		Content:   doc.Content,
		Role:      domain.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
	}
}

func toMoodDoc(m domain.MoodSample) moodDoc {
	return moodDoc{Valence: m.Valence, Arousal: m.Arousal, Timestamp: m.Timestamp, Notes: m.Notes}
}

func fromMoodDoc(d moodDoc) domain.MoodSample {
	return domain.MoodSample{Valence: d.Valence, Arousal: d.Arousal, Timestamp: d.Timestamp, Notes: d.Notes}
}

// ─────────────────────────────────────────
// MessageStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	_, err := s.messagesCol().Doc(string(msg.ID)).Set(ctx, toMessageDoc(msg))
	if err != nil {
		return fmt.Errorf("firestore AppendMessage: %w", err)
	}
	return nil
}

// ListMessages fetches the newest `limit` messages and returns them oldest first.
func (s *Store) ListMessages(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Message, error) {
	q := s.messagesCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Message
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListMessages: %w", err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}
		out = append(out, fromMessageDoc(snap.Ref.ID, doc))
	}

	slices.Reverse(out)
	return out, nil
}

func (s *Store) DeleteMessages(ctx context.Context, userID domain.UserID) error {
	iter := s.messagesCol().Where("user_id", "==", string(userID)).Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	n := 0
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			bw.End()
			return fmt.Errorf("firestore DeleteMessages: %w", err)
		}
		if _, err := bw.Delete(snap.Ref); err != nil {
			bw.End()
			return fmt.Errorf("firestore DeleteMessages enqueue: %w", err)
		}
		n++
		if n%maxBatch == 0 {
			bw.Flush()
		}
	}
	bw.End()
	return nil
}

// ─────────────────────────────────────────
// JournalStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendJournalEntry(entry *domain.JournalEntry) error {
	if entry == nil {
		return nil
	}
	ctx := context.Background()

	doc := journalDoc{
		UserID:        string(entry.UserID),
		ActivityID:    string(entry.ActivityID),
		ActivityTitle: entry.ActivityTitle,
		StartedAt:     entry.StartedAt,
		CompletedAt:   entry.CompletedAt,
		MoodAfter:     toMoodDoc(entry.MoodAfter),
	}
	if entry.MoodBefore != nil {
		before := toMoodDoc(*entry.MoodBefore)
		doc.MoodBefore = &before
	}

	ref := s.journalCol().NewDoc()
	if entry.ID != "" {
		ref = s.journalCol().Doc(string(entry.ID))
	}
	if _, err := ref.Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("journal entry %s: %w", entry.ID, domain.ErrDuplicateEntry)
		}
		return fmt.Errorf("firestore AppendJournalEntry: %w", err)
	}
	entry.ID = domain.JournalEntryID(ref.ID)
	return nil
}

func (s *Store) ListJournalEntriesByUser(userID domain.UserID, limit int) ([]*domain.JournalEntry, error) {
	ctx := context.Background()

	q := s.journalCol().Where("user_id", "==", string(userID)).OrderBy("completed_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.JournalEntry
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListJournalEntriesByUser: %w", err)
		}

		var doc journalDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode journalDoc: %w", err)
		}

		e := &domain.JournalEntry{
			ID:            domain.JournalEntryID(snap.Ref.ID),
			UserID:        domain.UserID(doc.UserID),
			ActivityID:    domain.ActivityID(doc.ActivityID),
			ActivityTitle: doc.ActivityTitle,
			StartedAt:     doc.StartedAt,
			CompletedAt:   doc.CompletedAt,
			MoodAfter:     fromMoodDoc(doc.MoodAfter),
		}
		if doc.MoodBefore != nil {
			before := fromMoodDoc(*doc.MoodBefore)
			e.MoodBefore = &before
		}
		out = append(out, e)
	}

	slices.Reverse(out)
	return out, nil
}
