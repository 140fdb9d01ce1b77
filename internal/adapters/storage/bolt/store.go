// Package bolt implements domain.LocalMessageStore on an embedded bbolt file.
// Each user's history lives under the key "chat_messages_<userID>" as one JSON
// array, so the file can be inspected with any bbolt viewer.
package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

var bucketChat = []byte("chat_messages")

const keyPrefix = "chat_messages_"

// Store implements domain.LocalMessageStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// record is the stored shape of one message.
type record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketChat)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key returns the storage key for a user's history.
func Key(userID domain.UserID) []byte {
	return []byte(keyPrefix + string(userID))
}

// LoadMessages returns the stored history in insertion order.
// A missing or unreadable value yields an empty history.
func (s *Store) LoadMessages(userID domain.UserID) ([]*domain.Message, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketChat).Get(Key(userID)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bbolt load: %w", err)
	}

	recs, ok := decode(raw)
	if !ok {
		observability.WithFields("user_id", userID).Warn("discarding malformed local chat history")
		return []*domain.Message{}, nil
	}

	out := make([]*domain.Message, 0, len(recs))
	for _, r := range recs {
		out = append(out, &domain.Message{
			ID:        domain.MessageID(r.ID),
			UserID:    userID,
			Content:   r.Content,
			Role:      domain.Role(r.Role),
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// AppendMessage adds msg to the end of its user's history.
func (s *Store) AppendMessage(msg *domain.Message) error {
	key := Key(msg.UserID)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketChat)
		recs, ok := decode(b.Get(key))
		if !ok {
			recs = nil
		}
		recs = append(recs, record{
			ID:        string(msg.ID),
			UserID:    string(msg.UserID),
			Content:   msg.Content,
			Role:      string(msg.Role),
			CreatedAt: msg.CreatedAt,
		})
		data, err := json.Marshal(recs)
		if err != nil {
			return fmt.Errorf("marshal local history: %w", err)
		}
		return b.Put(key, data)
	})
}

// DeleteMessages removes the user's whole history.
func (s *Store) DeleteMessages(userID domain.UserID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketChat).Delete(Key(userID))
	})
}

// PutRaw stores value verbatim under the user's key. Used to import a
// history exported from another device.
func (s *Store) PutRaw(userID domain.UserID, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketChat).Put(Key(userID), value)
	})
}

func decode(raw []byte) ([]record, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	var recs []record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, false
	}
	return recs, true
}
