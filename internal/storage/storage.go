package storage

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keySession     = "session"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	prefixGame     = "game/"
)

// Preferences stores user settings that survive restarts.
type Preferences struct {
	EnginePath    string    `json:"engine_path"`
	EngineArgs    []string  `json:"engine_args,omitempty"`
	EngineHash    int       `json:"engine_hash,omitempty"`
	EngineMultiPV int       `json:"engine_multipv,omitempty"`
	EngineDepth   int       `json:"engine_depth,omitempty"`
	VariantsFile  string    `json:"variants_file"`
	SoundEnabled  bool      `json:"sound_enabled"`
	Flipped       bool      `json:"flipped"`
	AnalysisOn    bool      `json:"analysis_on"`
	LastPlayed    time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		SoundEnabled: true,
		LastPlayed:   time.Now(),
	}
}

// Session is the game in progress, saved after every move.
type Session struct {
	Variant   string    `json:"variant"`
	StartFEN  string    `json:"start_fen"`
	Moves     []string  `json:"moves"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database under root (the platform data directory
// when root is empty).
func NewStorage(root string) (*Storage, error) {
	dbDir, err := GetDatabaseDir(root)
	if err != nil {
		return nil, err
	}
	log.Printf("Database directory: %s", dbDir)
	return open(badger.DefaultOptions(dbDir))
}

// NewMemoryStorage opens a throwaway in-memory database.
func NewMemoryStorage() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	found, err := s.get(keyFirstLaunch, nil)
	return !found, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveSession stores the game in progress.
func (s *Storage) SaveSession(sess *Session) error {
	sess.UpdatedAt = time.Now()
	return s.put(keySession, sess)
}

// LoadSession returns the saved game, or nil if there is none.
func (s *Storage) LoadSession() (*Session, error) {
	sess := &Session{}
	found, err := s.get(keySession, sess)
	if err != nil || !found {
		return nil, err
	}
	return sess, nil
}

// ClearSession forgets the saved game.
func (s *Storage) ClearSession() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keySession))
	})
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value under key into v (v may be nil to only test for the key).
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		if v == nil {
			return nil
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
