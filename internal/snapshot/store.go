// Package snapshot persists registry listings locally so tooling can answer
// queries without hitting the registry.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	edbo "github.com/edbo-tools/edbo-go"
)

// ErrNotFound is returned when no snapshot exists for the requested key.
var ErrNotFound = errors.New("snapshot: not found")

// Store is a Badger-backed snapshot store. Keys:
//   - "uni:<region>:<category>"  -> UniversityRecord (JSON)
//   - "inst:<region>:<category>" -> InstitutionRecord (JSON)
type Store struct {
	db *badger.DB
}

// UniversityRecord is one persisted university listing.
type UniversityRecord struct {
	Region       edbo.Region             `json:"region"`
	Category     edbo.UniversityCategory `json:"category"`
	FetchedAt    time.Time               `json:"fetched_at"`
	Universities []edbo.UniversityBrief  `json:"universities"`
}

// InstitutionRecord is one persisted institution listing.
type InstitutionRecord struct {
	Region       edbo.Region              `json:"region"`
	Category     edbo.InstitutionCategory `json:"category"`
	FetchedAt    time.Time                `json:"fetched_at"`
	Institutions []edbo.Institution       `json:"institutions"`
}

// Open opens (or creates) a snapshot store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// PutUniversities stores a university listing for a region and category.
func (s *Store) PutUniversities(rec *UniversityRecord) error {
	return s.put(universityKey(rec.Region, rec.Category), rec)
}

// GetUniversities loads the stored university listing, or ErrNotFound.
func (s *Store) GetUniversities(region edbo.Region, category edbo.UniversityCategory) (*UniversityRecord, error) {
	var rec UniversityRecord
	if err := s.get(universityKey(region, category), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PutInstitutions stores an institution listing for a region and category.
func (s *Store) PutInstitutions(rec *InstitutionRecord) error {
	return s.put(institutionKey(rec.Region, rec.Category), rec)
}

// GetInstitutions loads the stored institution listing, or ErrNotFound.
func (s *Store) GetInstitutions(region edbo.Region, category edbo.InstitutionCategory) (*InstitutionRecord, error) {
	var rec InstitutionRecord
	if err := s.get(institutionKey(region, category), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Keys lists every stored snapshot key, sorted by Badger's iteration order.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Store) put(key string, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), buf)
	})
}

func (s *Store) get(key string, v any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func universityKey(region edbo.Region, category edbo.UniversityCategory) string {
	return strings.Join([]string{"uni", region.String(), category.String()}, ":")
}

func institutionKey(region edbo.Region, category edbo.InstitutionCategory) string {
	return strings.Join([]string{"inst", region.String(), category.String()}, ":")
}
