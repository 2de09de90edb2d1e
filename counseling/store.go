package counseling

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// persistDB, when set, enables the MySQL mirror of the counseling store.
var persistDB *sql.DB

// SetPersistDB allows main() to enable DB-backed mirroring.
func SetPersistDB(db *sql.DB) {
	persistDB = db
}

// Store persists counseling records as one JSON file per (language,
// normalized medicine) under a language-scoped directory. Writes are atomic
// file replaces; read errors degrade to a cache miss.
type Store struct {
	dir string
	log *logrus.Logger
}

func NewStore(dir string, log *logrus.Logger) *Store {
	return &Store{dir: dir, log: log}
}

func (s *Store) path(lang, medicine string) string {
	return filepath.Join(s.dir, lang, medicine+".json")
}

// Load returns the record for an already-normalized medicine key, upgrading
// legacy flat-text records to the sectioned schema on first read. The second
// return reports whether a usable record was found.
func (s *Store) Load(lang, medicine string) (*Record, bool) {
	rec, ok := s.loadFile(lang, medicine)
	if !ok && persistDB != nil {
		rec, ok = s.loadDB(lang, medicine)
	}
	if !ok {
		return nil, false
	}

	if len(rec.Sections) == 0 {
		if rec.AICounseling == "" {
			return nil, false
		}
		rec.Sections = SplitSections(rec.AICounseling)
		rec.AICounseling = ""
		// One-way schema upgrade; rewrite is best-effort.
		if err := s.Save(rec); err != nil {
			s.log.WithError(err).WithField("medicine", medicine).Warn("could not rewrite upgraded record")
		}
	}
	return rec, true
}

func (s *Store) loadFile(lang, medicine string) (*Record, bool) {
	b, err := os.ReadFile(s.path(lang, medicine))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).WithField("medicine", medicine).Warn("record read failed, treating as cache miss")
		}
		return nil, false
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		s.log.WithError(err).WithField("medicine", medicine).Warn("record unreadable, treating as cache miss")
		return nil, false
	}
	rec.Language = lang
	if rec.Medicine == "" {
		rec.Medicine = medicine
	}
	return &rec, true
}

// Save writes the record with an atomic rename and mirrors it to the DB when
// enabled. The file is the source of truth; the mirror is best-effort.
func (s *Store) Save(rec *Record) error {
	dir := filepath.Join(s.dir, rec.Language)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path(rec.Language, rec.Medicine)); err != nil {
		os.Remove(tmp)
		return err
	}

	if persistDB != nil {
		if err := s.saveDB(rec, b); err != nil {
			s.log.WithError(err).WithField("medicine", rec.Medicine).Warn("db mirror write failed")
		}
	}
	return nil
}

func (s *Store) loadDB(lang, medicine string) (*Record, bool) {
	var payload []byte
	err := persistDB.QueryRow(
		`SELECT payload FROM counseling_records WHERE language = ? AND medicine = ?`,
		lang, medicine,
	).Scan(&payload)
	if err != nil {
		return nil, false
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, false
	}
	rec.Language = lang
	if rec.Medicine == "" {
		rec.Medicine = medicine
	}
	return &rec, true
}

func (s *Store) saveDB(rec *Record, payload []byte) error {
	_, err := persistDB.Exec(
		`INSERT INTO counseling_records (language, medicine, payload) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE payload = VALUES(payload)`,
		rec.Language, rec.Medicine, payload,
	)
	return err
}
