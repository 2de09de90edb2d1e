package counseling

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"medcounsel-backend/druginfo"
	"medcounsel-backend/metrics"
)

const memoSize = 256

// Service implements the cache-or-generate flow for counseling text and the
// lazy, at-most-once audio synthesis per (medicine, language) key.
//
// A record moves through: no record -> generating -> persisted. Generation
// failures persist nothing, so a later request retries cleanly. Concurrent
// first requests for the same key are collapsed into a single provider call.
type Service struct {
	store     *Store
	ai        Counselor
	voicesDir string
	log       *logrus.Logger

	group singleflight.Group
	memo  *lru.Cache[string, *Record]
}

func NewService(store *Store, ai Counselor, voicesDir string, log *logrus.Logger) *Service {
	memo, _ := lru.New[string, *Record](memoSize)
	return &Service{store: store, ai: ai, voicesDir: voicesDir, log: log, memo: memo}
}

// GetOrCreate returns the counseling record for the key, generating and
// persisting it on first request. After the first success it never calls the
// provider again for that key.
func (s *Service) GetOrCreate(ctx context.Context, medicine, lang string) (*Record, error) {
	name := druginfo.Normalize(medicine)
	key := lang + "/" + name

	if rec, ok := s.memo.Get(key); ok {
		metrics.CounselingCacheHits.Inc()
		return rec, nil
	}
	if rec, ok := s.store.Load(lang, name); ok {
		metrics.CounselingCacheHits.Inc()
		s.memo.Add(key, rec)
		return rec, nil
	}

	metrics.CounselingCacheMisses.Inc()
	v, err, _ := s.group.Do(key, func() (any, error) {
		// A concurrent caller may have finished while this one queued.
		if rec, ok := s.store.Load(lang, name); ok {
			return rec, nil
		}
		text, err := s.ai.GenerateCounseling(ctx, medicine, lang)
		if err != nil {
			metrics.ProviderFailures.WithLabelValues("counseling").Inc()
			return nil, err
		}
		rec := &Record{
			Medicine: name,
			Language: lang,
			Sections: SplitSections(text),
		}
		// Persist before serving so a crash cannot leave a served result
		// that the next request would regenerate differently.
		if err := s.store.Save(rec); err != nil {
			s.log.WithError(err).WithField("medicine", name).Warn("record write failed, serving unpersisted result")
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	rec := v.(*Record)
	s.memo.Add(key, rec)
	return rec, nil
}

// EnsureAudio synthesizes and persists the spoken rendering once per key and
// returns its public URL. It returns "" when no audio is available; audio
// failure never fails the counseling request. The audio reflects the text at
// creation time and is not regenerated if the record changes out-of-band.
func (s *Service) EnsureAudio(ctx context.Context, medicine, lang, text string) string {
	if text == "" {
		return ""
	}
	name := druginfo.Normalize(medicine)
	url := "/voices/" + lang + "/" + name + ".mp3"
	path := filepath.Join(s.voicesDir, lang, name+".mp3")

	if _, err := os.Stat(path); err == nil {
		return url
	}

	audio, err := s.ai.Synthesize(ctx, text)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("tts").Inc()
		s.log.WithError(err).WithField("medicine", name).Warn("speech synthesis failed")
		return ""
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.log.WithError(err).Warn("could not create voices dir")
		return ""
	}
	tmp := filepath.Join(filepath.Dir(path), "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, audio, 0o644); err != nil {
		s.log.WithError(err).Warn("audio write failed")
		return ""
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		s.log.WithError(err).Warn("audio rename failed")
		return ""
	}
	metrics.AudioGenerated.Inc()
	return url
}
