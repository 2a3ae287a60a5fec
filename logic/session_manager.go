package logic

import (
	"strconv"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"

	"ghostodon/dal"
	"ghostodon/dto"
	"ghostodon/shared"
)

// ISessionManager owns the single active session. Get returns a copy.
type ISessionManager interface {
	Get() (dto.Session, bool)
	Set(sess dto.Session) error
	Clear() error
	// Fingerprint changes whenever the session does; empty without a session.
	Fingerprint() string
}

type sessionManager struct {
	logger  shared.ILogger
	repo    dal.IRepo
	metrics IMetrics
	mu      sync.RWMutex
	sess    *dto.Session
}

func NewSessionManager(logger shared.ILogger, repo dal.IRepo, metrics IMetrics) ISessionManager {
	res := sessionManager{
		logger:  logger,
		repo:    repo,
		metrics: metrics,
	}
	stored, err := repo.GetSession()
	if err != nil {
		logger.Errorf("Failed to load stored session; starting logged out: %v", err)
	} else if stored != nil {
		res.sess = &dto.Session{
			Origin:    stored.Origin,
			Token:     stored.Token,
			AccountId: stored.AccountId,
			Acct:      stored.Acct,
		}
		logger.Infof("Restored session for %s at %s", stored.Acct, stored.Origin)
	}
	metrics.SessionActive(res.sess != nil)
	return &res
}

func (sm *sessionManager) Get() (dto.Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.sess == nil {
		return dto.Session{}, false
	}
	return *sm.sess, true
}

func (sm *sessionManager) Set(sess dto.Session) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	err := sm.repo.SaveSession(&dal.Session{
		Origin:    sess.Origin,
		Token:     sess.Token,
		AccountId: sess.AccountId,
		Acct:      sess.Acct,
		SavedAt:   time.Now().UTC(),
	})
	if err != nil {
		return shared.Wrap(err, shared.KindUnknown, "failed to persist session")
	}
	sm.sess = &sess
	sm.metrics.SessionActive(true)
	sm.logger.Infof("Session set: %s at %s (token %s)", sess.Acct, sess.Origin, shared.TokenPrefix(sess.Token))
	return nil
}

func (sm *sessionManager) Clear() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := sm.repo.DeleteSession(); err != nil {
		return shared.Wrap(err, shared.KindUnknown, "failed to clear session")
	}
	sm.sess = nil
	sm.metrics.SessionActive(false)
	sm.logger.Info("Session cleared")
	return nil
}

func (sm *sessionManager) Fingerprint() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.sess == nil {
		return ""
	}
	return sessionFingerprint(*sm.sess)
}

func sessionFingerprint(sess dto.Session) string {
	hasher := murmur3.New32()
	_, _ = hasher.Write([]byte(sess.Origin + "\t" + sess.AccountId + "\t" + sess.Token))
	return strconv.FormatUint(uint64(hasher.Sum32()), 16)
}
