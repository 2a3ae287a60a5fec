package test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ghostodon/dal"
	"ghostodon/dto"
	"ghostodon/logic"
	"ghostodon/test/mocks"
)

type sessionHarness struct {
	mockLogger  *mocks.MockILogger
	mockRepo    *mocks.MockIRepo
	mockMetrics *mocks.MockIMetrics
}

func setupSessionTest(t *testing.T, stored *dal.Session, loadErr error) (*gomock.Controller, *sessionHarness, logic.ISessionManager) {

	ctrl := gomock.NewController(t)

	h := &sessionHarness{
		mockLogger:  mocks.NewMockILogger(ctrl),
		mockRepo:    mocks.NewMockIRepo(ctrl),
		mockMetrics: mocks.NewMockIMetrics(ctrl),
	}
	setupDummyLogger(h.mockLogger)
	setupDummyMetrics(ctrl, h.mockMetrics)

	h.mockRepo.EXPECT().GetSession().Return(stored, loadErr).Times(1)
	sm := logic.NewSessionManager(h.mockLogger, h.mockRepo, h.mockMetrics)
	return ctrl, h, sm
}

func TestSessionRestoredOnStart(t *testing.T) {
	stored := &dal.Session{Origin: "https://mastodon.social", Token: "tok1", AccountId: "5", Acct: "alice"}
	ctrl, _, sm := setupSessionTest(t, stored, nil)
	defer ctrl.Finish()

	sess, ok := sm.Get()
	assert.True(t, ok)
	assert.Equal(t, dto.Session{Origin: "https://mastodon.social", Token: "tok1", AccountId: "5", Acct: "alice"}, sess)
	assert.NotEmpty(t, sm.Fingerprint())
}

func TestSessionLoadErrorStartsLoggedOut(t *testing.T) {
	ctrl, _, sm := setupSessionTest(t, nil, errors.New("disk on fire"))
	defer ctrl.Finish()

	_, ok := sm.Get()
	assert.False(t, ok)
	assert.Equal(t, "", sm.Fingerprint())
}

func TestSessionSetPersistsAndChangesFingerprint(t *testing.T) {
	ctrl, h, sm := setupSessionTest(t, nil, nil)
	defer ctrl.Finish()

	h.mockRepo.EXPECT().SaveSession(gomock.Cond(func(x any) bool {
		s, ok := x.(*dal.Session)
		return ok && s.Token == "tok1" && s.Origin == "https://a.example" && !s.SavedAt.IsZero()
	})).Return(nil).Times(1)
	h.mockRepo.EXPECT().SaveSession(gomock.Cond(func(x any) bool {
		s, ok := x.(*dal.Session)
		return ok && s.Token == "tok2"
	})).Return(nil).Times(1)

	assert.Nil(t, sm.Set(dto.Session{Origin: "https://a.example", Token: "tok1", AccountId: "1"}))
	fp1 := sm.Fingerprint()
	assert.NotEmpty(t, fp1)

	assert.Nil(t, sm.Set(dto.Session{Origin: "https://a.example", Token: "tok2", AccountId: "1"}))
	assert.NotEqual(t, fp1, sm.Fingerprint())

	// Get hands out copies
	sess, _ := sm.Get()
	sess.Token = "mutated"
	again, _ := sm.Get()
	assert.Equal(t, "tok2", again.Token)
}

func TestSessionSetFailureKeepsPrevious(t *testing.T) {
	stored := &dal.Session{Origin: "https://a.example", Token: "tok1", AccountId: "1"}
	ctrl, h, sm := setupSessionTest(t, stored, nil)
	defer ctrl.Finish()

	h.mockRepo.EXPECT().SaveSession(gomock.Any()).Return(errors.New("read-only")).Times(1)

	err := sm.Set(dto.Session{Origin: "https://b.example", Token: "tok9"})
	assert.NotNil(t, err)
	sess, ok := sm.Get()
	assert.True(t, ok)
	assert.Equal(t, "tok1", sess.Token)
}

func TestSessionClear(t *testing.T) {
	stored := &dal.Session{Origin: "https://a.example", Token: "tok1", AccountId: "1"}
	ctrl, h, sm := setupSessionTest(t, stored, nil)
	defer ctrl.Finish()

	h.mockRepo.EXPECT().DeleteSession().Return(nil).Times(1)

	assert.Nil(t, sm.Clear())
	_, ok := sm.Get()
	assert.False(t, ok)
	assert.Equal(t, "", sm.Fingerprint())
}
