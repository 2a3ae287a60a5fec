package test

import (
	"go.uber.org/mock/gomock"

	"ghostodon/test/mocks"
)

// Variadic methods need two matchers: gomock matches the trailing one against the whole variadic tail.
func setupDummyLogger(mockLogger *mocks.MockILogger) {
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Printf(gomock.Any(), gomock.Any()).AnyTimes()
}

func setupDummyMetrics(ctrl *gomock.Controller, mockMetrics *mocks.MockIMetrics) {
	obs := mocks.NewMockIRequestObserver(ctrl)
	obs.EXPECT().Finish().AnyTimes()
	mockMetrics.EXPECT().StartWebRequestIn(gomock.Any()).Return(obs).AnyTimes()
	mockMetrics.EXPECT().StartApiRequestOut(gomock.Any()).Return(obs).AnyTimes()
	mockMetrics.EXPECT().PageFetched(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().AuthOutcome(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().StreamEvent(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().StreamDecodeError().AnyTimes()
	mockMetrics.EXPECT().ServiceStarted().AnyTimes()
	mockMetrics.EXPECT().SessionActive(gomock.Any()).AnyTimes()
}

func setupDummyUserAgent(mockUserAgent *mocks.MockIUserAgent) {
	mockUserAgent.EXPECT().Value().Return("Ghostodon/test").AnyTimes()
	mockUserAgent.EXPECT().AddUserAgent(gomock.Any()).AnyTimes()
}

func checkStartsWith(prefix string) func(x any) bool {
	return func(x any) bool {
		str, ok := x.(string)
		if !ok {
			return false
		}
		return len(str) >= len(prefix) && str[:len(prefix)] == prefix
	}
}
