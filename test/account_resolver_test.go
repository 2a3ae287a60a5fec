package test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ghostodon/dto"
	"ghostodon/logic"
	"ghostodon/shared"
	"ghostodon/test/mocks"
)

type resolverHarness struct {
	mockLogger   *mocks.MockILogger
	mockAccounts *mocks.MockIAccountsApi
	mockSearch   *mocks.MockISearchApi
}

func setupResolverTest(t *testing.T) (*gomock.Controller, *resolverHarness, logic.IAccountResolver) {

	ctrl := gomock.NewController(t)

	h := &resolverHarness{
		mockLogger:   mocks.NewMockILogger(ctrl),
		mockAccounts: mocks.NewMockIAccountsApi(ctrl),
		mockSearch:   mocks.NewMockISearchApi(ctrl),
	}
	setupDummyLogger(h.mockLogger)

	ar := logic.NewAccountResolver(h.mockLogger, h.mockAccounts, h.mockSearch)
	return ctrl, h, ar
}

func TestResolveNumericIdIsSingleCall(t *testing.T) {
	ctrl, h, ar := setupResolverTest(t)
	defer ctrl.Finish()

	h.mockAccounts.EXPECT().Get(gomock.Any(), "109876").
		Return(dto.Account{Id: "109876", Acct: "alice"}, nil).Times(1)

	acct, err := ar.Resolve(context.Background(), "109876")
	assert.Nil(t, err)
	assert.Equal(t, "alice", acct.Acct)
}

func TestResolveNumericIdFailureDoesNotSearch(t *testing.T) {
	ctrl, h, ar := setupResolverTest(t)
	defer ctrl.Finish()

	cause := shared.Wrap(&shared.HttpStatusError{Status: 404, StatusText: "Not Found"}, shared.KindHttp, "accounts.get failed")
	h.mockAccounts.EXPECT().Get(gomock.Any(), "42").Return(dto.Account{}, cause).Times(1)

	_, err := ar.Resolve(context.Background(), "@42")
	assert.ErrorIs(t, err, logic.ErrAccountNotFound)
	assert.ErrorIs(t, err, cause)
}

func TestResolveLookupStripsAt(t *testing.T) {
	ctrl, h, ar := setupResolverTest(t)
	defer ctrl.Finish()

	h.mockAccounts.EXPECT().Lookup(gomock.Any(), "bob@example.social").
		Return(dto.Account{Id: "7", Acct: "bob@example.social"}, nil).Times(1)

	acct, err := ar.Resolve(context.Background(), "  @bob@example.social ")
	assert.Nil(t, err)
	assert.Equal(t, "7", acct.Id)
}

func TestResolveFallsBackToResolvingSearch(t *testing.T) {
	ctrl, h, ar := setupResolverTest(t)
	defer ctrl.Finish()

	h.mockAccounts.EXPECT().Lookup(gomock.Any(), "carol@far.away").
		Return(dto.Account{}, errors.New("lookup failed")).Times(1)
	h.mockSearch.EXPECT().
		Query(gomock.Any(), "carol@far.away", logic.SearchParams{Type: logic.SearchAccounts, Limit: 1, Resolve: true}).
		Return(dto.SearchResult{Accounts: []dto.Account{{Id: "900", Acct: "carol@far.away"}}}, nil).Times(1)

	acct, err := ar.Resolve(context.Background(), "carol@far.away")
	assert.Nil(t, err)
	assert.Equal(t, "900", acct.Id)
}

func TestResolveNotFoundAnywhere(t *testing.T) {
	ctrl, h, ar := setupResolverTest(t)
	defer ctrl.Finish()

	h.mockAccounts.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(dto.Account{}, errors.New("lookup failed"))
	h.mockSearch.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.SearchResult{}, nil)

	_, err := ar.Resolve(context.Background(), "nobody@nowhere.example")
	assert.ErrorIs(t, err, logic.ErrAccountNotFound)
	assert.Equal(t, "Account not found", err.Error())

	var tagged *shared.TaggedError
	assert.True(t, errors.As(err, &tagged))
	assert.Equal(t, http.StatusNotFound, tagged.HttpStatus)
}

func TestResolveEmptyInput(t *testing.T) {
	ctrl, _, ar := setupResolverTest(t)
	defer ctrl.Finish()

	_, err := ar.Resolve(context.Background(), " @ ")
	assert.ErrorIs(t, err, logic.ErrAccountNotFound)
}

func TestResolveUnknownRemoteAccountAgainstInstance(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.json("GET", "/api/v2/search", 200, `{"accounts":[],"statuses":[],"hashtags":[]}`)

	ar := logic.NewAccountResolver(h.mockLogger, client.Accounts, client.Search)
	_, err := ar.Resolve(context.Background(), "@nonexistent@remote.example")
	assert.ErrorIs(t, err, logic.ErrAccountNotFound)
	assert.Equal(t, "Account not found", err.Error())

	lookup := h.instance.last("/api/v1/accounts/lookup")
	if assert.NotNil(t, lookup) {
		assert.Equal(t, "nonexistent@remote.example", lookup.query.Get("acct"))
	}
	search := h.instance.last("/api/v2/search")
	if assert.NotNil(t, search) {
		assert.Equal(t, "true", search.query.Get("resolve"))
		assert.Equal(t, "accounts", search.query.Get("type"))
	}
}
