package logic

import (
	"context"
	"net/http"

	"ghostodon/dto"
	"ghostodon/shared"
)

const msgAccountNotFound = "Account not found"

// ErrAccountNotFound is returned by Resolve whichever step failed; the step's own error is the cause.
var ErrAccountNotFound = shared.NewError(shared.KindHttp, msgAccountNotFound)

type IAccountResolver interface {
	Resolve(ctx context.Context, acctOrId string) (dto.Account, error)
}

type accountResolver struct {
	logger   shared.ILogger
	accounts IAccountsApi
	search   ISearchApi
}

func NewAccountResolver(logger shared.ILogger, accounts IAccountsApi, search ISearchApi) IAccountResolver {
	return &accountResolver{logger, accounts, search}
}

func (ar *accountResolver) Resolve(ctx context.Context, acctOrId string) (dto.Account, error) {

	q := shared.StripAt(acctOrId)
	if q == "" {
		return dto.Account{}, notFound(nil)
	}

	// Numeric input is an account ID and nothing else
	if shared.IsIdLike(q) {
		acct, err := ar.accounts.Get(ctx, q)
		if err != nil || acct.Id == "" {
			return dto.Account{}, notFound(err)
		}
		return acct, nil
	}

	acct, err := ar.accounts.Lookup(ctx, q)
	if err == nil && acct.Id != "" {
		return acct, nil
	}
	ar.logger.Debugf("Lookup of %s failed, trying resolving search: %v", q, err)

	// The server fetches accounts it has never seen from their home instance
	res, err := ar.search.Query(ctx, q, SearchParams{Type: SearchAccounts, Limit: 1, Resolve: true})
	if err != nil {
		return dto.Account{}, notFound(err)
	}
	for _, a := range res.Accounts {
		if a.Id != "" {
			return a, nil
		}
	}
	return dto.Account{}, notFound(nil)
}

func notFound(cause error) *shared.TaggedError {
	return &shared.TaggedError{
		Kind:       shared.KindHttp,
		Message:    msgAccountNotFound,
		HttpStatus: http.StatusNotFound,
		Cause:      cause,
	}
}
