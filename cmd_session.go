package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"ghostodon/dal"
	"ghostodon/dto"
	"ghostodon/logic"
	"ghostodon/shared"
	"ghostodon/texts"
)

// cliCore is what the command line needs from the container.
type cliCore struct {
	fx.In
	Cfg      *shared.Config
	Logger   shared.ILogger
	Repo     dal.IRepo
	Sessions logic.ISessionManager
	Clients  logic.IClientFactory
	Auth     logic.IAuthFlow
	Feeds    logic.IFeeds
	Blocked  logic.IBlockedInstances
	Texts    texts.ITexts
}

// loadCore builds the core without the HTTP server. The log goes to the log file only.
func loadCore() (*cliCore, error) {
	cfg := shared.LoadConfig()
	logger = initLogger(cfg, nil)
	var res cliCore
	app := fx.New(
		coreOptions(cfg, logger),
		fx.Invoke(func(c cliCore) { res = c }),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return &res, nil
}

// withCore runs fn against a freshly loaded core and closes the database afterwards.
func withCore(fn func(ctx context.Context, core *cliCore) error) error {
	core, err := loadCore()
	if err != nil {
		return err
	}
	defer core.Repo.Close()
	return fn(context.Background(), core)
}

func (core *cliCore) client() (*logic.Client, error) {
	sess, ok := core.Sessions.Get()
	if !ok {
		return nil, logic.ErrNotConnected
	}
	return core.Clients.ForSession(sess), nil
}

func countStr(val *int64) string {
	if val == nil {
		return "?"
	}
	return strconv.FormatInt(*val, 10)
}

func printWhoami(core *cliCore, origin string, account *dto.Account) {
	fmt.Print(core.Texts.WithVals("whoami.txt", map[string]string{
		"acct":         account.Acct,
		"display_name": account.DisplayName,
		"origin":       origin,
		"account_id":   account.Id,
		"followers":    countStr(account.FollowersCount),
		"following":    countStr(account.FollowingCount),
		"statuses":     countStr(account.StatusesCount),
	}))
}

func checkNotBlocked(core *cliCore, origin string) error {
	isBlocked, err := core.Blocked.IsBlocked(origin)
	if err != nil {
		return err
	}
	if isBlocked {
		return logic.ErrInstanceBlocked
	}
	return nil
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <instance>",
		Short: "Print the OAuth authorization URL; the running server completes the login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(func(ctx context.Context, core *cliCore) error {
				if err := checkNotBlocked(core, args[0]); err != nil {
					return err
				}
				authorizeUrl, err := core.Auth.BeginLogin(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Println("Open this URL in a browser and approve access:")
				fmt.Println(authorizeUrl)
				return nil
			})
		},
	}
}

func newConnectCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "connect <instance>",
		Short: "Connect with an access token created in the instance's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("GHOSTODON_TOKEN")
			}
			return withCore(func(ctx context.Context, core *cliCore) error {
				if err := checkNotBlocked(core, args[0]); err != nil {
					return err
				}
				account, err := core.Auth.ConnectWithToken(ctx, args[0], token)
				if err != nil {
					return err
				}
				sess, _ := core.Sessions.Get()
				printWhoami(core, sess.Origin, account)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "access token (default: $GHOSTODON_TOKEN)")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(func(ctx context.Context, core *cliCore) error {
				client, err := core.client()
				if err != nil {
					return err
				}
				account, err := client.Accounts.Verify(ctx)
				if err != nil {
					return err
				}
				printWhoami(core, client.Session.Origin, &account)
				return nil
			})
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(func(ctx context.Context, core *cliCore) error {
				if err := core.Sessions.Clear(); err != nil {
					return err
				}
				fmt.Println("Logged out.")
				return nil
			})
		},
	}
}
