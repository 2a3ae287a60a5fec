package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ghostodon/dto"
	"ghostodon/logic"
)

const maxCliPages = 20

func printStatus(w io.Writer, s *dto.Status) {
	booster, original, isBoost := s.Boost()
	header := "@" + original.Account.Acct
	if isBoost {
		header += "  (boosted by @" + booster.Acct + ")"
	}
	fmt.Fprintf(w, "%s  %s  [%s]\n", header, original.CreatedAt, s.Id)
	if original.SpoilerText != "" {
		fmt.Fprintf(w, "CW: %s\n", original.SpoilerText)
	}
	if text := logic.HtmlToText(original.ContentHtml); text != "" {
		fmt.Fprintln(w, text)
	}
	for _, m := range original.Media {
		fmt.Fprintf(w, "  [%s] %s\n", m.Type, m.Url)
	}
	fmt.Fprintln(w)
}

func printAccount(w io.Writer, a *dto.Account) {
	fmt.Fprintf(w, "@%s  %s  [%s]\n", a.Acct, a.DisplayName, a.Id)
}

func newTimelineCmd() *cobra.Command {
	var pages int
	var filter string
	cmd := &cobra.Command{
		Use:   "timeline [feed] [arg]",
		Short: "Print a feed: home, local, federated, tag <name>, list <id>, account <id>, thread <id>, followers <id>...",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := logic.FeedRef{Kind: logic.FeedHome}
			if len(args) > 0 {
				kind, err := logic.ParseFeedKind(args[0])
				if err != nil {
					return err
				}
				ref.Kind = kind
			}
			if len(args) > 1 {
				ref.Arg = args[1]
			}
			if pages < 1 || pages > maxCliPages {
				return fmt.Errorf("--pages must be between 1 and %d", maxCliPages)
			}
			return withCore(func(ctx context.Context, core *cliCore) error {
				return printFeed(ctx, core, ref, pages, filter)
			})
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().StringVar(&filter, "filter", "", "only show posts whose author or text contains this")
	return cmd
}

func printFeed(ctx context.Context, core *cliCore, ref logic.FeedRef, pages int, filter string) error {
	out := os.Stdout
	switch ref.Kind {
	case logic.FeedNotifications:
		pager, err := core.Feeds.Notifications()
		if err != nil {
			return err
		}
		if err = fetchPages(ctx, pager, pages); err != nil {
			return err
		}
		for _, n := range pager.Items() {
			who := ""
			if n.Account != nil {
				who = "@" + n.Account.Acct
			}
			fmt.Fprintf(out, "%-12s %s  %s\n", n.Type, who, n.CreatedAt)
			if n.Status != nil {
				fmt.Fprintf(out, "    %s\n", logic.HtmlToText(n.Status.ContentHtml))
			}
		}
	case logic.FeedFollowers, logic.FeedFollowing:
		pager, err := core.Feeds.Accounts(ref)
		if err != nil {
			return err
		}
		if err = fetchPages(ctx, pager, pages); err != nil {
			return err
		}
		for _, a := range pager.Items() {
			printAccount(out, &a)
		}
	default:
		pager, err := core.Feeds.Statuses(ref)
		if err != nil {
			return err
		}
		if err = fetchPages(ctx, pager, pages); err != nil {
			return err
		}
		items := logic.FilterStatuses(logic.DedupeById(pager.Items()), filter)
		for i := range items {
			printStatus(out, &items[i])
		}
	}
	return nil
}

func fetchPages[T dto.Identified](ctx context.Context, pager *logic.Pager[T], pages int) error {
	for i := 0; i < pages; i++ {
		fetched, err := pager.FetchNext(ctx)
		if err != nil {
			return err
		}
		if !fetched || !pager.HasMore() {
			return nil
		}
	}
	return nil
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <acct-or-id>",
		Short: "Find an account by ID, @user or @user@instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(func(ctx context.Context, core *cliCore) error {
				client, err := core.client()
				if err != nil {
					return err
				}
				resolver := logic.NewAccountResolver(core.Logger, client.Accounts, client.Search)
				account, err := resolver.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				printAccount(os.Stdout, &account)
				return nil
			})
		},
	}
}
