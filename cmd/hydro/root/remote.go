package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/remote"
	"github.com/limbo/hydrobuddy/pkg/dateutil"
	"github.com/spf13/cobra"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Talk to the hosted HydroBuddy API",
	}
	cmd.AddCommand(newRemoteLoginCmd(), newRemoteLogoutCmd(), newRemoteDrinkCmd(), newRemoteHistoryCmd())
	return cmd
}

func openRemote(ctx context.Context) (*remote.Client, error) {
	kv, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	return remote.New(cfg.Remote.BaseURL, kv), nil
}

func newRemoteLoginCmd() *cobra.Command {
	var creds remote.Credentials
	var register bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in (or sign up with --register) and keep the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := openRemote(ctx)
			if err != nil {
				return err
			}
			if register {
				if _, err := client.Register(ctx, creds); err != nil {
					return err
				}
			}
			if _, err := client.Login(ctx, creds); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), Good.Render("Logged in as "+creds.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Name, "name", "", "display name, used with --register")
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	cmd.Flags().BoolVar(&register, "register", false, "create the account first")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRemoteLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := openRemote(ctx)
			if err != nil {
				return err
			}
			return client.Logout(ctx)
		},
	}
}

func newRemoteDrinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drink ml",
		Short: "Log intake on the hosted API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[0])
			if err != nil || amount <= 0 {
				return errors.Join(errorvalues.ErrValidation, errors.New("amount must be a positive whole number of ml"))
			}
			ctx := context.Background()
			client, err := openRemote(ctx)
			if err != nil {
				return err
			}
			today, err := client.AddIntake(ctx, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s +%d ml (%d ml today)\n", IconDrop, amount, today.AmountMl)
			return nil
		},
	}
}

func newRemoteHistoryCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Fetch intake history from the hosted API (last 7 days by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := openRemote(ctx)
			if err != nil {
				return err
			}
			if start == "" || end == "" {
				days := dateutil.LastNDays(time.Now(), 7)
				start, end = days[0], days[len(days)-1]
			}
			hist, err := client.History(ctx, start, end)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, Heading(IconDrop, "Remote history "+start+" to "+end))
			for _, d := range hist {
				fmt.Fprintf(out, "%s %s %s\n", dateutil.DayName(d.Date), dateutil.DisplayDate(d.Date), Muted.Render(fmt.Sprintf("%d ml", d.AmountMl)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	return cmd
}
