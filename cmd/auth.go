package cmd

import (
	"errors"
	"time"

	"github.com/habedi/suds/auth"
	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/clierr"
	"github.com/habedi/suds/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func loginCmd(a *app) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			var err error
			if username == "" {
				if username, err = p.promptForInput("Username: "); err != nil {
					return internalError("read username", err)
				}
			}
			password, err := p.promptForPassword("Password: ")
			if err != nil {
				return internalError("read password", err)
			}
			if err := validation.ValidateNonEmptyString("username", username); err != nil {
				return validationError(err)
			}
			if err := validation.ValidateNonEmptyString("password", password); err != nil {
				return validationError(err)
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := a.auth.Login(ctx, username, password); err != nil {
				if client.StatusOf(err) == 401 {
					return clierr.New(clierr.Auth, "login failed: invalid username or password", err)
				}
				return toCLIError("log in", err)
			}
			cmd.Println("Login was successful.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when omitted)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and remove the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := a.auth.Logout(ctx); err != nil {
				return toCLIError("log out", err)
			}
			cmd.Println("Logged out.")
			return nil
		},
	}
}

func registerCmd(a *app) *cobra.Command {
	var in client.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateNonEmptyString("username", in.Username); err != nil {
				return validationError(err)
			}
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			password, err := p.promptForPassword("Password for " + in.Username + ": ")
			if err != nil {
				return internalError("read password", err)
			}
			if err := validation.ValidateNonEmptyString("password", password); err != nil {
				return validationError(err)
			}
			in.Password = password

			ctx, cancel := commandContext(cmd)
			defer cancel()
			member, err := a.api.Auth.Register(ctx, in)
			if err != nil {
				return toCLIError("register "+in.Username, err)
			}
			cmd.Printf("Registered %s (ID %d).\n", member.Name(), member.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.Username, "username", "u", "", "Username of the new account")
	f.StringVar(&in.Email, "email", "", "Email address")
	f.StringVar(&in.FirstName, "first-name", "", "First name")
	f.StringVar(&in.LastName, "last-name", "", "Last name")
	f.StringVar(&in.Phone, "phone", "", "Phone number")
	f.StringVar(&in.Role, "role", "", "Staff role, e.g. DRIVER")
	return cmd
}

// statusCmd reports the local session. The stored token is trusted until an
// API call says otherwise; --verify makes that call now.
func statusCmd(a *app) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether credentials are stored and when the access token expires",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.auth.Status()
			if err != nil {
				return internalError("read the session", err)
			}
			if !st.LoggedIn {
				return clierr.New(clierr.Auth, "not logged in, run `suds login`", auth.ErrSessionExpired)
			}

			cmd.Println("Logged in:", yesNo(st.LoggedIn))
			cmd.Println("Refresh token stored:", yesNo(st.HasRefresh))
			if !st.AccessExpires.IsZero() {
				note := ""
				if st.Expired(now()) {
					note = " (expired, it will be refreshed on the next request)"
				}
				cmd.Printf("Access token expires: %s%s\n", st.AccessExpires.Local().Format(time.RFC1123), note)
			}

			if !verify {
				return nil
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := a.api.Auth.CheckSession(ctx); err != nil {
				if errors.Is(err, auth.ErrSessionExpired) {
					cmd.Println("Session verified: no")
				}
				return toCLIError("verify the session", err)
			}
			log.Info().Msg("Session verified against the server")
			cmd.Println("Session verified: yes")
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Check the session against the server")
	return cmd
}
