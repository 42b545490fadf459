package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/auth"
	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/terminal"
	"karolbroda.com/moosic/internal/theme"
)

var (
	loginSave        bool
	urlOpen          bool
	authCheckMethods bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "manage the access token",
}

var authLoginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "validate a token and optionally save it",
	Long: `validate an access token. the token can be passed as an argument, or pasted
when prompted. the whole redirect url from the browser is accepted as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input string
		if len(args) == 1 {
			input = args[0]
		} else {
			var err error
			input, err = terminal.ReadSecret("token or redirect url: ", os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
		}

		token, err := auth.ExtractToken(input)
		if err != nil {
			return err
		}
		if err := state.useToken(cmd.Context(), token); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("token is valid, logged in as %s (id %d)", state.user.FullName(), state.session.UserID))

		save := loginSave
		if !cmd.Flags().Changed("save") && state.interactive {
			if err := huh.NewConfirm().Title("save token to " + state.cfg.TokenFile + "?").Value(&save).Run(); err != nil {
				return err
			}
		}
		if save {
			if err := auth.SaveToken(state.cfg.TokenFile, token); err != nil {
				return err
			}
			printSuccess("token saved to " + state.cfg.TokenFile)
		}
		return nil
	},
}

var authCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "check the saved token",
	Long: `check that the saved token is accepted. with --methods, every catalog
method the client uses is called once and the missing permissions are listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := state.requireSession(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("token is valid, logged in as %s (id %d)", state.user.FullName(), s.UserID))
		if !authCheckMethods {
			return nil
		}
		return state.checkMethods(cmd.Context(), s)
	},
}

// checkMethods calls every catalog method once and prints which features
// the token can use.
func (a *app) checkMethods(ctx context.Context, s catalog.Session) error {
	var statuses []auth.MethodStatus
	err := a.withSpinner(ctx, "checking api methods...", func(ctx context.Context) error {
		var err error
		statuses, err = auth.CheckMethods(ctx, a.client, s)
		return err
	})
	if err != nil {
		return fmt.Errorf("method check failed: %w", err)
	}
	printMethodReport(os.Stdout, statuses)
	return nil
}

func printMethodReport(w io.Writer, statuses []auth.MethodStatus) {
	var available, missing []auth.MethodStatus
	for _, st := range statuses {
		if st.Available() {
			available = append(available, st)
		} else {
			missing = append(missing, st)
		}
	}

	if len(available) > 0 {
		fmt.Fprintln(w, theme.Success("available:"))
		for _, st := range available {
			fmt.Fprintf(w, "  • %s %s\n", st.Feature, theme.DimStyle.Render("("+st.Name+")"))
		}
	}
	if len(missing) > 0 {
		fmt.Fprintln(w, theme.Error("unavailable:"))
		for _, st := range missing {
			fmt.Fprintf(w, "  • %s %s: %s\n", st.Feature, theme.DimStyle.Render("("+st.Name+")"), st.Reason())
		}
	}

	var hints []string
	seen := map[string]bool{}
	for _, st := range missing {
		if h := st.Hint(); h != "" && !seen[h] {
			seen[h] = true
			hints = append(hints, h)
		}
	}
	if !recommendationsAvailable(statuses) {
		hints = append(hints, "recommendations will be replaced by popular music")
	}
	if len(hints) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Info("hints:"))
		for _, h := range hints {
			fmt.Fprintln(w, "  • "+h)
		}
	}
}

func recommendationsAvailable(statuses []auth.MethodStatus) bool {
	for _, st := range statuses {
		if st.Name == "audio.getRecommendations" {
			return st.Available()
		}
	}
	return false
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "print the authorization url and how to get a token",
	RunE: func(cmd *cobra.Command, args []string) error {
		printAuthHelp()
		if urlOpen {
			if err := auth.OpenBrowser(auth.AuthorizeURL); err != nil {
				printWarning(err.Error() + ", open the url manually")
			}
		}
		return nil
	},
}

func printAuthHelp() {
	steps := []string{
		"1. open the url below in a browser and log in",
		"2. allow access for the application",
		"3. copy the address of the blank page you land on",
		"4. run 'moosic auth login' and paste it, or only the access_token part",
	}
	fmt.Println(theme.Header("getting a token"))
	fmt.Println(strings.Join(steps, "\n"))
	fmt.Println()
	fmt.Println(theme.InfoStyle.Render(auth.AuthorizeURL))
	fmt.Println()
	printWarning("the token grants full access to your account, never share it")
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authCheckCmd)
	authCmd.AddCommand(authURLCmd)

	authLoginCmd.Flags().BoolVar(&loginSave, "save", false, "save the token to the token file")
	authCheckCmd.Flags().BoolVar(&authCheckMethods, "methods", false, "also check which api methods the token can use")
	authURLCmd.Flags().BoolVar(&urlOpen, "open", false, "open the url in the browser")
}
