// Package cli is the scalebit command line console. Each command is a
// navigation to a console route and passes route authorization first.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/domain"
	"github.com/scalebit/admin-console/internal/navigation"
	"github.com/scalebit/admin-console/internal/repository"
	"github.com/scalebit/admin-console/internal/service"
)

const routeAnnotation = "route"

// ErrNotLoggedIn is returned when a command needs a session and there is none.
var ErrNotLoggedIn = errors.New("not logged in; run `scalebit login`")

// Dependencies wires the CLI to a token slot and the gateway.
type Dependencies struct {
	Factory *service.Factory
	Store   repository.TokenStore
	Routes  *auth.RouteTable
	Logger  *zap.Logger
	Out     io.Writer
	Err     io.Writer
	In      io.Reader
}

// App holds per-invocation state shared by commands.
type App struct {
	deps    Dependencies
	nav     *navigation.Recorder
	console *service.Console
	session domain.Session
	output  string
}

// NewApp prepares an invocation. The navigator starts outside any route.
func NewApp(deps Dependencies) *App {
	if deps.Routes == nil {
		deps.Routes = auth.DefaultRoutes()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Err == nil {
		deps.Err = os.Stderr
	}
	if deps.In == nil {
		deps.In = os.Stdin
	}

	nav := navigation.NewRecorder("")
	return &App{
		deps:    deps,
		nav:     nav,
		console: deps.Factory.Open(deps.Store, nav),
	}
}

// Execute runs the command line and reports any navigation the command
// triggered, such as being sent back to login after a rejected token.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	a.reportNavigation()
	return err
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "scalebit",
		Short:             "ScaleBit admin console",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.authorize,
	}
	root.SetOut(a.deps.Out)
	root.SetErr(a.deps.Err)
	root.SetIn(a.deps.In)
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "output format: table or json")

	root.AddCommand(
		a.loginCommand(),
		a.registerCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.dashboardCommand(),
		a.usersCommand(),
		a.productsCommand(),
		a.ordersCommand(),
		a.paymentsCommand(),
	)
	return root
}

// authorize evaluates the session once and applies route authorization for
// the command's route. Commands without a route only need the session.
func (a *App) authorize(cmd *cobra.Command, _ []string) error {
	if err := validateOutput(a.output); err != nil {
		return err
	}

	session, err := a.console.Session(cmd.Context())
	if err != nil {
		return err
	}
	a.session = session

	route := routeOf(cmd)
	if route == "" {
		return nil
	}
	a.nav.SetCurrent(route)

	decision := a.deps.Routes.Authorize(route, session)
	if decision.Allowed {
		return nil
	}
	a.deps.Logger.Debug("navigation redirected", zap.String("route", route), zap.String("redirect", decision.Redirect))
	if decision.Redirect == auth.LoginPath {
		return ErrNotLoggedIn
	}
	return fmt.Errorf("%s is not available to the current session (redirected to %s)", route, decision.Redirect)
}

func (a *App) reportNavigation() {
	target, delay, ok := a.nav.Pending()
	if !ok {
		return
	}
	if delay > 0 {
		fmt.Fprintf(a.deps.Err, "continue at %s in %s\n", target, delay)
		return
	}
	current := a.nav.Current()
	if target == auth.LoginPath && current != auth.LoginPath && current != auth.LogoutPath {
		fmt.Fprintln(a.deps.Err, "session ended; run `scalebit login`")
	}
}

// routeOf returns the nearest route annotation up the command tree.
func routeOf(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if route, ok := c.Annotations[routeAnnotation]; ok {
			return route
		}
	}
	return ""
}

func routed(route string) map[string]string {
	return map[string]string{routeAnnotation: route}
}
