package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/wayplan/wayplan/internal/client/config"
	"github.com/wayplan/wayplan/internal/client/media"
	"github.com/wayplan/wayplan/internal/client/rest"
	"github.com/wayplan/wayplan/internal/logging"
)

// App is the interactive CLI client. Directory state, selection and the
// change-feed pump only exist while a user is logged in.
type App struct {
	config *config.Config
	client *rest.Client
	logger logging.Logger

	dir    *media.Directory
	sel    *media.Selection
	issuer *media.ShareIssuer
	syncer *media.Syncer

	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) *App {
	sl := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return &App{
		config: c,
		client: rest.NewClient(c.ServerURL),
		logger: logging.NewSlogLogger(sl),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.dir != nil
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	s := a.userName
	if cur := a.dir.CurrentFolder(); cur != nil {
		s = s + " /" + cur.Name
	} else {
		s = s + " /"
	}
	return fmt.Sprintf("(%s)", s)
}

// Run starts the REPL. It blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	fmt.Println("Welcome to wayplan CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
	a.teardownSession(ctx)
}

// teardownSession stops the feed pump and drops per-login state.
func (a *App) teardownSession(ctx context.Context) {
	if a.syncer != nil {
		a.syncer.Close()
		a.syncer = nil
	}
	if a.dir != nil {
		a.dir.Close()
		a.dir = nil
	}
	a.sel = nil
	a.issuer = nil
	a.userName = ""
}
