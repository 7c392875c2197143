package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/mullsim/mullsim/config"
	"github.com/mullsim/mullsim/game"
	"github.com/mullsim/mullsim/montecarlo"
	"github.com/mullsim/mullsim/montecarlo/stats"
	"github.com/mullsim/mullsim/mulligan"
	"github.com/mullsim/mullsim/store"
	"github.com/mullsim/mullsim/turnplayer"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoSolve           = errors.New("please solve a hand first with the `hand` command")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l        *readline.Instance
	out      io.Writer
	config   *config.Config
	execPath string

	game    *game.Game
	simmer  *montecarlo.Simmer
	solver  *mulligan.Solver
	player  turnplayer.TurnPlayer
	history *store.Store

	ctx           context.Context
	cancel        context.CancelFunc
	simTicker     *time.Ticker
	simTickerDone chan bool
	simLogFile    *os.File

	lastReport *mulligan.Report
	lastStats  *stats.SimStats
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config, execPath string, session config.Session) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mmullsim>\033[0m ",
		HistoryFile:     "/tmp/mullsim-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg, execPath, session, l.Stderr())
	sc.l = l
	l.Config.AutoComplete = NewShellCompleter(sc)
	return sc
}

// newController wires up everything but the terminal.
func newController(cfg *config.Config, execPath string, session config.Session, out io.Writer) *ShellController {
	g := game.NewGame(session)
	simmer := montecarlo.NewSimmer(g, cfg)
	simmer.SetCollectPlayouts(true)

	opts := &turnplayer.PlayerOptions{}
	opts.SetDefaults(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	return &ShellController{
		out:      out,
		config:   cfg,
		execPath: execPath,
		game:     g,
		simmer:   simmer,
		solver:   mulligan.NewSolver(g, simmer),
		player:   turnplayer.NewPlayerFromOptions(opts, frand.New()),
		ctx:      log.Logger.WithContext(ctx),
		cancel:   cancel,
	}
}

// extractFields splits a command line into the command, its arguments and
// its "-option value" pairs.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "hand":
		return sc.hand(cmd)
	case "basic":
		return sc.basic(cmd)
	case "demo":
		return sc.demo(cmd)
	case "deck":
		return sc.showDeck(cmd)
	case "add":
		return sc.add(cmd)
	case "fill":
		return sc.fill(cmd)
	case "clear":
		return sc.clear(cmd)
	case "hero":
		return sc.setHero(cmd)
	case "save":
		return sc.save(cmd)
	case "load":
		return sc.load(cmd)
	case "play":
		return sc.play(cmd)
	case "state":
		return sc.state(cmd)
	case "history":
		return sc.showHistory(cmd)
	case "sim":
		return sc.sim(cmd)
	case "turnstats":
		return sc.turnStats(cmd)
	case "heatmap":
		return sc.heatmap(cmd)
	case "histogram":
		return sc.histogram(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	default:
		return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
	}
}

func isQuit(line string) bool {
	return line == "exit" || line == "q" || line == "bye"
}

// Execute runs a single command line, as given on the command line of the
// binary.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if isQuit(line) {
		sig <- syscall.SIGINT
		return
	}
	resp, err := sc.handle(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isQuit(line) {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops anything still running and closes open files.
func (sc *ShellController) Cleanup() {
	sc.cancel()
	if sc.simLogFile != nil {
		if err := sc.simLogFile.Close(); err != nil {
			log.Err(err).Msg("closing-sim-log")
		}
	}
	if sc.history != nil {
		if err := sc.history.Close(); err != nil {
			log.Err(err).Msg("closing-history-db")
		}
	}
}
