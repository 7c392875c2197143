package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/config"
	"github.com/mullsim/mullsim/deck"
	"github.com/mullsim/mullsim/deckio"
	"github.com/mullsim/mullsim/hero"
	"github.com/mullsim/mullsim/montecarlo/stats"
	"github.com/mullsim/mullsim/mulligan"
	"github.com/mullsim/mullsim/store"
	"github.com/mullsim/mullsim/turnplayer"
)

const (
	curveMaxMana       = 10
	defaultHistory     = 10
	maxCandidatesShown = 15
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// applyThreads honors a "-threads n" option for the next simulation.
func (sc *ShellController) applyThreads(cmd *shellcmd) error {
	v, ok := cmd.options["threads"]
	if !ok {
		return nil
	}
	threads, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	sc.simmer.SetThreads(threads)
	return nil
}

func (sc *ShellController) progress(done, total int, passed bool) {
	if passed {
		sc.showMessage(fmt.Sprintf("%d/%d(pass)", done, total))
		return
	}
	sc.showMessage(fmt.Sprintf("%d/%d", done, total))
}

// remember keeps the report around for turnstats, heatmap and history.
func (sc *ShellController) remember(r *mulligan.Report) {
	sc.lastReport = r
	sc.lastStats = stats.NewSimStats(r.Best().Result)
	h, err := sc.openHistory()
	if err != nil {
		log.Err(err).Msg("history-db-unavailable")
		return
	}
	if h == nil {
		return
	}
	if _, err := h.RecordSolve(sc.ctx, r); err != nil {
		log.Err(err).Msg("recording-solve")
	}
}

func (sc *ShellController) openHistory() (*store.Store, error) {
	if sc.history != nil {
		return sc.history, nil
	}
	path := sc.config.GetString(config.ConfigHistoryDB)
	if path == "" {
		return nil, nil
	}
	h, err := store.Open(sc.ctx, path)
	if err != nil {
		return nil, err
	}
	sc.history = h
	return h, nil
}

func renderReport(r *mulligan.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "the total base score is %s, %s for every mana waste. +%s for every card played\n",
		yellow(strconv.FormatFloat(r.BaseScore, 'f', -1, 64)), red("-1"), green(strconv.Itoa(r.PlayCardBonus)))
	// worst first, so the best ends up next to the verdict.
	for i := len(r.Entries) - 1; i >= 0; i-- {
		e := r.Entries[i]
		fmt.Fprintf(&sb, "the score of %s is :%s\n", card.Display(e.Kept), yellow(fmt.Sprintf("%.3f", e.Score())))
	}
	sb.WriteString("the best move is:\n")
	for i, keep := range r.Keep() {
		verdict := red("not-keep")
		if keep {
			verdict = green("keep")
		}
		fmt.Fprintf(&sb, "card:%-4s %s\n", r.Hand[i], verdict)
	}
	best := r.Best()
	fmt.Fprintf(&sb, "the score is %.3f", best.Score())
	if best.Result != nil {
		lo, hi := best.Result.CI(95)
		fmt.Fprintf(&sb, " (95%% CI %.3f-%.3f)", lo, hi)
	}
	return sb.String()
}

func (sc *ShellController) hand(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: hand <3 or 4 cards>")
	}
	if err := sc.applyThreads(cmd); err != nil {
		return nil, err
	}
	cards, err := card.ParseList(cmd.args)
	if err != nil {
		return nil, err
	}
	if order, ok := deck.OrderForHandSize(len(cards)); ok {
		sc.showMessage(fmt.Sprintf("the hand is %s, going %s", card.Display(cards), order))
	}
	sc.solver.SetProgress(sc.progress)
	defer sc.startTicker()()

	r, err := sc.solver.DeclareAndSolve(sc.ctx, cards)
	if err != nil {
		return nil, err
	}
	sc.remember(r)
	return msg(renderReport(r)), nil
}

func (sc *ShellController) basic(cmd *shellcmd) (*Response, error) {
	if err := sc.applyThreads(cmd); err != nil {
		return nil, err
	}
	defer sc.startTicker()()
	results, err := sc.solver.CompareArchetypes(sc.ctx)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, r := range results {
		if r.Skipped {
			fmt.Fprintf(&sb, "%s: skipped, the deck lacks the cards\n", r.Name)
			continue
		}
		score := fmt.Sprintf("%.2f", r.Delta())
		if r.Delta() >= 0 {
			score = green(score)
		} else {
			score = red(score)
		}
		fmt.Fprintf(&sb, "the value of %s is %s\n", r.Name, score)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

// writeCandidates prints a table of candidate plays. A limit of zero or
// less prints them all.
func writeCandidates(sb *strings.Builder, cands []turnplayer.Candidate, limit int, indent string) {
	fmt.Fprintf(sb, "%s%-20s%-10s%-10s%-10s\n", indent, "Play", "Now", "Future", "Total")
	for i, c := range cands {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(sb, "%s%-20s%-10.3f%-10.3f%-10.3f", indent, card.Display(c.Play), c.Immediate, c.Future, c.Total())
		if c.HeroPower {
			sb.WriteString(" hero power")
		}
		sb.WriteString("\n")
	}
}

// renderTurn prints a demo turn with every candidate in the order the
// search tried them.
func renderTurn(t turnplayer.TurnReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "turn %d: hand %s", t.Mana, card.Display(t.Hand))
	if t.HasDraw {
		fmt.Fprintf(&sb, ", drew %s", t.Draw)
	}
	sb.WriteString("\n")
	writeCandidates(&sb, t.Candidates, 0, "  ")
	fmt.Fprintf(&sb, "  plays %s for %.3f, total %.3f", card.Display(t.Best), t.Score, t.Total)
	if t.HeroPower {
		sb.WriteString(" (hero power)")
	}
	return sb.String()
}

func (sc *ShellController) demo(cmd *shellcmd) (*Response, error) {
	if err := sc.applyThreads(cmd); err != nil {
		return nil, err
	}
	sc.solver.SetProgress(sc.progress)
	defer sc.startTicker()()
	r, err := sc.solver.Demo(sc.ctx, frand.New())
	if err != nil {
		return nil, err
	}
	sc.remember(r.Mulligan)

	var sb strings.Builder
	fmt.Fprintf(&sb, "going %s.\n", r.Order)
	fmt.Fprintf(&sb, "the start hand is %s\n", card.Display(r.Opening))
	sb.WriteString(renderReport(r.Mulligan))
	fmt.Fprintf(&sb, "\nkept %s\n", card.Display(r.Kept))
	for _, t := range r.Turns {
		sb.WriteString(renderTurn(t))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "final score %.3f", r.Score)
	return msg(sb.String()), nil
}

func (sc *ShellController) showDeck(cmd *shellcmd) (*Response, error) {
	d := sc.game.Deck()
	var sb strings.Builder
	sb.WriteString("the deck is :\n")
	sb.WriteString(d.String())
	fmt.Fprintf(&sb, "the length is %d\n\ncurve:\n", d.Len())
	for mana, count := range d.Curve(curveMaxMana) {
		if count == 0 {
			fmt.Fprintf(&sb, "%02d|\n", mana)
			continue
		}
		fmt.Fprintf(&sb, "%02d|%s %d\n", mana, yellow(strings.Repeat("#", count)), count)
	}
	return msg(sb.String()), nil
}

// settle returns every card to the deck and puts the coin back where the
// play order wants it.
func (sc *ShellController) settle() {
	sc.game.Reset()
	sc.game.SetPlayOrder(sc.game.PlayOrder())
}

func (sc *ShellController) add(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: add <cards>, e.g. add 2n1 s3")
	}
	cards, err := card.ParseGroups(cmd.args)
	if err != nil {
		return nil, err
	}
	sc.game.Reset()
	sc.game.Deck().InsertAll(cards)
	sc.game.Deck().Sort()
	sc.settle()
	return msg(fmt.Sprintf("added %d cards, the deck has %d", len(cards), sc.game.Deck().Len())), nil
}

func (sc *ShellController) fill(cmd *shellcmd) (*Response, error) {
	sc.game.Reset()
	err := sc.game.Deck().Fill()
	sc.settle()
	if err != nil {
		return nil, err
	}
	return msg("the deck is filled with high-cost cards"), nil
}

func (sc *ShellController) clear(cmd *shellcmd) (*Response, error) {
	sc.game.Clear()
	sc.lastReport, sc.lastStats = nil, nil
	return msg("deck cleared!"), nil
}

func (sc *ShellController) setHero(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, fmt.Errorf("failed to set hero, use one of: %s", strings.Join(hero.Codes, " "))
	}
	h, err := hero.FromCode(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.game.SetHero(h)
	return msg("hero set to " + h.String()), nil
}

func (sc *ShellController) deckFile(cmd *shellcmd) string {
	if len(cmd.args) > 0 {
		return cmd.args[0]
	}
	if f := sc.config.GetString(config.ConfigDeckFile); f != "" {
		return f
	}
	return deckio.DefaultFile
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if err := deckio.Save(sc.deckFile(cmd), sc.game.Deck()); err != nil {
		return nil, err
	}
	return msg("deck saved!"), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	err := deckio.Load(sc.deckFile(cmd), sc.game.Deck())
	sc.settle()
	if err != nil {
		return nil, err
	}
	sc.lastReport, sc.lastStats = nil, nil
	return msg(fmt.Sprintf("deck loaded, %d cards", sc.game.Deck().Len())), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	mana, cards, err := turnplayer.ParsePlayArgs(cmd.args)
	if err != nil {
		return nil, err
	}
	t, err := sc.player.Preview(sc.game, cards, mana)
	if err != nil {
		return nil, err
	}
	cands := t.Candidates
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Total() > cands[j].Total()
	})
	var sb strings.Builder
	fmt.Fprintf(&sb, "mana %d, hand %s\n", t.Mana, card.Display(t.Hand))
	writeCandidates(&sb, cands, maxCandidatesShown, "")
	fmt.Fprintf(&sb, "the best play is %s", green(card.Display(t.Best)))
	return msg(sb.String()), nil
}

func (sc *ShellController) state(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	sb.WriteString(sc.game.String())
	s := sc.game.Session()
	fmt.Fprintf(&sb, "cycle_reps %d, maxturn %d, max_search_depth %d, play_card_bonus %d, threads %d",
		s.CycleReps, s.MaxTurn, s.MaxSearchDepth, s.PlayCardBonus, sc.simmer.Threads())
	return msg(sb.String()), nil
}

func (sc *ShellController) showHistory(cmd *shellcmd) (*Response, error) {
	n := defaultHistory
	arg := cmd.options["n"]
	if len(cmd.args) > 0 {
		arg = cmd.args[0]
	}
	if arg != "" {
		var err error
		if n, err = strconv.Atoi(arg); err != nil {
			return nil, err
		}
	}
	h, err := sc.openHistory()
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.New("history is off; set history-db to turn it on")
	}
	records, err := h.Recent(sc.ctx, n)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return msg("no solved hands yet"), nil
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return msg(strings.Join(lines, "\n")), nil
}
