package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	statusadapter "github.com/bnema/persona-cli/internal/adapters/render/status"
	"github.com/bnema/persona-cli/internal/application"
	"github.com/bnema/persona-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newChatCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <character-id>",
		Short: "Chat with a character while their world keeps moving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.characters.GetByID(cmd.Context(), domain.CharacterID(args[0]))
			if err != nil {
				return err
			}

			session, err := app.snapshots.OpenSession(cmd.Context(), ch)
			if err != nil {
				return err
			}

			loop := chatLoop{app: app, character: ch, session: session}
			return loop.run(cmd)
		},
	}
}

type replyResult struct {
	text string
	err  error
}

// chatLoop drives one interactive session. A single goroutine owns all
// session mutation: stdin lines, tick firings and finished generations all
// arrive as channel messages and are applied in turn, so each tick's effects
// are atomic from the user's perspective.
type chatLoop struct {
	app       *app
	character domain.Character
	session   *domain.Session
}

func (l *chatLoop) run(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintf(out, "chatting with %s (/help for commands)\n", l.character.Name)
	l.printClock(out)

	lines := make(chan string)
	go readLines(cmd.InOrStdin(), lines)

	replies := make(chan replyResult, 1)

	ticker := time.NewTicker(l.app.tick.RealStep)
	defer ticker.Stop()

	notified := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			result, err := l.app.sim.Tick(ctx, l.character, l.session, l.app.tick.VirtualStep)
			if err != nil {
				return err
			}
			l.printTickEffects(out, result)
			notified = l.printNotifications(out, notified)

		case r := <-replies:
			msg, appended, err := l.app.chat.CompleteReply(ctx, l.character, l.session, r.text, r.err)
			if err != nil {
				return err
			}
			if appended {
				fmt.Fprintf(out, "%s: %s\n", l.character.Name, msg.Text)
			} else {
				fmt.Fprintln(out, "(no reply this time)")
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := l.handleLine(cmd, line, replies)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (l *chatLoop) handleLine(cmd *cobra.Command, line string, replies chan<- replyResult) (bool, error) {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	if strings.HasPrefix(line, "/") {
		return l.handleCommand(cmd, line)
	}

	if l.session.IsWorking() {
		fmt.Fprintf(out, "%s is at work. /skip to fast-forward the shift.\n", l.character.Name)
		return false, nil
	}
	if l.app.chat.Busy() {
		fmt.Fprintln(out, "(still waiting for a reply)")
		return false, nil
	}
	if l.app.responder == nil {
		fmt.Fprintln(out, "no GEMINI_API_KEY configured; replies are unavailable")
		return false, nil
	}

	_, accepted, err := l.app.chat.AppendUser(ctx, l.session, line)
	if err != nil {
		return false, err
	}
	if !accepted {
		return false, nil
	}

	history := application.CopyHistory(l.session)
	now := l.session.Clock.Now()
	go func() {
		text, genErr := l.app.chat.Generate(ctx, l.character, history, now)
		replies <- replyResult{text: text, err: genErr}
	}()

	return false, nil
}

func (l *chatLoop) handleCommand(cmd *cobra.Command, line string) (bool, error) {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	switch line {
	case "/quit", "/q":
		return true, nil

	case "/help":
		fmt.Fprintln(out, "/status  derived state\n/skip    fast-forward the current shift\n/pause   pause the clock\n/resume  resume the clock\n/restart reset the simulation\n/quit    leave")

	case "/pause":
		l.session.Clock.Pause()
		fmt.Fprintln(out, "clock paused")

	case "/resume":
		l.session.Clock.Resume()
		fmt.Fprintln(out, "clock resumed")

	case "/skip":
		if !l.session.IsWorking() {
			fmt.Fprintf(out, "%s is not at work right now.\n", l.character.Name)
			break
		}
		result, err := l.app.sim.SkipWork(ctx, l.character, l.session)
		if err != nil {
			return false, err
		}
		l.printTickEffects(out, result)
		l.printClock(out)

	case "/restart":
		if err := l.app.sim.Restart(ctx, l.character, l.session, l.app.now()); err != nil {
			return false, err
		}
		fmt.Fprintln(out, "simulation restarted")
		l.printClock(out)

	case "/status":
		profile := domain.ComputeProfile(l.character, l.session.Messages, l.session.Clock.Now())
		rendered, err := l.app.profileRenderer(profile, statusadapter.RenderOptions{
			CharacterName: l.character.Name,
			VirtualTime:   l.session.Clock.Now(),
			Working:       l.session.IsWorking(),
		})
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, rendered)

	default:
		fmt.Fprintf(out, "unknown command %s\n", line)
	}

	return false, nil
}

func (l *chatLoop) printTickEffects(out io.Writer, result application.TickResult) {
	start := len(l.session.Messages) - countTickMessages(result)
	if start < 0 {
		start = 0
	}
	for _, msg := range l.session.Messages[start:] {
		if msg.IsSystemEvent {
			fmt.Fprintf(out, "* %s\n", msg.Text)
		}
	}
}

// countTickMessages estimates how many log entries the tick appended so the
// loop can echo just those. Each arrival and transition adds one.
func countTickMessages(result application.TickResult) int {
	n := len(result.Arrived)
	if result.StartedJob != nil {
		n++
	}
	if result.EndedJob != nil {
		n++
	}
	return n
}

func (l *chatLoop) printNotifications(out io.Writer, seen int) int {
	for _, note := range l.session.Notifications[seen:] {
		fmt.Fprintf(out, "! %s\n", note)
	}
	return len(l.session.Notifications)
}

func (l *chatLoop) printClock(out io.Writer) {
	fmt.Fprintf(out, "virtual time: %s\n", l.session.Clock.Now().Time().Format("Mon Jan 2 15:04"))
}

func readLines(r io.Reader, lines chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	close(lines)
}
