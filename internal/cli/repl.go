// Package cli implements the interactive terminal front-end.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/price-chat/internal/domain/models"
	"github.com/unifiedui/price-chat/internal/services/chat"
	"github.com/unifiedui/price-chat/internal/services/llm"
	"github.com/unifiedui/price-chat/internal/services/prices"
)

// REPL commands.
const (
	CommandQuit     = "/quit"
	CommandSalir    = "/salir"
	CommandNew      = "/nuevo"
	promptText      = "> "
	goodbyeText     = "¡Hasta pronto!"
	newConversation = "Nueva conversación."
)

// REPLConfig holds the dependencies of the terminal loop.
type REPLConfig struct {
	In        io.Reader
	Out       io.Writer
	Completer llm.Completer
	Searcher  prices.Searcher
	Model     string
	Logger    *zerolog.Logger

	// NoColor disables ANSI colours, e.g. when output is not a terminal.
	NoColor bool
}

// REPL reads questions line by line and prints the conversation as it grows.
type REPL struct {
	in        io.Reader
	out       io.Writer
	completer llm.Completer
	searcher  prices.Searcher
	model     string
	logger    zerolog.Logger

	dim    *color.Color
	accent *color.Color
	tool   *color.Color
	errc   *color.Color

	conversation *chat.Conversation
	// printed is the number of transcript entries already written to out.
	printed     int
	lastLoading string
}

// NewREPL creates a terminal loop.
func NewREPL(cfg *REPLConfig) (*REPL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.In == nil || cfg.Out == nil {
		return nil, fmt.Errorf("input and output are required")
	}
	if cfg.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if cfg.Searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	r := &REPL{
		in:        cfg.In,
		out:       cfg.Out,
		completer: cfg.Completer,
		searcher:  cfg.Searcher,
		model:     cfg.Model,
		logger:    logger.With().Str("component", "repl").Logger(),
		dim:       color.New(color.Faint),
		accent:    color.New(color.FgYellow, color.Bold),
		tool:      color.New(color.FgGreen),
		errc:      color.New(color.FgRed, color.Bold),
	}
	if cfg.NoColor {
		for _, c := range []*color.Color{r.dim, r.accent, r.tool, r.errc} {
			c.DisableColor()
		}
	}
	return r, nil
}

// Run prints the banner and the greeting, then serves input until EOF, a
// quit command or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	r.printBanner()
	if err := r.reset(); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		r.accent.Fprint(r.out, promptText)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			r.goodbye()
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			r.goodbye()
			return nil
		}

		input := strings.TrimSpace(line)
		switch strings.ToLower(input) {
		case "":
			continue
		case CommandQuit, CommandSalir:
			r.goodbye()
			return nil
		case CommandNew:
			r.dim.Fprintln(r.out, newConversation)
			if err := r.reset(); err != nil {
				return err
			}
			continue
		}

		r.lastLoading = ""
		err := r.conversation.Submit(ctx, input)
		if err != nil && !errors.Is(err, chat.ErrEmptyInput) {
			r.errc.Fprintf(r.out, "Error: %v\n", err)
		}
		fmt.Fprintln(r.out)
	}
}

// reset starts a fresh conversation and prints its greeting.
func (r *REPL) reset() error {
	conversation, err := chat.NewConversation(&chat.ConversationConfig{
		ID:        uuid.NewString(),
		Completer: r.completer,
		Searcher:  r.searcher,
		Logger:    &r.logger,
		OnChange:  r.render,
	})
	if err != nil {
		return fmt.Errorf("failed to start conversation: %w", err)
	}

	r.conversation = conversation
	r.printed = 0
	r.lastLoading = ""
	r.render(conversation.State(), conversation.Transcript())
	fmt.Fprintln(r.out)
	return nil
}

// render writes the entries added since the last call. A loading entry is
// shown once and kept pending until the real message replaces it.
func (r *REPL) render(_ chat.State, entries []models.Entry) {
	for i := r.printed; i < len(entries); i++ {
		entry := entries[i]
		if entry.Loading {
			if text := entry.Message.Text(); text != r.lastLoading {
				r.dim.Fprintln(r.out, text)
				r.lastLoading = text
			}
			return
		}
		r.printEntry(entry.Message)
		r.printed = i + 1
	}
}

func (r *REPL) printEntry(msg models.Message) {
	switch m := msg.(type) {
	case models.ToolMessage:
		r.tool.Fprintln(r.out, strings.TrimSuffix(m.Content, chat.ToolResultSuffix))
	case models.AssistantMessage:
		if strings.TrimSpace(m.Content) != "" {
			fmt.Fprintln(r.out, m.Content)
		}
	}
	// system and user messages are not echoed
}

func (r *REPL) printBanner() {
	sep := strings.Repeat("-", 60)
	r.accent.Fprintln(r.out, sep)
	r.accent.Fprintln(r.out, "Precios Colombia")
	if r.model != "" {
		fmt.Fprintf(r.out, "  Modelo: %s\n", r.model)
	}
	fmt.Fprintln(r.out)
	r.dim.Fprintf(r.out, "  %s  - nueva conversación\n", CommandNew)
	r.dim.Fprintf(r.out, "  %s  - salir\n", CommandSalir)
	r.accent.Fprintln(r.out, sep)
	fmt.Fprintln(r.out)
}

func (r *REPL) goodbye() {
	fmt.Fprintln(r.out)
	r.dim.Fprintln(r.out, goodbyeText)
}
