package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/price-chat/internal/cli"
	"github.com/unifiedui/price-chat/internal/services/chat"
	"github.com/unifiedui/price-chat/tests/mocks"
	"github.com/unifiedui/price-chat/tests/testutils"
)

func newTestREPL(t *testing.T, input io.Reader) (*cli.REPL, *bytes.Buffer, *mocks.MockCompleter, *mocks.MockSearcher) {
	t.Helper()
	completer := new(mocks.MockCompleter)
	searcher := new(mocks.MockSearcher)
	out := new(bytes.Buffer)

	repl, err := cli.NewREPL(&cli.REPLConfig{
		In:        input,
		Out:       out,
		Completer: completer,
		Searcher:  searcher,
		Model:     "mistral-large-latest",
		NoColor:   true,
	})
	require.NoError(t, err)
	return repl, out, completer, searcher
}

func TestNewREPL_Validation(t *testing.T) {
	_, err := cli.NewREPL(nil)
	assert.Error(t, err)

	_, err = cli.NewREPL(&cli.REPLConfig{In: strings.NewReader(""), Out: io.Discard})
	assert.Error(t, err)

	_, err = cli.NewREPL(&cli.REPLConfig{Completer: new(mocks.MockCompleter), Searcher: new(mocks.MockSearcher)})
	assert.Error(t, err)
}

func TestREPL_GreetsAndExitsOnEOF(t *testing.T) {
	repl, out, completer, _ := newTestREPL(t, strings.NewReader(""))

	require.NoError(t, repl.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Precios Colombia")
	assert.Contains(t, text, "mistral-large-latest")
	assert.Contains(t, text, chat.Greeting)
	assert.NotContains(t, text, chat.SystemPrompt)
	assert.Contains(t, text, "¡Hasta pronto!")
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestREPL_IgnoresBlankLines(t *testing.T) {
	repl, _, completer, _ := newTestREPL(t, strings.NewReader("\n   \n\t\n"))

	require.NoError(t, repl.Run(context.Background()))
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestREPL_PlainAnswer(t *testing.T) {
	repl, out, completer, searcher := newTestREPL(t, strings.NewReader("hola\n"))
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(testutils.NewTestAnswer("¿Qué producto buscas?"), nil).Once()

	require.NoError(t, repl.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, chat.ThinkingText)
	assert.Contains(t, text, "¿Qué producto buscas?")
	assert.NotContains(t, text, chat.SearchingText)
	completer.AssertExpectations(t)
	searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestREPL_PriceSearch(t *testing.T) {
	repl, out, completer, searcher := newTestREPL(t, strings.NewReader("precio del arroz en Bogotá\n"))
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(testutils.NewTestToolCallReply(`{"term":"arroz","cityId":1}`), nil).Once()
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(testutils.NewTestAnswer("El arroz más barato está en Jumbo."), nil).Once()
	searcher.On("Search", mock.Anything, "arroz", mock.Anything).
		Return(testutils.NewTestPriceResult()).Once()

	require.NoError(t, repl.Run(context.Background()))

	text := out.String()
	thinking := strings.Index(text, chat.ThinkingText)
	searching := strings.Index(text, chat.SearchingText)
	offer := strings.Index(text, "🛒 Éxito ➜ $12.000 COP [2024-05-01]")
	answer := strings.Index(text, "El arroz más barato está en Jumbo.")

	require.True(t, thinking >= 0 && searching >= 0 && offer >= 0 && answer >= 0, text)
	assert.Less(t, thinking, searching)
	assert.Less(t, searching, offer)
	assert.Less(t, offer, answer)
	assert.Equal(t, 1, strings.Count(text, chat.SearchingText))
	assert.NotContains(t, text, chat.ToolResultSuffix)
	completer.AssertExpectations(t)
	searcher.AssertExpectations(t)
}

func TestREPL_CompletionFailureShowsErrorText(t *testing.T) {
	repl, out, completer, _ := newTestREPL(t, strings.NewReader("hola\n"))
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("boom")).Once()

	require.NoError(t, repl.Run(context.Background()))
	assert.Contains(t, out.String(), chat.ErrorText)
}

func TestREPL_QuitStopsReading(t *testing.T) {
	for _, command := range []string{cli.CommandSalir, cli.CommandQuit, "/SALIR"} {
		t.Run(command, func(t *testing.T) {
			repl, out, completer, _ := newTestREPL(t, strings.NewReader(command+"\nhola\n"))

			require.NoError(t, repl.Run(context.Background()))
			assert.Contains(t, out.String(), "¡Hasta pronto!")
			completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func TestREPL_NewConversationStartsFresh(t *testing.T) {
	repl, out, completer, _ := newTestREPL(t, strings.NewReader("hola\n/nuevo\nhola otra vez\n"))
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(testutils.NewTestAnswer("respuesta"), nil).Twice()

	require.NoError(t, repl.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(out.String(), chat.Greeting))
	require.Len(t, completer.Calls, 2)
	// the second conversation only carries system, greeting and the new question
	assert.Len(t, completer.Calls[1].Arguments.Get(1), 3)
}

func TestREPL_StopsOnContextCancel(t *testing.T) {
	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })

	repl, out, _, _ := newTestREPL(t, reader)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- repl.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Contains(t, out.String(), "¡Hasta pronto!")
	case <-time.After(2 * time.Second):
		t.Fatal("repl did not stop after cancellation")
	}
}
