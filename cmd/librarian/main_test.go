package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhana1701/Library-Management-System/lending"
	"github.com/suhana1701/Library-Management-System/lending/memoryengine"
)

func givenApp(t *testing.T, input string) (*app, *bytes.Buffer) {
	t.Helper()

	storage := memoryengine.NewStorage()

	engine, err := lending.NewEngine(storage)
	require.NoError(t, err)

	out := &bytes.Buffer{}

	return &app{
		engine: engine,
		stores: storage.Stores(),
		in:     bufio.NewReader(strings.NewReader(input)),
		out:    out,
		cfg:    config{LoanDays: lending.DefaultLoanDurationDays, FinePerDay: lending.DefaultFinePerDay},
	}, out
}

func Test_Run_Exits_WhenExitOptionIsSelected(t *testing.T) {
	// arrange
	a, out := givenApp(t, "0\n")

	// act
	a.run(context.Background())

	// assert
	assert.Contains(t, out.String(), "Goodbye!")
}

func Test_Run_Exits_WhenInputIsExhausted(t *testing.T) {
	// arrange: script ends without selecting the exit option
	a, out := givenApp(t, "2\n")

	// act: must return instead of looping on the exhausted reader
	a.run(context.Background())

	// assert
	assert.Contains(t, out.String(), "Manage Members")
	assert.Contains(t, out.String(), "Goodbye!")
}

func Test_Run_Exits_WhenFinalLineHasNoNewline(t *testing.T) {
	// arrange
	a, out := givenApp(t, "1")

	// act
	a.run(context.Background())

	// assert: the unterminated selection is still honored before exiting
	assert.Contains(t, out.String(), "Manage Books")
}

func Test_Run_ReportsInvalidOptionOnce_WhenInputHoldsOneBadLine(t *testing.T) {
	// arrange
	a, out := givenApp(t, "x\n")

	// act
	a.run(context.Background())

	// assert
	assert.Equal(t, 1, strings.Count(out.String(), "Invalid option."))
}
