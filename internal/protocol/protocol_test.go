package protocol

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/engine"
)

const captureNotation = "B:W.....B..B...B.B..BB......BBBB.....BB......BBWW...WWWWWWWWWWW"

func newSession() (*Protocol, *bytes.Buffer) {
	var out bytes.Buffer
	eng := engine.NewEngine(1)
	eng.SetDifficulty(engine.Easy)
	return New(eng, &out), &out
}

// run feeds a script to a fresh session and returns the output lines.
func run(t *testing.T, script ...string) (*Protocol, []string) {
	t.Helper()
	p, out := newSession()
	if err := p.Run(context.Background(), strings.NewReader(strings.Join(script, "\n"))); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return p, strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func lastLine(lines []string) string {
	return lines[len(lines)-1]
}

func TestIdentify(t *testing.T) {
	_, lines := run(t, "abalone", "isready")
	if lines[0] != "id name "+EngineName {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[len(lines)-2] != "ok" || lastLine(lines) != "readyok" {
		t.Errorf("output = %q", lines)
	}
}

func TestPositionAndMoves(t *testing.T) {
	p, _ := run(t, "position startpos moves A1,B2 I5,H5")
	if len(p.moves) != 2 {
		t.Fatalf("history has %d moves, want 2", len(p.moves))
	}
	if p.Board().Turn != board.Black {
		t.Errorf("side to move = %s, want black", p.Board().Turn)
	}

	p, _ = run(t, "position "+captureNotation)
	if p.Board().Notation() != captureNotation {
		t.Errorf("position = %s", p.Board().Notation())
	}
}

func TestPositionErrorsKeepBoard(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
	}{
		{"no args", "position"},
		{"bad notation", "position B:BBB"},
		{"illegal move", "position startpos moves A1,A2"},
		{"junk after position", "position startpos please"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, lines := run(t, "position startpos moves A1,B2", tc.cmd)
			if !strings.HasPrefix(lastLine(lines), "error ") {
				t.Errorf("output = %q, want an error line", lines)
			}
			if len(p.moves) != 1 {
				t.Errorf("history changed to %d moves", len(p.moves))
			}
		})
	}
}

func TestGo(t *testing.T) {
	p, lines := run(t, "position "+captureNotation, "go depth 1")
	if lastLine(lines) != "bestmove E2,F3" {
		t.Errorf("output = %q, want bestmove E2,F3", lines)
	}
	if !strings.HasPrefix(lines[0], "info depth 1 score 45 ") {
		t.Errorf("info line = %q", lines[0])
	}
	if p.Board().Notation() != captureNotation {
		t.Error("go changed the board")
	}

	_, lines = run(t, "go depth 2 width 5")
	if !strings.HasPrefix(lastLine(lines), "bestmove ") || lastLine(lines) == "bestmove none" {
		t.Errorf("output = %q", lines)
	}

	_, lines = run(t, "go random")
	if !strings.HasPrefix(lastLine(lines), "bestmove ") {
		t.Errorf("output = %q", lines)
	}
}

func TestGoReportsTableHits(t *testing.T) {
	_, lines := run(t, "go depth 2", "go depth 2")
	if len(lines) != 4 {
		t.Fatalf("output = %q, want two info and two bestmove lines", lines)
	}
	if strings.Contains(lines[0], " tthit ") {
		t.Errorf("first search reported table hits: %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "info ") || !strings.Contains(lines[2], " tthit ") {
		t.Errorf("second search info = %q, want a tthit field", lines[2])
	}
}

func TestGoErrors(t *testing.T) {
	for _, cmd := range []string{"go depth 0", "go depth 99", "go depth x", "go width -1", "go depth", "go fast"} {
		_, lines := run(t, cmd)
		if !strings.HasPrefix(lastLine(lines), "error ") {
			t.Errorf("%q: output = %q, want an error", cmd, lines)
		}
	}
}

func TestMoveAndUndo(t *testing.T) {
	p, lines := run(t, "move A1,B2", "move I5,H5", "undo")
	if len(p.moves) != 1 {
		t.Errorf("history has %d moves, want 1", len(p.moves))
	}
	if p.Board().Turn != board.White {
		t.Errorf("side to move = %s, want white", p.Board().Turn)
	}
	if len(lines) != 1 || lines[0] != "" {
		t.Errorf("unexpected output %q", lines)
	}

	_, lines = run(t, "undo")
	if !strings.HasPrefix(lastLine(lines), "error ") {
		t.Errorf("undo on an empty history: %q", lines)
	}

	_, lines = run(t, "move Z9,Z8")
	if !strings.HasPrefix(lastLine(lines), "error illegal move") {
		t.Errorf("illegal move: %q", lines)
	}
}

func TestMoveAnnouncesWinner(t *testing.T) {
	_, lines := run(t,
		"position B:W.....B..B...B.B..BB......BBBB.....BB......BB.....WWW...WWWWW",
		"move E2,F3",
		"move I5,H5")
	if len(lines) < 2 || lines[0] != "gameover black" {
		t.Errorf("output = %q, want gameover black", lines)
	}
	if !strings.HasPrefix(lastLine(lines), "error ") {
		t.Errorf("move after the game ended: %q", lines)
	}
}

func TestMovesEvalPerft(t *testing.T) {
	_, lines := run(t, "moves", "eval", "perft 2")
	if got := len(strings.Fields(lines[0])) - 1; got != 44 {
		t.Errorf("moves listed %d, want 44", got)
	}
	if lines[1] != "eval 0 black 0 captured white 0 black 0" {
		t.Errorf("eval = %q", lines[1])
	}
	if lines[2] != "nodes 1936" {
		t.Errorf("perft = %q", lines[2])
	}
}

func TestDiagrams(t *testing.T) {
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "start.svg")
	pngPath := filepath.Join(dir, "start")

	_, lines := run(t, "move A1,B2", "svg "+svgPath, "png "+pngPath)
	if lines[0] != "saved "+svgPath || lines[1] != "saved "+pngPath+".png" {
		t.Errorf("output = %q", lines)
	}
	for _, path := range []string{svgPath, pngPath + ".png"} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not written: %v", path, err)
		}
	}
}

func TestDiagramOutputDir(t *testing.T) {
	dir := t.TempDir()
	p, out := newSession()
	p.SetOutputDir(dir)

	p.Execute(context.Background(), "svg board")
	want := "saved " + filepath.Join(dir, "board.svg")
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "board.svg")); err != nil {
		t.Errorf("diagram not written: %v", err)
	}
}

func TestUnknownCommandAndQuit(t *testing.T) {
	_, lines := run(t, "frobnicate", "quit", "isready")
	if lines[0] != "error unknown command: frobnicate" {
		t.Errorf("output = %q", lines)
	}
	if len(lines) != 1 {
		t.Errorf("commands after quit were executed: %q", lines)
	}
}

func TestNewGame(t *testing.T) {
	p, _ := run(t, "move A1,B2", "newgame")
	if p.Board().Notation() != board.StartNotation || len(p.moves) != 0 {
		t.Errorf("newgame left %s with %d moves", p.Board().Notation(), len(p.moves))
	}
}
