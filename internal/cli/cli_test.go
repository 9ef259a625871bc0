package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aygame101/cardboard/internal/checklist"
	"github.com/aygame101/cardboard/internal/checklist/checklisttest"
	"github.com/aygame101/cardboard/internal/trello"
)

type testEnv struct {
	remote *checklisttest.Store
	dir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return &testEnv{remote: checklisttest.New(), dir: t.TempDir()}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &App{remote: e.remote, logWriter: io.Discard}
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	base := []string{
		"--config", filepath.Join(e.dir, "config.toml"),
		"--prefs", filepath.Join(e.dir, "prefs.toml"),
	}
	cmd.SetArgs(append(base, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decode[T any](t *testing.T, raw string) (T, map[string]json.RawMessage) {
	t.Helper()
	var env struct {
		Data T                          `json:"data"`
		Meta map[string]json.RawMessage `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &env), "output: %s", raw)
	return env.Data, env.Meta
}

func TestBrowseCommands(t *testing.T) {
	env := newTestEnv(t)
	env.remote.SeedBoard("b1", "l1", "c1", "c2")

	out, err := env.run(t, "boards")
	require.NoError(t, err)
	boards, _ := decode[[]trello.Board](t, out)
	require.Len(t, boards, 1)
	require.Equal(t, "Board b1", boards[0].Name)

	out, err = env.run(t, "lists", "b1")
	require.NoError(t, err)
	lists, _ := decode[[]trello.List](t, out)
	require.Len(t, lists, 1)
	require.Equal(t, "l1", lists[0].ID)

	out, err = env.run(t, "cards", "l1")
	require.NoError(t, err)
	cards, _ := decode[[]trello.Card](t, out)
	require.Len(t, cards, 2)
	require.Equal(t, "c2", cards[1].ID)
}

func TestChecklistsCommand_ListsItems(t *testing.T) {
	env := newTestEnv(t)
	env.remote.Seed("card", "Groceries", "Buy milk")

	out, err := env.run(t, "checklists", "card")
	require.NoError(t, err)
	lists, _ := decode[[]trello.Checklist](t, out)
	require.Len(t, lists, 1)
	require.Equal(t, []string{"Buy milk"}, lists[0].ItemNames())
}

func TestChecklistSave_Reconciles(t *testing.T) {
	env := newTestEnv(t)
	cl := env.remote.Seed("card", "Groceries", "Buy milk", "Buy eggs")

	out, err := env.run(t, "checklist", "save", "card", cl.ID, "--item", "Buy eggs", "--item", " Buy bread ", "--item", "  ")
	require.NoError(t, err)

	outcome, meta := decode[checklist.SaveOutcome](t, out)
	require.True(t, outcome.Result.Success)
	require.False(t, outcome.Renamed)
	require.Len(t, outcome.Result.Deleted, 1)
	require.True(t, outcome.Refreshed)
	require.Equal(t, []string{"Buy eggs", "Buy bread"}, outcome.Canonical.ItemNames())
	require.JSONEq(t, `[]`, string(meta["messages"]))

	got, _ := env.remote.Checklist(cl.ID)
	require.Equal(t, "Groceries", got.Name)
	require.Equal(t, []string{"Buy eggs", "Buy bread"}, got.ItemNames())
}

func TestChecklistSave_RenameAndPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	cl := env.remote.Seed("card", "Groceries", "Buy milk")
	env.remote.Fail("AddItem", "Buy bread", nil)

	out, err := env.run(t, "checklist", "save", "card", cl.ID, "--name", "Shopping", "--item", "Buy milk", "--item", "Buy bread")
	require.ErrorIs(t, err, ErrPartialFailure)

	outcome, meta := decode[checklist.SaveOutcome](t, out)
	require.True(t, outcome.Renamed)
	require.False(t, outcome.Result.Success)
	require.Len(t, outcome.Result.Failed, 1)
	require.Equal(t, "Buy bread", outcome.Result.Failed[0].Target)

	var msgs []string
	require.NoError(t, json.Unmarshal(meta["messages"], &msgs))
	require.Equal(t, []string{checklist.MsgItemsFailed}, msgs)

	got, _ := env.remote.Checklist(cl.ID)
	require.Equal(t, "Shopping", got.Name)
}

func TestChecklistSave_RequiresItemsOrClear(t *testing.T) {
	env := newTestEnv(t)
	cl := env.remote.Seed("card", "Groceries", "Buy milk")

	_, err := env.run(t, "checklist", "save", "card", cl.ID)
	require.Error(t, err)
	require.Contains(t, err.Error(), "--clear")
	require.Empty(t, env.remote.CallsTo("DeleteItem"))

	_, err = env.run(t, "checklist", "save", "card", cl.ID, "--clear")
	require.NoError(t, err)
	got, _ := env.remote.Checklist(cl.ID)
	require.Empty(t, got.Items)
}

func TestChecklistSave_UnknownChecklist(t *testing.T) {
	env := newTestEnv(t)
	env.remote.Seed("card", "Groceries")

	_, err := env.run(t, "checklist", "save", "card", "nope", "--item", "x")
	require.ErrorIs(t, err, checklist.ErrUnknownChecklist)
}

func TestChecklistCreate(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "checklist", "create", "card", "--name", "Packing", "--item", "Socks", "--item", "Hat")
	require.NoError(t, err)
	res, _ := decode[checklist.CreateResult](t, out)
	require.Equal(t, "Packing", res.Name)
	require.Equal(t, 2, res.ItemsCreated)

	got, ok := env.remote.Checklist(res.ChecklistID)
	require.True(t, ok)
	require.Equal(t, []string{"Socks", "Hat"}, got.ItemNames())
}

func TestChecklistCreate_ItemFailureIsPartial(t *testing.T) {
	env := newTestEnv(t)
	env.remote.Fail("AddItem", "Hat", nil)

	out, err := env.run(t, "checklist", "create", "card", "--name", "Packing", "--item", "Socks", "--item", "Hat")
	require.ErrorIs(t, err, ErrPartialFailure)
	res, _ := decode[checklist.CreateResult](t, out)
	require.Equal(t, 1, res.ItemsCreated)
	require.Equal(t, 1, res.ItemsFailed)
}

func TestChecklistDelete(t *testing.T) {
	env := newTestEnv(t)
	cl := env.remote.Seed("card", "Groceries")

	_, err := env.run(t, "checklist", "delete", cl.ID)
	require.NoError(t, err)
	_, ok := env.remote.Checklist(cl.ID)
	require.False(t, ok)

	env.remote.Fail("DeleteChecklist", "gone", nil)
	_, err = env.run(t, "checklist", "delete", "gone")
	require.ErrorIs(t, err, checklisttest.ErrInjected)
	require.Contains(t, err.Error(), checklist.MsgDeleteFailed)
}

func TestItemToggle(t *testing.T) {
	env := newTestEnv(t)
	cl := env.remote.Seed("card", "Groceries", "Buy milk")
	itemID := cl.Items[0].ID

	out, err := env.run(t, "item", "toggle", cl.ID, itemID)
	require.NoError(t, err)
	res, _ := decode[map[string]string](t, out)
	require.Equal(t, string(trello.StateComplete), res["state"])

	out, err = env.run(t, "item", "toggle", cl.ID, itemID, "--state", "complete")
	require.NoError(t, err)
	res, _ = decode[map[string]string](t, out)
	require.Equal(t, string(trello.StateComplete), res["state"])

	got, _ := env.remote.Checklist(cl.ID)
	require.True(t, got.Items[0].Complete())

	_, err = env.run(t, "item", "toggle", cl.ID, itemID, "--state", "maybe")
	require.Error(t, err)

	_, err = env.run(t, "item", "toggle", cl.ID, "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestEdit_RequiresCard(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "edit")
	require.Error(t, err)
	require.Contains(t, err.Error(), "card id required")
}

func TestLogs_TailsAndFilters(t *testing.T) {
	env := newTestEnv(t)
	logPath := filepath.Join(env.dir, "cardboard.log")
	cfg := fmt.Sprintf("log_file = %q\n", logPath)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "config.toml"), []byte(cfg), 0o644))

	lines := []string{
		`time=2026-01-01T00:00:00Z level=INFO msg="saved checklist"`,
		`time=2026-01-01T00:00:01Z level=WARN msg="add item failed"`,
		`time=2026-01-01T00:00:02Z level=ERROR msg="delete checklist failed"`,
	}
	require.NoError(t, os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	out, err := env.run(t, "logs", "-n", "2")
	require.NoError(t, err)
	require.Equal(t, lines[1]+"\n"+lines[2]+"\n", out)

	out, err = env.run(t, "logs", "--level", "error")
	require.NoError(t, err)
	require.Equal(t, lines[2]+"\n", out)
}
