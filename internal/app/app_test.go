package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aygame101/cardboard/internal/checklist"
	"github.com/aygame101/cardboard/internal/checklist/checklisttest"
	"github.com/aygame101/cardboard/internal/prefs"
	"github.com/aygame101/cardboard/internal/state"
	"github.com/aygame101/cardboard/internal/trello"
)

func newTestApp(t *testing.T) (*App, *checklisttest.Store, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	remote := checklisttest.New()
	var logs bytes.Buffer
	a, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		LogWriter:  &logs,
		Remote:     remote,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, remote, &logs
}

func TestNew_RequiresCredentialsWithoutRemote(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CARDBOARD_API_KEY", "")
	t.Setenv("CARDBOARD_API_TOKEN", "")

	_, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml"), LogWriter: &bytes.Buffer{}})
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNew_BuildsHTTPClientFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CARDBOARD_API_KEY", "k")
	t.Setenv("CARDBOARD_API_TOKEN", "t")

	a, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml"), LogWriter: &bytes.Buffer{}})
	require.NoError(t, err)
	_, ok := a.Remote.(*trello.Client)
	require.True(t, ok, "Remote = %T, want *trello.Client", a.Remote)
	require.NoError(t, a.Close())
}

func TestSave_RefreshesCacheFromCanonical(t *testing.T) {
	a, remote, logs := newTestApp(t)
	ctx := context.Background()
	cl := remote.Seed("card", "Groceries", "Buy milk", "Buy eggs")

	_, err := a.Load(ctx, "card")
	require.NoError(t, err)

	out, err := a.Save(ctx, cl, "card", "Groceries", []string{"Buy eggs", "Buy bread"})
	require.NoError(t, err)
	require.True(t, out.Success())
	require.True(t, out.Refreshed)

	cached, ok := a.Cache.Snapshot().Find(cl.ID)
	require.True(t, ok)
	require.Equal(t, []string{"Buy eggs", "Buy bread"}, cached.ItemNames())
	require.False(t, a.Cache.Saving(cl.ID), "save guard should be released")
	require.Contains(t, logs.String(), "reconcile checklist")
}

func TestSave_DraftReplacesPlaceholderInCache(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()

	draft := state.NewDraft("card")
	draft.SetName("Packing")
	draft.AddItem("Socks")

	out, err := a.Save(ctx, draft.Persisted, draft.CardID, draft.Name, draft.Names())
	require.NoError(t, err)
	require.True(t, out.Created)

	snap := a.Cache.Snapshot()
	_, found := snap.Find(draft.ID())
	require.False(t, found)
	cached, ok := snap.Find(out.ChecklistID)
	require.True(t, ok)
	require.Equal(t, "Packing", cached.Name)
}

func TestSave_CreatedWithoutRefreshCachesRealID(t *testing.T) {
	a, remote, logs := newTestApp(t)
	ctx := context.Background()
	remote.Fail("ListChecklistsForCard", "card", nil)

	draft := state.NewDraft("card")
	draft.SetName("Packing")
	draft.AddItem("Socks")

	out, err := a.Save(ctx, draft.Persisted, draft.CardID, draft.Name, draft.Names())
	require.NoError(t, err)
	require.True(t, out.Created)
	require.False(t, out.Refreshed)

	snap := a.Cache.Snapshot()
	_, found := snap.Find(draft.ID())
	require.False(t, found)
	cached, ok := snap.Find(out.ChecklistID)
	require.True(t, ok)
	require.Equal(t, "Packing", cached.Name)
	require.Equal(t, "card", cached.CardID)
	require.Contains(t, logs.String(), "created checklist not refreshed")
}

func TestSave_RejectsConcurrentSaveOfSameChecklist(t *testing.T) {
	a, remote, _ := newTestApp(t)
	cl := remote.Seed("card", "Groceries", "Milk")

	require.NoError(t, a.Cache.BeginSave(cl.ID))
	_, err := a.Save(context.Background(), cl, "card", "Groceries", []string{"Eggs"})
	require.ErrorIs(t, err, state.ErrSaveInProgress)
	require.Empty(t, remote.CallsTo("ListItems"), "no remote call while another save runs")
	a.Cache.EndSave(cl.ID)
}

func TestDeleteAndToggle_UpdateCache(t *testing.T) {
	a, remote, _ := newTestApp(t)
	ctx := context.Background()
	keep := remote.Seed("card", "Keep", "Milk")
	drop := remote.Seed("card", "Drop")
	_, err := a.Load(ctx, "card")
	require.NoError(t, err)

	next, err := a.Toggle(ctx, keep.ID, keep.Items[0].ID, trello.StateIncomplete)
	require.NoError(t, err)
	require.Equal(t, trello.StateComplete, next)
	cached, _ := a.Cache.Snapshot().Find(keep.ID)
	require.True(t, cached.Items[0].Complete())

	require.NoError(t, a.Delete(ctx, drop.ID))
	_, found := a.Cache.Snapshot().Find(drop.ID)
	require.False(t, found)

	remote.Fail("DeleteChecklist", keep.ID, nil)
	err = a.Delete(ctx, keep.ID)
	require.True(t, errors.Is(err, checklisttest.ErrInjected))
	_, found = a.Cache.Snapshot().Find(keep.ID)
	require.True(t, found, "failed delete must keep the cached checklist")
}

func TestLoad_FailureKeepsCacheAndCountsFailures(t *testing.T) {
	a, remote, _ := newTestApp(t)
	ctx := context.Background()
	remote.Seed("card", "Groceries")
	_, err := a.Load(ctx, "card")
	require.NoError(t, err)

	remote.Fail("ListChecklistsForCard", "card", nil)
	_, err = a.Load(ctx, "card")
	require.Error(t, err)

	snap := a.Cache.Snapshot()
	require.Len(t, snap.Checklists, 1)
	require.Equal(t, 1, snap.ConsecutiveFailures)
}

func TestCreate_UsesService(t *testing.T) {
	a, remote, _ := newTestApp(t)
	res, err := a.Create(context.Background(), "card", "", []string{"a", " ", "b"})
	require.NoError(t, err)
	require.Equal(t, "Checklist", res.Name)
	require.Equal(t, 2, res.ItemsCreated)
	require.Len(t, remote.CallsTo("AddItem"), 2)
}

func TestRememberCard_PersistsPrefs(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.RememberCard("card-7")

	p, err := prefs.Load(a.PrefsPath)
	require.NoError(t, err)
	require.Equal(t, "card-7", p.LastCard)
	require.True(t, strings.HasSuffix(a.PrefsPath, "prefs.toml"))
}

func TestSave_PartialFailureStillReleasesGuard(t *testing.T) {
	a, remote, _ := newTestApp(t)
	cl := remote.Seed("card", "Groceries", "Milk")
	remote.Fail("AddItem", "Eggs", nil)

	out, err := a.Save(context.Background(), cl, "card", "Groceries", []string{"Milk", "Eggs"})
	require.NoError(t, err)
	require.False(t, out.Success())
	require.Equal(t, []string{checklist.MsgItemsFailed}, out.Messages())
	require.False(t, a.Cache.Saving(cl.ID))
}
