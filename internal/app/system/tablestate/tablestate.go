// Package tablestate carries a list table's view state (search, filter,
// sort, page and selection) across requests. Interactions arrive as query
// parameters; the resulting state is saved per user and table.
package tablestate

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	tablestatestore "github.com/flicapp/flicapp/internal/app/store/tablestates"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Query parameters understood by Apply.
const (
	ParamReset      = "reset"
	ParamSearch     = "search"
	ParamFilter     = "filter"
	ParamSort       = "sort"
	ParamOrder      = "order"
	ParamPage       = "page"
	ParamToggle     = "toggle"
	ParamTogglePage = "toggle_page"
	ParamClear      = "clear"
	ParamPrune      = "prune"
)

var params = []string{
	ParamReset, ParamSearch, ParamFilter, ParamSort, ParamOrder,
	ParamPage, ParamToggle, ParamTogglePage, ParamClear, ParamPrune,
}

// Apply applies the interactions in v to t in a fixed order: reset, search,
// filter, sort, page, then selection. A search or filter that differs from
// the current one returns to page 1 before an explicit page is applied. It
// reports whether v carried any interaction.
func Apply[T datatable.Row](t *datatable.Table[T], v url.Values) bool {
	if !touches(v) {
		return false
	}

	if v.Has(ParamReset) {
		t.Reset()
	}
	if v.Has(ParamSearch) {
		if term := strings.TrimSpace(v.Get(ParamSearch)); term != t.Search() {
			t.SetSearch(term)
		}
	}
	if v.Has(ParamFilter) {
		if f := strings.TrimSpace(v.Get(ParamFilter)); f != t.FilterValue() {
			t.SetFilter(f)
		}
	}
	if field := strings.TrimSpace(v.Get(ParamSort)); field != "" {
		if v.Has(ParamOrder) {
			t.SetSort(field, datatable.ParseSortOrder(v.Get(ParamOrder)))
		} else {
			t.ToggleSort(field)
		}
	}
	if p, err := strconv.Atoi(v.Get(ParamPage)); err == nil {
		t.SetPage(p)
	}

	for _, id := range v[ParamToggle] {
		if id = strings.TrimSpace(id); id != "" {
			t.Toggle(id)
		}
	}
	if v.Has(ParamTogglePage) {
		t.ToggleAllOnPage()
	}
	if v.Has(ParamClear) {
		t.ClearSelection()
	}
	if v.Has(ParamPrune) {
		t.PruneSelection()
	}
	return true
}

func touches(v url.Values) bool {
	for _, p := range params {
		if v.Has(p) {
			return true
		}
	}
	return false
}

// Manager loads and saves view state for signed-in users.
type Manager struct {
	store *tablestatestore.Store
	log   *zap.Logger
}

// NewManager returns a Manager backed by the table_states collection.
func NewManager(db *mongo.Database, log *zap.Logger) *Manager {
	return &Manager{store: tablestatestore.New(db), log: log}
}

// Store exposes the underlying store for sign-out cleanup.
func (m *Manager) Store() *tablestatestore.Store { return m.store }

// Sync restores the user's saved state for the named table into t, applies
// the interactions in v and saves the result when anything changed. t must
// already hold its data. Load and save failures are logged and the request
// continues with the state it has. It reports whether v carried any
// interaction, so HTML handlers can redirect to the clean list URL.
func Sync[T datatable.Row](ctx context.Context, m *Manager, userID, name string, t *datatable.Table[T], v url.Values) bool {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return Apply(t, v)
	}

	st, err := m.store.Load(ctx, uid, name)
	if err != nil {
		m.log.Warn("table state load failed", zap.String("table", name), zap.Error(err))
	}
	t.Restore(st)

	if !Apply(t, v) {
		return false
	}
	if err := m.store.Save(ctx, uid, name, t.State()); err != nil {
		m.log.Warn("table state save failed", zap.String("table", name), zap.Error(err))
	}
	return true
}

// Save stores t's current state. Handlers call it after a bulk action
// clears the selection.
func Save[T datatable.Row](ctx context.Context, m *Manager, userID, name string, t *datatable.Table[T]) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}
	if err := m.store.Save(ctx, uid, name, t.State()); err != nil {
		m.log.Warn("table state save failed", zap.String("table", name), zap.Error(err))
	}
}
