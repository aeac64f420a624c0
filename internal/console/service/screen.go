package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"dispatch-console/internal/console/domain"
	"dispatch-console/pkg/liststate"
	"dispatch-console/pkg/logger"
)

// Screen is one open list screen. Implementations serialize access, so a
// screen may be driven from a websocket reader while notifications arrive
// on other goroutines.
type Screen interface {
	Name() string
	Apply(ctx context.Context, cmd Command) (Reply, error)
	View() View
	Export(format string) (Export, error)
}

// Definition describes a screen over rows of type T with fields F.
type Definition[T liststate.Row[T, F], F ~string] struct {
	Name   string
	Store  domain.Store[T]
	Parse  func(string) (F, error)
	Config liststate.Config[F]
}

// Deps are shared by every screen.
type Deps struct {
	Log       logger.Logger
	Publisher Publisher
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// ListScreen binds a list engine to the store it mirrors.
type ListScreen[T liststate.Row[T, F], F ~string] struct {
	mu     sync.Mutex
	def    Definition[T, F]
	engine *liststate.Engine[T, F]
	deps   Deps
	log    logger.Logger
}

// OpenListScreen loads the screen's rows from its store.
func OpenListScreen[T liststate.Row[T, F], F ~string](ctx context.Context, def Definition[T, F], deps Deps) (*ListScreen[T, F], error) {
	deps = deps.withDefaults()
	data, err := def.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", def.Name, err)
	}
	s := &ListScreen[T, F]{
		def:    def,
		engine: liststate.New(data, def.Config),
		deps:   deps,
		log:    deps.Log.WithFields(logger.LogFields{"screen": def.Name}),
	}
	s.log.Debug("screen_opened", fmt.Sprintf("Loaded %d rows", len(data)))
	return s, nil
}

func (s *ListScreen[T, F]) Name() string { return s.def.Name }

func (s *ListScreen[T, F]) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Apply runs one command. Store calls happen before the matching engine
// mutation, except for create: the engine assigns the identity first and
// the row is withdrawn again when the store rejects it. Created and edited
// rows are shown as the store returned them.
func (s *ListScreen[T, F]) Apply(ctx context.Context, cmd Command) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply := Reply{Type: ReplyView}
	var err error

	switch cmd.Type {
	case CmdView:
	case CmdSearch:
		s.engine.SetSearchTerm(cmd.Term)
	case CmdFilter:
		err = s.setFilter(cmd.Field, cmd.Value)
	case CmdClearFilters:
		s.engine.ClearFilters()
	case CmdPage:
		s.engine.SetCurrentPage(cmd.Page)
	case CmdPageSize:
		if cmd.Size <= 0 {
			err = fmt.Errorf("%w: page size must be positive", ErrBadCommand)
			break
		}
		s.engine.SetPageSize(cmd.Size)
	case CmdToggle:
		err = s.toggle(cmd.ID)
	case CmdToggleAll:
		s.engine.ToggleAllSelection()
	case CmdClearSelection:
		s.engine.ClearSelection()
	case CmdCreate:
		err = s.create(ctx, cmd.Item)
	case CmdEdit:
		err = s.edit(ctx, cmd.Item)
	case CmdDelete:
		err = s.delete(ctx, cmd.ID)
	case CmdBulkDelete:
		err = s.bulkDelete(ctx)
	case CmdRefresh:
		err = s.refresh(ctx)
	case CmdExport:
		var exp Export
		exp, err = s.export(cmd.Format)
		if err == nil {
			reply.Type = ReplyExport
			reply.Export = &exp
		}
	case CmdBroadcast:
		var res BroadcastResult
		res, err = s.broadcast(ctx, cmd.Message)
		if err == nil {
			reply.Type = ReplyBroadcast
			reply.Broadcast = &res
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	if err != nil {
		return Reply{}, err
	}
	reply.View = s.view()
	return reply, nil
}

func (s *ListScreen[T, F]) setFilter(name, value string) error {
	field, err := s.def.Parse(name)
	if err != nil {
		return fmt.Errorf("filter %q: %w", name, err)
	}
	s.engine.SetFilter(field, value)
	return nil
}

// toggle flips the selection of a row. Identities no longer in the dataset
// can only be deselected.
func (s *ListScreen[T, F]) toggle(id string) error {
	if id == "" {
		return fmt.Errorf("%w: toggle needs an id", ErrBadCommand)
	}
	item, ok := s.engine.Find(id)
	if !ok {
		var zero T
		item = zero.WithRowID(id)
		if !s.engine.IsSelected(item) {
			return fmt.Errorf("toggle %s: %w", id, domain.ErrNotFound)
		}
	}
	s.engine.ToggleSelection(item)
	return nil
}

func (s *ListScreen[T, F]) create(ctx context.Context, raw json.RawMessage) error {
	var partial T
	if err := decodeItem(raw, &partial); err != nil {
		return err
	}
	created := s.engine.HandleCreate(partial)
	saved, err := s.def.Store.Create(ctx, created)
	if err != nil {
		s.engine.HandleDelete(created.RowID())
		return fmt.Errorf("create: %w", err)
	}
	s.engine.HandleEdit(saved.WithRowID(created.RowID()))
	s.log.WithFields(logger.LogFields{"row_id": created.RowID()}).Info("row_created", "Row created")
	return nil
}

func (s *ListScreen[T, F]) edit(ctx context.Context, raw json.RawMessage) error {
	var item T
	if err := decodeItem(raw, &item); err != nil {
		return err
	}
	if item.RowID() == "" {
		return fmt.Errorf("%w: edit needs an id", ErrBadCommand)
	}
	saved, err := s.def.Store.Update(ctx, item)
	if err != nil {
		return fmt.Errorf("edit %s: %w", item.RowID(), err)
	}
	s.engine.HandleEdit(saved.WithRowID(item.RowID()))
	s.log.WithFields(logger.LogFields{"row_id": item.RowID()}).Info("row_updated", "Row updated")
	return nil
}

// delete removes a row. A row already gone from the store is still
// dropped from the list.
func (s *ListScreen[T, F]) delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: delete needs an id", ErrBadCommand)
	}
	if err := s.def.Store.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	s.engine.HandleDelete(id)
	s.log.WithFields(logger.LogFields{"row_id": id}).Info("row_deleted", "Row deleted")
	return nil
}

func (s *ListScreen[T, F]) bulkDelete(ctx context.Context) error {
	if !s.engine.Config().EnableBulkDelete {
		return liststate.ErrBulkDeleteDisabled
	}
	selected := s.engine.SelectedItems()
	ids := make([]string, len(selected))
	for i, item := range selected {
		ids[i] = item.RowID()
	}
	if err := s.def.Store.DeleteMany(ctx, ids); err != nil {
		return fmt.Errorf("bulk delete: %w", err)
	}
	removed, err := s.engine.HandleBulkDelete()
	if err != nil {
		return err
	}
	s.log.WithFields(logger.LogFields{"rows": len(removed)}).Info("rows_bulk_deleted", "Selected rows deleted")
	return nil
}

// refresh replaces the dataset from the store, which also resets the page
// and the selection.
func (s *ListScreen[T, F]) refresh(ctx context.Context) error {
	data, err := s.def.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	s.engine.SetData(data)
	s.log.WithFields(logger.LogFields{"rows": len(data)}).Debug("screen_refreshed", "Screen data replaced")
	return nil
}

func (s *ListScreen[T, F]) view() View {
	filters := make(map[string]string)
	for f, v := range s.engine.Filters() {
		filters[string(f)] = v
	}
	selected := s.engine.SelectedIDs()
	if selected == nil {
		selected = []string{}
	}
	cfg := s.engine.Config()
	return View{
		Screen:            s.def.Name,
		Rows:              s.engine.PageSlice(),
		Page:              s.engine.CurrentPage(),
		PageSize:          s.engine.PageSize(),
		TotalPages:        s.engine.TotalPages(),
		TotalItems:        s.engine.TotalItems(),
		StartIndex:        s.engine.StartIndex(),
		EndIndex:          s.engine.EndIndex(),
		HasNextPage:       s.engine.HasNextPage(),
		HasPreviousPage:   s.engine.HasPreviousPage(),
		SelectedIDs:       selected,
		AllSelectedOnPage: s.engine.IsAllSelectedOnPage(),
		Search:            s.engine.SearchTerm(),
		Filters:           filters,
		BulkDelete:        cfg.EnableBulkDelete,
		Export:            cfg.EnableExport,
	}
}

func decodeItem(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing item", ErrBadCommand)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadCommand, err)
	}
	return nil
}
