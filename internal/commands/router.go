// Package commands exposes the note operations to the presentation layer as
// named commands. Every failure is converted to a message string; a command
// never panics the process.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/fuchigta/mdsticker/internal/search"
	"github.com/fuchigta/mdsticker/internal/session"
	"github.com/fuchigta/mdsticker/internal/storage"
	"github.com/fuchigta/mdsticker/internal/trash"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Searcher runs full-text queries over live notes
type Searcher interface {
	Search(query string, limit int) ([]*search.Result, error)
}

// Error is a failed command as reported to the caller
type Error struct {
	Command string `json:"command"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Command + ": " + e.Message
}

// Handler runs one command. window is the label of the calling window, which
// for note windows is the note id.
type Handler func(ctx context.Context, window string, payload json.RawMessage) (any, error)

type Router struct {
	sync   *session.Synchronizer
	trash  *trash.Manager
	search Searcher
	log    zerolog.Logger
	routes map[string]Handler
}

type SaveContentRequest struct {
	Content string `json:"content"`
}

type SaveColorRequest struct {
	Color string `json:"color"`
}

type IDsRequest struct {
	IDs []string `json:"ids"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type RestoreResponse struct {
	Restored []string `json:"restored"`
	Reopened []string `json:"reopened"`
}

type SearchResponse struct {
	Results []*search.Result `json:"results"`
	Query   string           `json:"query"`
	Count   int              `json:"count"`
}

// New creates a router. idx may be nil, in which case search_notes fails.
func New(sync *session.Synchronizer, bin *trash.Manager, idx Searcher, log zerolog.Logger) *Router {
	r := &Router{
		sync:   sync,
		trash:  bin,
		search: idx,
		log:    log,
	}

	r.routes = map[string]Handler{
		"create_note":   r.handleCreateNote,
		"save_content":  r.handleSaveContent,
		"save_color":    r.handleSaveColor,
		"toggle_pinned": r.handleTogglePinned,
		"close_note":    r.handleCloseNote,
		"load_note":     r.handleLoadNote,
		"list_trash":    r.handleListTrash,
		"delete_notes":  r.handleDeleteNotes,
		"restore_notes": r.handleRestoreNotes,
		"search_notes":  r.handleSearchNotes,
	}

	return r
}

// Names returns the registered command names, sorted
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command on behalf of window
func (r *Router) Invoke(ctx context.Context, window, name string, payload json.RawMessage) (any, *Error) {
	handler, ok := r.routes[name]
	if !ok {
		r.log.Warn().Str("command", name).Str("window", window).Msg("unknown command")
		return nil, &Error{Command: name, Message: "unknown command"}
	}

	result, err := handler(ctx, window, payload)
	if err != nil {
		r.log.Error().Err(err).Str("command", name).Str("window", window).Msg("command failed")
		return nil, &Error{Command: name, Message: message(err)}
	}

	r.log.Debug().Str("command", name).Str("window", window).Msg("command complete")
	return result, nil
}

// message turns err into the string shown to the user
func message(err error) string {
	var storeErr *storage.Error
	switch {
	case errors.Is(err, storage.ErrNotFound) && errors.As(err, &storeErr):
		return fmt.Sprintf("note %s not found", storeErr.ID)
	case errors.Is(err, storage.ErrNotFound):
		return "note not found"
	default:
		return err.Error()
	}
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func (r *Router) handleCreateNote(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	return r.sync.CreateNote(ctx)
}

func (r *Router) handleSaveContent(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	var req SaveContentRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, r.sync.SaveContent(ctx, window, req.Content)
}

func (r *Router) handleSaveColor(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	var req SaveColorRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, r.sync.SaveColor(ctx, window, req.Color)
}

func (r *Router) handleTogglePinned(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	return r.sync.TogglePinned(ctx, window)
}

func (r *Router) handleCloseNote(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	return nil, r.sync.CloseNote(ctx, window)
}

func (r *Router) handleLoadNote(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	return r.sync.LoadNote(ctx, window)
}

func (r *Router) handleListTrash(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	return r.trash.List(ctx)
}

func (r *Router) handleDeleteNotes(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	var req IDsRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	deleted, err := r.trash.Delete(ctx, req.IDs)
	if err != nil {
		return nil, err
	}
	return DeleteResponse{Deleted: deleted}, nil
}

func (r *Router) handleRestoreNotes(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	var req IDsRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	result, err := r.trash.Recover(ctx, req.IDs)
	if err != nil {
		return nil, err
	}

	resp := RestoreResponse{
		Restored: make([]string, 0, len(result.Restored)),
		Reopened: result.Reopened,
	}
	for _, n := range result.Restored {
		resp.Restored = append(resp.Restored, n.ID)
	}
	return resp, nil
}

func (r *Router) handleSearchNotes(ctx context.Context, window string, payload json.RawMessage) (any, error) {
	if r.search == nil {
		return nil, errors.New("search is not available")
	}

	var req SearchRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if req.Query == "" {
		return SearchResponse{Results: []*search.Result{}}, nil
	}

	limit := defaultSearchLimit
	if req.Limit > 0 && req.Limit <= maxSearchLimit {
		limit = req.Limit
	}

	results, err := r.search.Search(req.Query, limit)
	if err != nil {
		return nil, err
	}

	return SearchResponse{
		Results: results,
		Query:   req.Query,
		Count:   len(results),
	}, nil
}
