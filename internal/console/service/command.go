package service

import (
	"encoding/json"
	"errors"
)

var (
	ErrUnknownScreen  = errors.New("unknown screen")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadCommand     = errors.New("malformed command")
)

// Command types accepted by a screen.
const (
	CmdSearch         = "search"
	CmdFilter         = "filter"
	CmdClearFilters   = "clear_filters"
	CmdPage           = "page"
	CmdPageSize       = "page_size"
	CmdToggle         = "toggle"
	CmdToggleAll      = "toggle_all"
	CmdClearSelection = "clear_selection"
	CmdCreate         = "create"
	CmdEdit           = "edit"
	CmdDelete         = "delete"
	CmdBulkDelete     = "bulk_delete"
	CmdRefresh        = "refresh"
	CmdExport         = "export"
	CmdBroadcast      = "broadcast"
	CmdView           = "view"
)

// Command is one user interaction forwarded by the presentation layer.
type Command struct {
	Type    string          `json:"type"`
	Term    string          `json:"term,omitempty"`
	Field   string          `json:"field,omitempty"`
	Value   string          `json:"value,omitempty"`
	Page    int             `json:"page,omitempty"`
	Size    int             `json:"size,omitempty"`
	ID      string          `json:"id,omitempty"`
	Item    json.RawMessage `json:"item,omitempty"`
	Format  string          `json:"format,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Reply types.
const (
	ReplyView      = "view"
	ReplyExport    = "export"
	ReplyBroadcast = "broadcast"
)

// Reply answers a command. View is always set; Export and Broadcast only
// for the commands producing them.
type Reply struct {
	Type      string           `json:"type"`
	View      View             `json:"view"`
	Export    *Export          `json:"export,omitempty"`
	Broadcast *BroadcastResult `json:"broadcast,omitempty"`
}

// View is what the presentation layer renders for a screen.
type View struct {
	Screen            string            `json:"screen"`
	Rows              any               `json:"rows"`
	Page              int               `json:"page"`
	PageSize          int               `json:"page_size"`
	TotalPages        int               `json:"total_pages"`
	TotalItems        int               `json:"total_items"`
	StartIndex        int               `json:"start_index"`
	EndIndex          int               `json:"end_index"`
	HasNextPage       bool              `json:"has_next_page"`
	HasPreviousPage   bool              `json:"has_previous_page"`
	SelectedIDs       []string          `json:"selected_ids"`
	AllSelectedOnPage bool              `json:"all_selected_on_page"`
	Search            string            `json:"search"`
	Filters           map[string]string `json:"filters"`
	BulkDelete        bool              `json:"bulk_delete"`
	Export            bool              `json:"export"`
}
