package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBoardID    = "board_id"
	KeyListID     = "list_id"
	KeyCardID     = "card_id"
	KeyNodeType   = "node_type"
	KeyCommand    = "command"
	KeyResult     = "result"
	KeyMethod     = "method"
	KeyRoute      = "route"
	KeyURL        = "url"
	KeyStatus     = "status"
	KeyRequestID  = "request_id"
	KeyDurationMS = "duration_ms"
	KeyGeneration = "generation"
	KeyCount      = "count"
	KeyPath       = "path"
	KeyError      = "error"
	KeyRemoteAddr = "remote_addr"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BoardID(id string) slog.Attr     { return slog.String(KeyBoardID, id) }
func ListID(id string) slog.Attr      { return slog.String(KeyListID, id) }
func CardID(id string) slog.Attr      { return slog.String(KeyCardID, id) }
func NodeType(t string) slog.Attr     { return slog.String(KeyNodeType, t) }
func Command(name string) slog.Attr   { return slog.String(KeyCommand, name) }
func Result(r int) slog.Attr          { return slog.Int(KeyResult, r) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Generation(g uint64) slog.Attr   { return slog.Uint64(KeyGeneration, g) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
