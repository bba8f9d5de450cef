package logging

import "log/slog"

// Common field names for consistent logging across the receiver.
const (
	FieldService    = "service"
	FieldSession    = "session_id"
	FieldRemoteAddr = "remote_addr"
	FieldAccount    = "account"
	FieldPanelID    = "panel_id"
	FieldProtocol   = "protocol"
	FieldFault      = "fault"
	FieldEventID    = "event_id"
	FieldError      = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Session returns a slog attribute for a connection session ID.
func Session(id string) slog.Attr {
	return slog.String(FieldSession, id)
}

// RemoteAddr returns a slog attribute for the peer address.
func RemoteAddr(addr string) slog.Attr {
	return slog.String(FieldRemoteAddr, addr)
}

// Account returns a slog attribute for a panel account number.
func Account(account string) slog.Attr {
	return slog.String(FieldAccount, account)
}

// PanelID returns a slog attribute for a resolved panel ID.
func PanelID(id int64) slog.Attr {
	return slog.Int64(FieldPanelID, id)
}

// Protocol returns a slog attribute for the wire protocol of a message.
func Protocol(p string) slog.Attr {
	return slog.String(FieldProtocol, p)
}

// Fault returns a slog attribute naming the fault kind.
func Fault(kind string) slog.Attr {
	return slog.String(FieldFault, kind)
}

// EventID returns a slog attribute for a stored event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
