// Package command exposes go-command compatible command handlers implementing
// go-swagdesk business logic (code issuance, verification, request intake and
// approval, retention sweeps). Commands are wired by the service layer and can
// be invoked by any transport.
package command
