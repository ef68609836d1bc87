// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oscreg

import "fmt"

// Direction describes which side of a connection originates a message.
type Direction int

const (
	// ClientToServer messages are sent by a supervised client or the CLI
	// to the daemon.
	ClientToServer Direction = iota
	// ServerToClient messages are sent by the daemon to a supervised
	// client.
	ServerToClient
	// ServerToGUI messages are sent by the daemon to an attached GUI.
	ServerToGUI
	// AnyToAny covers /reply and /error, which travel in both
	// directions depending on who issued the original request.
	AnyToAny
)

// Tag symbolically names one entry in the message table. Handlers
// register against a Tag rather than a raw path string so a typo in a
// literal path cannot silently create an unreachable handler.
type Tag string

// Tags for every message spec.md §6 names. Tag values are descriptive,
// not wire values — Path holds the actual OSC path.
const (
	TagServerAnnounce  Tag = "server/announce"
	TagServerSave      Tag = "server/save"
	TagServerOpen      Tag = "server/open"
	TagServerNew       Tag = "server/new"
	TagServerDuplicate Tag = "server/duplicate"
	TagServerClose     Tag = "server/close"
	TagServerAbort     Tag = "server/abort"
	TagServerQuit      Tag = "server/quit"
	TagServerList      Tag = "server/list"
	TagServerAdd       Tag = "server/add"
	TagServerBroadcast Tag = "server/broadcast"

	TagClientOpen            Tag = "client/open"
	TagClientSave            Tag = "client/save"
	TagClientSessionLoaded   Tag = "client/session_is_loaded"
	TagClientShowOptionalGUI Tag = "client/show_optional_gui"
	TagClientHideOptionalGUI Tag = "client/hide_optional_gui"

	TagClientProgress     Tag = "client/progress"
	TagClientIsDirty      Tag = "client/is_dirty"
	TagClientIsClean      Tag = "client/is_clean"
	TagClientGUIIsHidden  Tag = "client/gui_is_hidden"
	TagClientGUIIsShown   Tag = "client/gui_is_shown"
	TagClientMessage      Tag = "client/message"
	TagClientLabel        Tag = "client/label"

	TagGUIAnnounce       Tag = "gui/gui_announce"
	TagGUIServerAnnounce Tag = "gui/server_announce"

	TagReply Tag = "reply"
	TagError Tag = "error"
)

// Entry describes one registered message: its wire path, argument type
// signature (characters drawn from 's', 'i', 'f'), direction, and whether
// an argument tuple is required (an empty signature still "needs" zero
// arguments, which is distinct from the path being optional).
type Entry struct {
	Tag         Tag
	Path        string
	Signature   string
	Direction   Direction
	NeedsArgs   bool
}

// table is the static registry, a package-level literal from which init
// builds the byTag and byPath indices. None of the three is mutated
// after init, so concurrent reads from multiple goroutines (the
// daemon's dispatch loop and any admin tooling) need no locking.
var table = []Entry{
	{TagServerAnnounce, "/nsm/server/announce", "sssiii", ClientToServer, true},
	{TagServerSave, "/nsm/server/save", "", ClientToServer, false},
	{TagServerOpen, "/nsm/server/open", "s", ClientToServer, true},
	{TagServerNew, "/nsm/server/new", "s", ClientToServer, true},
	{TagServerDuplicate, "/nsm/server/duplicate", "s", ClientToServer, true},
	{TagServerClose, "/nsm/server/close", "", ClientToServer, false},
	{TagServerAbort, "/nsm/server/abort", "", ClientToServer, false},
	{TagServerQuit, "/nsm/server/quit", "", ClientToServer, false},
	{TagServerList, "/nsm/server/list", "", ClientToServer, false},
	{TagServerAdd, "/nsm/server/add", "s", ClientToServer, true},
	{TagServerBroadcast, "/nsm/server/broadcast", "", ClientToServer, true},

	{TagClientOpen, "/nsm/client/open", "sss", ServerToClient, true},
	{TagClientSave, "/nsm/client/save", "", ServerToClient, false},
	{TagClientSessionLoaded, "/nsm/client/session_is_loaded", "", ServerToClient, false},
	{TagClientShowOptionalGUI, "/nsm/client/show_optional_gui", "", ServerToClient, false},
	{TagClientHideOptionalGUI, "/nsm/client/hide_optional_gui", "", ServerToClient, false},

	{TagClientProgress, "/nsm/client/progress", "f", ClientToServer, true},
	{TagClientIsDirty, "/nsm/client/is_dirty", "", ClientToServer, false},
	{TagClientIsClean, "/nsm/client/is_clean", "", ClientToServer, false},
	{TagClientGUIIsHidden, "/nsm/client/gui_is_hidden", "", ClientToServer, false},
	{TagClientGUIIsShown, "/nsm/client/gui_is_shown", "", ClientToServer, false},
	{TagClientMessage, "/nsm/client/message", "is", ClientToServer, true},
	{TagClientLabel, "/nsm/client/label", "s", ClientToServer, true},

	{TagGUIAnnounce, "/nsm/gui/gui_announce", "", ClientToServer, false},
	{TagGUIServerAnnounce, "/nsm/gui/server_announce", "", ClientToServer, false},

	{TagReply, "/reply", "", AnyToAny, false},
	{TagError, "/error", "sis", AnyToAny, true},
}

var (
	byTag  = make(map[Tag]Entry, len(table))
	byPath = make(map[string]Entry, len(table))
)

func init() {
	for _, entry := range table {
		if _, exists := byTag[entry.Tag]; exists {
			panic(fmt.Sprintf("oscreg: duplicate tag %q", entry.Tag))
		}
		byTag[entry.Tag] = entry
		// /reply and /error reuse one path for many logical requests —
		// the path alone does not identify a unique Entry for those, so
		// the reverse index intentionally keeps the first (canonical)
		// registration and callers needing per-request routing inspect
		// the echoed request path inside the message body instead.
		if _, exists := byPath[entry.Path]; !exists {
			byPath[entry.Path] = entry
		}
	}
}

// Lookup returns the registered entry for tag.
func Lookup(tag Tag) (Entry, bool) {
	entry, ok := byTag[tag]
	return entry, ok
}

// LookupPath returns the registered entry whose wire path equals path.
func LookupPath(path string) (Entry, bool) {
	entry, ok := byPath[path]
	return entry, ok
}

// MustLookup is Lookup but panics on an unknown tag. Intended for
// call sites that build a message from a Tag the registry is known (by
// construction) to contain — a panic there indicates a programmer error
// in this package, not a runtime condition.
func MustLookup(tag Tag) Entry {
	entry, ok := Lookup(tag)
	if !ok {
		panic(fmt.Sprintf("oscreg: unknown tag %q", tag))
	}
	return entry
}
