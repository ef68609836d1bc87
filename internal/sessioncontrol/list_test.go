// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import "testing"

func TestListStreamsSessionNamesTerminatedByEmptyString(t *testing.T) {
	c, sender, _ := testController(t)
	from := udpAddr(t, "127.0.0.1:40")

	if err := c.New(from, "one"); err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Close(from); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.New(from, "two"); err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Close(from); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := c.List(from); err != nil {
		t.Fatalf("List: %v", err)
	}

	replies := sender.replies("/nsm/server/list")
	if len(replies) != 3 {
		t.Fatalf("got %d replies, want 3 (two names + terminator)", len(replies))
	}
	last := replies[len(replies)-1]
	if last.msg.Args[1] != "" {
		t.Fatalf("last /reply arg = %q, want empty-string terminator", last.msg.Args[1])
	}
}
