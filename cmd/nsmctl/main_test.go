// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"testing"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/transport"
)

func TestSendActionWithoutSubjectSendsBareMessage(t *testing.T) {
	daemon, err := transport.Listen(":0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer daemon.Close()

	client, err := transport.Listen(":0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer client.Close()

	if err := sendAction(client, daemon.URL(), "save"); err != nil {
		t.Fatalf("sendAction: %v", err)
	}

	received, err := daemon.Wait(2 * time.Second)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if received.Message.Path != "/nsm/server/save" {
		t.Errorf("Path = %q, want /nsm/server/save", received.Message.Path)
	}
}

func TestSendActionWithSubjectSendsArgument(t *testing.T) {
	daemon, err := transport.Listen(":0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer daemon.Close()

	client, err := transport.Listen(":0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer client.Close()

	if err := sendAction(client, daemon.URL(), "open@my-session"); err != nil {
		t.Fatalf("sendAction: %v", err)
	}

	received, err := daemon.Wait(2 * time.Second)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if received.Message.Path != "/nsm/server/open" {
		t.Errorf("Path = %q, want /nsm/server/open", received.Message.Path)
	}
	if len(received.Message.Args) != 1 || received.Message.Args[0] != "my-session" {
		t.Errorf("Args = %v, want [my-session]", received.Message.Args)
	}
}

func TestSendActionRequiringSubjectWithoutOneErrors(t *testing.T) {
	daemon, err := transport.Listen(":0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer daemon.Close()

	if err := sendAction(daemon, daemon.URL(), "open"); err == nil {
		t.Fatal("sendAction with missing subject succeeded, want error")
	}
}

func TestSendActionWithUnknownNameErrors(t *testing.T) {
	daemon, err := transport.Listen(":0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer daemon.Close()

	if err := sendAction(daemon, daemon.URL(), "not-a-real-action"); err == nil {
		t.Fatal("sendAction with unknown name succeeded, want error")
	}
}

func TestProbePIDOnOwnProcessReturnsTrue(t *testing.T) {
	if !probePID(os.Getpid()) {
		t.Error("probePID(own pid) = false, want true")
	}
}

func TestProbePIDOnImpossiblePIDReturnsFalse(t *testing.T) {
	if probePID(1 << 30) {
		t.Error("probePID(impossible pid) = true, want false")
	}
}
