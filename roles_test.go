/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "testing"

func TestAssignRole(t *testing.T) {
	s := newSession("rps-1", SessionKey{"rps", "1"}, rpsGame())

	host := newClient(nil, nil, 1)
	viewers := []*Client{newClient(nil, nil, 1), newClient(nil, nil, 1)}

	if role := assignRole(s, host); role != RoleHost {
		t.Errorf("Expected first member to host, got %q", role)
	}
	for _, v := range viewers {
		if role := assignRole(s, v); role != RoleViewer {
			t.Errorf("Expected later member to view, got %q", role)
		}
	}

	if s.Host() != host {
		t.Error("Expected session host to be the first member")
	}
	if len(s.Members()) != 3 {
		t.Errorf("Expected 3 members, got %d", len(s.Members()))
	}

	if role := assignRole(s, viewers[0]); role != RoleViewer {
		t.Errorf("Expected repeat assignment to keep role, got %q", role)
	}
	if len(s.Members()) != 3 {
		t.Errorf("Expected repeat assignment not to add a member, got %d", len(s.Members()))
	}

	for _, c := range append([]*Client{host}, viewers...) {
		if c.session != s {
			t.Errorf("Expected %s to point at its session", c.id)
		}
	}
}
