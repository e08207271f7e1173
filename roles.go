/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// assignRole adds c to s and decides its role: the first member to arrive
// hosts, everyone after watches. A client that already holds a role in s
// keeps it and is not added twice.
func assignRole(s *Session, c *Client) Role {
	if c.session == s && c.role != RoleNone {
		return c.role
	}

	role := RoleViewer
	if s.host == nil {
		s.host = c
		role = RoleHost
	}

	s.members = append(s.members, c)
	c.session = s
	c.role = role

	return role
}
