package guard

import (
	"testing"

	"github.com/icisct/conference-system/pkg/session"
)

func snapshotWithRole(role string) session.Snapshot {
	return session.Snapshot{User: &session.User{ID: "user-1", Role: role}}
}

func TestEvaluate_UnknownWhileBootstrapping(t *testing.T) {
	// Even a present user must not short-circuit the bootstrap phase.
	snaps := []session.Snapshot{
		{Bootstrapping: true},
		{Bootstrapping: true, User: &session.User{ID: "user-1", Role: "ADMIN"}},
	}
	for _, snap := range snaps {
		d := Evaluate(snap, "ADMIN")
		if d.State != StateUnknown {
			t.Fatalf("expected unknown while bootstrapping, got %s", d.State)
		}
		if d.RedirectTo != "" {
			t.Fatalf("unknown state must not redirect, got %q", d.RedirectTo)
		}
	}
}

func TestEvaluate_UnauthorizedWithoutUser(t *testing.T) {
	cases := [][]string{nil, {"ADMIN"}, {"AUTHOR", "REVIEWER"}}
	for _, roles := range cases {
		d := Evaluate(session.Snapshot{}, roles...)
		if d.State != StateUnauthorized {
			t.Fatalf("roles %v: expected unauthorized, got %s", roles, d.State)
		}
		if d.RedirectTo != LoginPath {
			t.Fatalf("roles %v: expected redirect to %s, got %q", roles, LoginPath, d.RedirectTo)
		}
	}
}

func TestEvaluate_RoleGate(t *testing.T) {
	cases := []struct {
		role    string
		allowed []string
		want    State
	}{
		{"ADMIN", []string{"ADMIN"}, StateAuthorized},
		{"AUTHOR", []string{"ADMIN"}, StateForbidden},
		{"REVIEWER", []string{"ADMIN", "REVIEWER"}, StateAuthorized},
		{"AUTHOR", []string{"ADMIN", "REVIEWER"}, StateForbidden},
		{"INTRUDER", []string{"ADMIN"}, StateForbidden},
	}
	for _, tc := range cases {
		d := Evaluate(snapshotWithRole(tc.role), tc.allowed...)
		if d.State != tc.want {
			t.Fatalf("role %s vs %v: got %s, want %s", tc.role, tc.allowed, d.State, tc.want)
		}
		// Forbidden goes to the login view, same as unauthorized.
		if tc.want == StateForbidden && d.RedirectTo != LoginPath {
			t.Fatalf("role %s vs %v: expected redirect to %s, got %q", tc.role, tc.allowed, LoginPath, d.RedirectTo)
		}
	}
}

func TestEvaluate_EmptyAllowedAdmitsAnyAuthenticated(t *testing.T) {
	for _, role := range []string{"ADMIN", "AUTHOR", "REVIEWER", "SOMETHING_ELSE"} {
		d := Evaluate(snapshotWithRole(role))
		if d.State != StateAuthorized {
			t.Fatalf("role %s: expected authorized with empty allowed set, got %s", role, d.State)
		}
	}
}

func TestLandingPath_Totality(t *testing.T) {
	cases := map[string]string{
		"ADMIN":    "/admin/dashboard/papers",
		"AUTHOR":   "/author/dashboard/submit",
		"REVIEWER": "/reviewer/dashboard/papers",
	}
	for role, want := range cases {
		if got := LandingPath(role); got != want {
			t.Fatalf("LandingPath(%s) = %s, want %s", role, got, want)
		}
	}

	// Unknown roles must still land somewhere.
	for _, role := range []string{"", "SUPERUSER", "admin", "author "} {
		if got := LandingPath(role); got != "/" {
			t.Fatalf("LandingPath(%q) = %s, want /", role, got)
		}
	}
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		StateUnknown:      "unknown",
		StateUnauthorized: "unauthorized",
		StateForbidden:    "forbidden",
		StateAuthorized:   "authorized",
		State(99):         "invalid",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Fatalf("State(%d).String() = %s, want %s", s, s.String(), want)
		}
	}
}
