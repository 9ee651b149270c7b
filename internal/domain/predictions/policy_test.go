package predictions

import (
	"testing"

	"plant-disease-history/internal/ports/auth"
)

func TestPolicy_OwnerOrAdmin(t *testing.T) {
	rec := Record{ID: "r1", Owner: "alice"}

	cases := []struct {
		name   string
		caller Caller
		want   bool
	}{
		{"owner user", Caller{Username: "alice", Role: auth.RoleUser}, true},
		{"owner admin", Caller{Username: "alice", Role: auth.RoleAdmin}, true},
		{"other user", Caller{Username: "bob", Role: auth.RoleUser}, false},
		{"other admin", Caller{Username: "root", Role: auth.RoleAdmin}, true},
		{"anonymous", Caller{}, false},
		{"unknown role parses to user", Caller{Username: "bob", Role: auth.ParseRole("superuser")}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanView(tc.caller, rec); got != tc.want {
				t.Fatalf("CanView = %v, want %v", got, tc.want)
			}
			if got := CanSubmitFeedback(tc.caller, rec); got != tc.want {
				t.Fatalf("CanSubmitFeedback = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPolicy_EmptyOwnerNeverMatchesAnonymous(t *testing.T) {
	if CanView(Caller{}, Record{Owner: ""}) {
		t.Fatalf("anonymous caller must not match a record without owner")
	}
}
