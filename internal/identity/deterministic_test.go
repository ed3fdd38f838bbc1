package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	if UUID("post:1") != UUID("post:1") {
		t.Fatal("expected identical keys to produce identical ids")
	}
	if UUID("  ") != uuid.Nil {
		t.Fatal("expected blank key to map to uuid.Nil")
	}
}

func TestEntryUUIDDistinguishesKeys(t *testing.T) {
	a := EntryUUID("post:1")
	b := EntryUUID("post:2")
	if a == uuid.Nil || b == uuid.Nil {
		t.Fatal("expected non-nil entry ids")
	}
	if a == b {
		t.Fatal("expected distinct keys to produce distinct ids")
	}
	if EntryUUID("post:1") != a {
		t.Fatal("expected entry ids to be stable")
	}
}

func TestFingerprint(t *testing.T) {
	if Fingerprint(nil) != "" {
		t.Fatal("expected empty payload to have no fingerprint")
	}
	first := Fingerprint([]byte(`{"posts":[]}`))
	if first == "" || first != Fingerprint([]byte(`{"posts":[]}`)) {
		t.Fatalf("expected stable fingerprint, got %q", first)
	}
	if first == Fingerprint([]byte(`{"posts":[1]}`)) {
		t.Fatal("expected payload changes to change the fingerprint")
	}
}

func TestRequestIDIsUnique(t *testing.T) {
	if RequestID() == RequestID() {
		t.Fatal("expected fresh request ids")
	}
}
