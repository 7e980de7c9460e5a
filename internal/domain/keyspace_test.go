package domain

import "testing"

func TestKeyspace(t *testing.T) {
	ks := Keyspace{Prefix: "ragdex:", Name: "cms1500-claims"}

	if got := ks.IndexName(); got != "ragdex:cms1500-claims:idx" {
		t.Errorf("IndexName() = %q", got)
	}
	if got := ks.DocKey("17"); got != "ragdex:cms1500-claims:17" {
		t.Errorf("DocKey() = %q", got)
	}
	if got := ks.DocID("ragdex:cms1500-claims:17"); got != "17" {
		t.Errorf("DocID() = %q", got)
	}
	if got := ks.DocID("other:17"); got != "other:17" {
		t.Errorf("DocID() on foreign key = %q", got)
	}
}
