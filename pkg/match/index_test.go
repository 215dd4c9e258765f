package match

import (
	"reflect"
	"testing"
)

func TestBuildIndexClientKeys(t *testing.T) {
	records := []Record{
		{ID: "1", FirstName: "John", LastName: "Doe", Organization: "Acme Corp"},
	}
	idx := BuildIndex(KindClient, records)

	for _, key := range []string{"john doe", "acme corp", "john doe - acme corp"} {
		if rec := idx.ByName(key); rec == nil || rec.ID != "1" {
			t.Fatalf("key %q not indexed", key)
		}
	}
	if !reflect.DeepEqual(idx.keys, []string{"john doe", "acme corp", "john doe - acme corp"}) {
		t.Fatalf("unexpected key order: %v", idx.keys)
	}
	if idx.ByID("1") == nil {
		t.Fatal("byID lookup failed")
	}
}

func TestBuildIndexServiceKeys(t *testing.T) {
	records := []Record{
		{ID: "10", Name: "Development"},
		{ID: "11", Name: "  Design  "},
	}
	idx := BuildIndex(KindService, records)

	if rec := idx.ByName("development"); rec == nil || rec.ID != "10" {
		t.Fatal("service name not indexed")
	}
	if rec := idx.ByName("design"); rec == nil || rec.ID != "11" {
		t.Fatal("service key not trimmed/lowered")
	}
}

func TestBuildIndexCollisionLastWriteWins(t *testing.T) {
	records := []Record{
		{ID: "1", FirstName: "Ann", LastName: "Lee", Organization: "Shared Org"},
		{ID: "2", FirstName: "Bob", LastName: "Ray", Organization: "Shared Org"},
	}
	idx := BuildIndex(KindClient, records)

	if rec := idx.ByName("shared org"); rec == nil || rec.ID != "2" {
		t.Fatalf("expected later record to shadow earlier one, got %+v", rec)
	}
	// both stay reachable by ID
	if idx.ByID("1") == nil || idx.ByID("2") == nil {
		t.Fatal("collision must not drop records from byID")
	}
	// the colliding key is not duplicated in the scan order
	count := 0
	for _, k := range idx.keys {
		if k == "shared org" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("key recorded %d times in scan order", count)
	}
}

func TestBuildIndexNamelessRecord(t *testing.T) {
	records := []Record{{ID: "7"}}
	idx := BuildIndex(KindClient, records)

	if idx.ByID("7") == nil {
		t.Fatal("record without display strings must stay in byID")
	}
	if len(idx.keys) != 0 {
		t.Fatalf("record without display strings contributed keys: %v", idx.keys)
	}
}
