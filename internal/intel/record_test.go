package intel

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMerge_Commutative(t *testing.T) {
	a := Record{
		BankAccounts: []string{"123456789012"},
		UPIIDs:       []string{"rahul@upi"},
	}
	b := Record{
		BankAccounts: []string{"999988887777"},
		UPIIDs:       []string{"rahul@upi", "merchant@paytm"},
		PhoneNumbers: []string{"+919876543210"},
	}

	ab := a.Merge(b)
	ba := b.Merge(a)

	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("merge not commutative:\n%+v\n%+v", ab, ba)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	a := Record{
		BankAccounts:       []string{"123456789012"},
		UPIIDs:             []string{"rahul@upi"},
		PhoneNumbers:       []string{"+919876543210"},
		PhishingLinks:      []string{"http://fake-bank.xyz"},
		SuspiciousKeywords: []string{"urgent"},
	}

	aa := a.Merge(a)
	want := NewRecord().Merge(a) // normalized form of a

	if !reflect.DeepEqual(aa, want) {
		t.Errorf("merge(a,a) != a:\n%+v\n%+v", aa, want)
	}
}

func TestMerge_Associative(t *testing.T) {
	a := Record{UPIIDs: []string{"a@upi"}}
	b := Record{UPIIDs: []string{"b@paytm"}, PhoneNumbers: []string{"+919876543210"}}
	c := Record{UPIIDs: []string{"a@upi", "c@ybl"}}

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))

	if !reflect.DeepEqual(left, right) {
		t.Errorf("merge not associative:\n%+v\n%+v", left, right)
	}
}

func TestMerge_Deduplicates(t *testing.T) {
	a := Record{UPIIDs: []string{"rahul@upi"}}
	b := Record{UPIIDs: []string{"rahul@upi"}}

	got := a.Merge(b)
	if len(got.UPIIDs) != 1 {
		t.Errorf("expected 1 upi id after merge, got %d", len(got.UPIIDs))
	}
}

func TestIsEmpty(t *testing.T) {
	if !NewRecord().IsEmpty() {
		t.Error("fresh record should be empty")
	}

	r := Record{SuspiciousKeywords: []string{"urgent"}}
	if r.IsEmpty() {
		t.Error("record with a keyword should not be empty")
	}
}

func TestRecordJSON_EmitsArraysNotNull(t *testing.T) {
	data, err := json.Marshal(NewRecord())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{
		"bankAccounts", "upiIds", "phoneNumbers", "phishingLinks",
		"suspiciousKeywords", "emailAddresses", "caseIds", "policyNumbers",
		"orderNumbers",
	} {
		v, ok := m[key]
		if !ok {
			t.Errorf("missing category %q", key)
			continue
		}
		if v == nil {
			t.Errorf("category %q serialized as null", key)
		}
	}
}
