package intel

import "sort"

// Record is the deduplicated set of actionable artifacts found in a
// conversation. Category slices are kept sorted so merges are stable.
type Record struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	PhishingLinks      []string `json:"phishingLinks"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
	EmailAddresses     []string `json:"emailAddresses"`
	CaseIDs            []string `json:"caseIds"`
	PolicyNumbers      []string `json:"policyNumbers"`
	OrderNumbers       []string `json:"orderNumbers"`
}

// NewRecord returns a record with every category allocated, so JSON output
// is always an array per category rather than null.
func NewRecord() Record {
	return Record{
		BankAccounts:       []string{},
		UPIIDs:             []string{},
		PhoneNumbers:       []string{},
		PhishingLinks:      []string{},
		SuspiciousKeywords: []string{},
		EmailAddresses:     []string{},
		CaseIDs:            []string{},
		PolicyNumbers:      []string{},
		OrderNumbers:       []string{},
	}
}

// Merge returns the per-category set union of r and other. Union is
// commutative, associative, and idempotent, so accumulated intelligence only
// ever grows.
func (r Record) Merge(other Record) Record {
	return Record{
		BankAccounts:       union(r.BankAccounts, other.BankAccounts),
		UPIIDs:             union(r.UPIIDs, other.UPIIDs),
		PhoneNumbers:       union(r.PhoneNumbers, other.PhoneNumbers),
		PhishingLinks:      union(r.PhishingLinks, other.PhishingLinks),
		SuspiciousKeywords: union(r.SuspiciousKeywords, other.SuspiciousKeywords),
		EmailAddresses:     union(r.EmailAddresses, other.EmailAddresses),
		CaseIDs:            union(r.CaseIDs, other.CaseIDs),
		PolicyNumbers:      union(r.PolicyNumbers, other.PolicyNumbers),
		OrderNumbers:       union(r.OrderNumbers, other.OrderNumbers),
	}
}

// Clone returns a record sharing no slice storage with r. Empty categories
// stay allocated so the JSON shape is preserved.
func (r Record) Clone() Record {
	return Record{
		BankAccounts:       copyStrings(r.BankAccounts),
		UPIIDs:             copyStrings(r.UPIIDs),
		PhoneNumbers:       copyStrings(r.PhoneNumbers),
		PhishingLinks:      copyStrings(r.PhishingLinks),
		SuspiciousKeywords: copyStrings(r.SuspiciousKeywords),
		EmailAddresses:     copyStrings(r.EmailAddresses),
		CaseIDs:            copyStrings(r.CaseIDs),
		PolicyNumbers:      copyStrings(r.PolicyNumbers),
		OrderNumbers:       copyStrings(r.OrderNumbers),
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// IsEmpty reports whether every category is empty.
func (r Record) IsEmpty() bool {
	return len(r.BankAccounts) == 0 &&
		len(r.UPIIDs) == 0 &&
		len(r.PhoneNumbers) == 0 &&
		len(r.PhishingLinks) == 0 &&
		len(r.SuspiciousKeywords) == 0 &&
		len(r.EmailAddresses) == 0 &&
		len(r.CaseIDs) == 0 &&
		len(r.PolicyNumbers) == 0 &&
		len(r.OrderNumbers) == 0
}

// CategoryCounts maps category names to the number of artifacts held.
// Used for swarm signals and note generation.
func (r Record) CategoryCounts() map[string]int {
	return map[string]int{
		"bankAccounts":       len(r.BankAccounts),
		"upiIds":             len(r.UPIIDs),
		"phoneNumbers":       len(r.PhoneNumbers),
		"phishingLinks":      len(r.PhishingLinks),
		"suspiciousKeywords": len(r.SuspiciousKeywords),
		"emailAddresses":     len(r.EmailAddresses),
		"caseIds":            len(r.CaseIDs),
		"policyNumbers":      len(r.PolicyNumbers),
		"orderNumbers":       len(r.OrderNumbers),
	}
}

func union(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
