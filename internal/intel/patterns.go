package intel

import (
	"regexp"
	"sort"
	"strings"
)

// Digit runs of 9-18 are candidate account numbers; the retention band is
// applied afterwards in extractAccounts.
var accountPattern = regexp.MustCompile(`\b\d{9,18}\b`)

// Account numbers outside this band are discarded. Most domestic account
// numbers are 11-16 digits; shorter runs are usually OTPs or amounts.
const (
	accountMinDigits = 11
	accountMaxDigits = 16
)

// Payment handles are local-part @ one of the known UPI suffixes.
var upiPattern = regexp.MustCompile(`(?i)\b[a-z0-9._-]+@(?:upi|paytm|gpay|phonepe|ybl|apl|axl|ibl|okaxis|oksbi|okhdfcbank|okicici|sbi|icici|hdfc|axis|kotak|rbl|federal|indus|idbi|pnb|bob|canara|union|ubi|cub|kvb|tmb|iob|dcb|jkb|bandhan|freecharge|mobikwik|jio|airtel)\b`)

// Phone numbers: optional +91/91/0 prefix, ten digits starting 6-9, at most
// one space or hyphen separator. Normalised to +91XXXXXXXXXX in code.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+91[\s-]?[6-9]\d{4}[\s-]?\d{5}\b`),
	regexp.MustCompile(`\b91[\s-][6-9]\d{4}[\s-]?\d{5}\b`),
	regexp.MustCompile(`\b0[6-9]\d{9}\b`),
	regexp.MustCompile(`\b[6-9]\d{4}[\s-]?\d{5}\b`),
}

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s<>"']+|\bwww\.[^\s<>"']+|\b[a-z0-9-]+\.(?:com|in|org|net|xyz|tk|ml|ga|cf|gq|top|buzz|click|link|info)(?:/[^\s<>"']*)?`)

var emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)

// Reference identifiers: a prefix keyword, an optional filler word, then a
// short alphanumeric code. The keyword routes the code into the case, policy
// or order category.
var refPattern = regexp.MustCompile(`(?i)\b(case|complaint|fir|crn|ref|policy|lic|order|awb|txn)(?:\s*(?:no|number|id))?[\s.:#-]*([a-z]{0,4}-?\d{4,14})\b`)

// DefaultSafeDomains are excluded from the phishing-link category. These show
// up in benign references far more often than in actual phishing payloads.
var DefaultSafeDomains = []string{
	"google.com",
	"microsoft.com",
	"apple.com",
}

// scamKeywords is the fixed indicator vocabulary. Presence only, substring
// match, case-insensitive.
var scamKeywords = []string{
	// urgency
	"urgent", "immediately", "act now", "limited time", "expire", "last chance",
	// account threats
	"block", "suspend", "freeze", "deactivate", "warning", "alert",
	// credentials and financial action
	"verify", "otp", "cvv", "pin", "password", "aadhar", "pan", "kyc",
	"transfer", "payment", "refund", "cashback", "upi", "bank", "account",
	// reward bait
	"lottery", "prize", "winner", "won", "reward", "bonus", "claim",
	// fear and authority impersonation
	"arrest", "police", "legal", "court", "warrant", "penalty", "fine",
	"rbi", "income tax", "customs", "cbi", "gst",
	// delivery vectors
	"click", "download", "install", "link",
}

func extractAccounts(text string) []string {
	set := map[string]struct{}{}
	for _, m := range accountPattern.FindAllString(text, -1) {
		if len(m) >= accountMinDigits && len(m) <= accountMaxDigits {
			set[m] = struct{}{}
		}
	}
	return sorted(set)
}

func extractUPIIDs(text string) []string {
	set := map[string]struct{}{}
	for _, m := range upiPattern.FindAllString(text, -1) {
		set[strings.ToLower(m)] = struct{}{}
	}
	return sorted(set)
}

func extractPhones(text string) []string {
	set := map[string]struct{}{}
	for _, pat := range phonePatterns {
		for _, m := range pat.FindAllString(text, -1) {
			if n, ok := normalizePhone(m); ok {
				set[n] = struct{}{}
			}
		}
	}
	return sorted(set)
}

// normalizePhone strips separators and returns the canonical +91 form.
func normalizePhone(raw string) (string, bool) {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '+' {
			return -1
		}
		return r
	}, raw)

	switch {
	case len(clean) == 10:
		clean = "91" + clean
	case len(clean) == 11 && clean[0] == '0':
		clean = "91" + clean[1:]
	case len(clean) == 12 && strings.HasPrefix(clean, "91"):
		// already prefixed
	default:
		return "", false
	}

	if clean[2] < '6' || clean[2] > '9' {
		return "", false
	}
	return "+" + clean, true
}

func extractLinks(text string, safeDomains []string) []string {
	set := map[string]struct{}{}
	for _, m := range urlPattern.FindAllString(text, -1) {
		link := strings.ToLower(strings.TrimRight(m, ".,;)"))
		if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
			link = "http://" + link
		}
		if isSafeDomain(link, safeDomains) {
			continue
		}
		set[link] = struct{}{}
	}
	return sorted(set)
}

// isSafeDomain matches on the link's host only, either exactly or as a
// registered-domain suffix. A denylisted domain embedded elsewhere in the
// URL (host prefix tricks like google.com.kyc-verify.xyz, or paths) does
// not count.
func isSafeDomain(link string, safeDomains []string) bool {
	host := link
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")

	for _, d := range safeDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func extractKeywords(text string) []string {
	lower := strings.ToLower(text)
	set := map[string]struct{}{}
	for _, kw := range scamKeywords {
		if strings.Contains(lower, kw) {
			set[kw] = struct{}{}
		}
	}
	return sorted(set)
}

func extractEmails(text string) []string {
	set := map[string]struct{}{}
	for _, m := range emailPattern.FindAllString(text, -1) {
		set[strings.ToLower(m)] = struct{}{}
	}
	return sorted(set)
}

// extractRefs pulls keyword-prefixed identifiers and routes them by prefix.
func extractRefs(text string) (caseIDs, policyNumbers, orderNumbers []string) {
	cases := map[string]struct{}{}
	policies := map[string]struct{}{}
	orders := map[string]struct{}{}

	for _, m := range refPattern.FindAllStringSubmatch(text, -1) {
		prefix := strings.ToLower(m[1])
		code := strings.ToUpper(m[2])
		switch prefix {
		case "case", "complaint", "fir", "crn", "ref":
			cases[code] = struct{}{}
		case "policy", "lic":
			policies[code] = struct{}{}
		case "order", "awb", "txn":
			orders[code] = struct{}{}
		}
	}
	return sorted(cases), sorted(policies), sorted(orders)
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, s)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, strings.ToUpper(v))
		}
	}
	return out
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
