package quality

import (
	"testing"
)

func TestExtractDetails(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantClass DetailClass
		wantToken string
	}{
		{"срок в часах", "Notify the supervisory authority within 72 hours of becoming aware.", DetailTimeframes, "72 hours"},
		{"срок в днях", "Review access rights every 30 days.", DetailTimeframes, "30 days"},
		{"периодичность", "Conduct penetration tests annually.", DetailTimeframes, "annually"},
		{"именованный орган", "Notify the supervisory authority without undue delay.", DetailAuthorities, "supervisory authority"},
		{"регулятор по аббревиатуре", "Follow NIST guidance where applicable.", DetailAuthorities, "NIST"},
		{"идентификатор ISO", "Align the ISMS with ISO/IEC 27001 requirements.", DetailStandardIDs, "ISO/IEC 27001"},
		{"идентификатор NIST SP", "Controls are drawn from NIST SP 800-53.", DetailStandardIDs, "NIST SP 800-53"},
		{"статья GDPR", "Breach notification per GDPR Art. 33.", DetailStandardIDs, "GDPR Art. 33"},
		{"число с единицей", "Passwords shall be at least 12 characters.", DetailNumericValues, "12 characters"},
		{"процент", "Achieve 99.9 % availability for critical systems.", DetailNumericValues, "99.9 %"},
		{"перекрестная ссылка", "Apply the measures of clause 6.1.3 to all assets.", DetailCrossReferences, "clause 6.1.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := ExtractDetails(tt.text)
			tokens := details[tt.wantClass]
			found := false
			for _, token := range tokens {
				if token == tt.wantToken {
					found = true
				}
			}
			if !found {
				t.Errorf("ExtractDetails(%q)[%s] = %v, want token %q", tt.text, tt.wantClass, tokens, tt.wantToken)
			}
		})
	}
}

func TestExtractDetails_NoDetails(t *testing.T) {
	details := ExtractDetails("Establish and maintain a security policy.")
	for class, tokens := range details {
		if len(tokens) > 0 {
			t.Errorf("unexpected %s tokens: %v", class, tokens)
		}
	}
}

func TestExtractDetails_Deduplicates(t *testing.T) {
	details := ExtractDetails("Within 72 hours, and again within 72 hours of escalation.")
	if got := len(details[DetailTimeframes]); got != 1 {
		t.Errorf("timeframe tokens = %d, want 1 after dedup", got)
	}
}

func TestContainsVerbatim(t *testing.T) {
	text := "Notify the authority within 72 hours."
	if !ContainsVerbatim(text, "72 hours") {
		t.Error("verbatim token must be found")
	}
	if !ContainsVerbatim(text, "72 Hours") {
		t.Error("match must be case-insensitive")
	}
	if ContainsVerbatim(text, "72hours") {
		t.Error("whitespace differences must not match")
	}
}
