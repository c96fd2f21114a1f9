package hermes

import (
	"encoding/json"
	"testing"
)

func TestScamSignalParsing(t *testing.T) {
	raw := `{
		"session_ref": "sess-001",
		"agent_id": "lure",
		"scam_type": "upi_fraud",
		"confidence": 0.92,
		"persona_key": "elderly_hinglish",
		"message_count": 6
	}`

	var signal ScamSignal
	err := json.Unmarshal([]byte(raw), &signal)
	if err != nil {
		t.Fatalf("failed to parse ScamSignal: %v", err)
	}

	if signal.SessionRef != "sess-001" {
		t.Errorf("expected session_ref 'sess-001', got '%s'", signal.SessionRef)
	}
	if signal.AgentID != "lure" {
		t.Errorf("expected agent_id 'lure', got '%s'", signal.AgentID)
	}
	if signal.ScamType != "upi_fraud" {
		t.Errorf("expected scam_type 'upi_fraud', got '%s'", signal.ScamType)
	}
	if signal.Confidence != 0.92 {
		t.Errorf("expected confidence 0.92, got %v", signal.Confidence)
	}
	if signal.MessageCount != 6 {
		t.Errorf("expected message_count 6, got %d", signal.MessageCount)
	}
}

func TestScamSignalRoundTrip(t *testing.T) {
	signal := ScamSignal{
		SessionRef:   "sess-rt",
		AgentID:      "lure",
		ScamType:     "phishing",
		Confidence:   0.8,
		PersonaKey:   "worried_parent",
		MessageCount: 3,
	}

	data, err := json.Marshal(signal)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var parsed ScamSignal
	err = json.Unmarshal(data, &parsed)
	if err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if parsed != signal {
		t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, signal)
	}
}

func TestPurgeSignalRoundTrip(t *testing.T) {
	signal := PurgeSignal{
		SessionRef: "sess-burned",
		Reason:     "operator identified by peer agent",
	}

	data, err := json.Marshal(signal)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var parsed PurgeSignal
	err = json.Unmarshal(data, &parsed)
	if err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if parsed != signal {
		t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, signal)
	}
}

func TestSubjectConstants(t *testing.T) {
	if SubjectRegistered != "swarm.agent.lure.registered" {
		t.Errorf("unexpected SubjectRegistered '%s'", SubjectRegistered)
	}
	if SubjectScamDetected != "swarm.lure.scam.detected" {
		t.Errorf("unexpected SubjectScamDetected '%s'", SubjectScamDetected)
	}
	if SubjectPurge != "swarm.lure.session.purge" {
		t.Errorf("unexpected SubjectPurge '%s'", SubjectPurge)
	}
}
