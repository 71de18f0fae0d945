package log

import (
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events := []LogEvent{
		{Event: EventLoginSucceeded, Username: "clerk", Role: "secretary"},
		{Event: EventQuerySubmitted, Query: "what was decided?", MaxWords: 300},
		{Event: EventUploadCompleted, Filename: "aug.pdf", MeetingID: 3},
	}
	for _, e := range events {
		if err := logger.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events: got %d, want 3", len(got))
	}
	if got[0].Event != EventLoginSucceeded || got[0].Username != "clerk" {
		t.Errorf("first event: got %+v", got[0])
	}
	if got[1].MaxWords != 300 {
		t.Errorf("second event max words: got %d", got[1].MaxWords)
	}
	if got[2].MeetingID != 3 {
		t.Errorf("third event meeting id: got %d", got[2].MeetingID)
	}
	for _, e := range got {
		if e.Time.IsZero() {
			t.Error("event time was not stamped")
		}
	}
}

func TestReadAllMissingFile(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events: got %d, want 0", len(events))
	}
}
