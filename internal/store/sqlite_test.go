package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ashpool37/pytutor-server/internal/domain"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "pytutor.db"))
	if err != nil {
		t.Fatalf("NewSQLite returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return s
}

func TestSQLiteStore_LoadUserCreatesDefault(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first, err := s.LoadUser(ctx, "newbie")
	if err != nil {
		t.Fatalf("LoadUser returned error: %v", err)
	}
	second, err := s.LoadUser(ctx, "newbie")
	if err != nil {
		t.Fatalf("Second LoadUser returned error: %v", err)
	}

	if first.LastActiveModuleID != "intro" || first.LastActiveTopicID != "syntax" {
		t.Errorf("Expected default pointers intro/syntax, got %s/%s",
			first.LastActiveModuleID, first.LastActiveTopicID)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected two loads with no intervening save to be equal:\n%+v\n%+v", first, second)
	}
}

func TestSQLiteStore_SaveReplacesSnapshot(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	history := []domain.ChatMessage{domain.NewMessage(domain.RoleUser, "hi")}
	for _, code := range []string{"a", "b"} {
		err := s.SaveProgress(ctx, SaveRequest{
			Username:       "alice",
			ActiveModuleID: "intro",
			ActiveTopicID:  "syntax",
			Progress:       domain.NewProgress("syntax", code, history),
		})
		if err != nil {
			t.Fatalf("SaveProgress(%q) returned error: %v", code, err)
		}
	}

	rec, err := s.LoadUser(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadUser returned error: %v", err)
	}
	if len(rec.Progress) != 1 {
		t.Fatalf("Expected exactly one snapshot, got %d", len(rec.Progress))
	}
	p := rec.Progress["syntax"]
	if p.Code != "b" {
		t.Errorf("Expected last write to win with code b, got %q", p.Code)
	}
	if len(p.ChatHistory) != 1 || p.ChatHistory[0].Text != "hi" {
		t.Errorf("Expected chat history to round-trip, got %+v", p.ChatHistory)
	}
}

func TestSQLiteStore_SavePairsPointerAndSnapshot(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	err := s.SaveProgress(ctx, SaveRequest{
		Username:       "alice",
		ActiveModuleID: "intro",
		ActiveTopicID:  "loops",
		Progress:       domain.NewProgress("syntax", "x = 1", nil),
	})
	if err != nil {
		t.Fatalf("SaveProgress returned error: %v", err)
	}

	rec, err := s.LoadUser(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadUser returned error: %v", err)
	}
	if rec.LastActiveModuleID != "intro" || rec.LastActiveTopicID != "loops" {
		t.Errorf("Expected pointers intro/loops, got %s/%s",
			rec.LastActiveModuleID, rec.LastActiveTopicID)
	}
	if _, ok := rec.Progress["syntax"]; !ok {
		t.Error("Expected snapshot stored under the outgoing topic id")
	}
}

func TestSQLiteStore_CorruptChatHistoryDegradesToEmpty(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	err := s.SaveProgress(ctx, SaveRequest{
		Username:       "alice",
		ActiveModuleID: "intro",
		ActiveTopicID:  "syntax",
		Progress: domain.NewProgress("syntax", "print(1)",
			[]domain.ChatMessage{domain.NewMessage(domain.RoleModel, "hello")}),
	})
	if err != nil {
		t.Fatalf("SaveProgress returned error: %v", err)
	}

	if _, err := s.db.Exec(
		`UPDATE topic_progress SET chat_history = '{broken' WHERE username = ? AND topic_id = ?`,
		"alice", "syntax",
	); err != nil {
		t.Fatalf("Failed to corrupt row: %v", err)
	}

	rec, err := s.LoadUser(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadUser should tolerate a corrupt row, got error: %v", err)
	}
	p, ok := rec.Progress["syntax"]
	if !ok {
		t.Fatal("Expected the corrupted row to still be returned")
	}
	if len(p.ChatHistory) != 0 {
		t.Errorf("Expected empty chat history after corruption, got %+v", p.ChatHistory)
	}
	if p.Code != "print(1)" {
		t.Errorf("Expected code to survive, got %q", p.Code)
	}
}
