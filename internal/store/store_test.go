package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuispeak.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestPutAndGetPhonemes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	want := []string{"ʃiː", "sɛlz", "ˈsiːʃɛlz"}
	if err := st.PutPhonemes(ctx, "She sells seashells", want); err != nil {
		t.Fatalf("put phonemes: %v", err)
	}
	got, err := st.GetPhonemes(ctx, "She sells seashells")
	if err != nil {
		t.Fatalf("get phonemes: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d phonemes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPutPhonemesReplacesList(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.PutPhonemes(ctx, "a b", []string{"x", "y", "z"}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := st.PutPhonemes(ctx, "a b", []string{"q"}); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, err := st.GetPhonemes(ctx, "a b")
	if err != nil {
		t.Fatalf("get phonemes: %v", err)
	}
	if len(got) != 1 || got[0] != "q" {
		t.Fatalf("expected replaced list, got %v", got)
	}
	entries, err := st.ListTexts(ctx)
	if err != nil {
		t.Fatalf("list texts: %v", err)
	}
	if len(entries) != 1 || entries[0].PhonemeCount != 1 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestPutPhonemesRejectsEmpty(t *testing.T) {
	st := openTestStore(t)
	if err := st.PutPhonemes(context.Background(), "a", nil); err == nil {
		t.Fatalf("expected error for empty phoneme list")
	}
	if err := st.PutPhonemes(context.Background(), "", []string{"x"}); err == nil {
		t.Fatalf("expected error for empty text")
	}
}

func TestGetPhonemesNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.GetPhonemes(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteText(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.PutPhonemes(ctx, "gone", []string{"g"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.DeleteText(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetPhonemes(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeleteText(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}
