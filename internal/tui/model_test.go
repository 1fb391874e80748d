package tui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"imagefinder/internal/domain"
	"imagefinder/internal/imagestore"
	"imagefinder/internal/service"
)

type stubFinder struct {
	match    domain.SearchMatch
	matchErr error
}

func (s *stubFinder) StoreImage(fileName string, data []byte) (string, error) {
	return "a caption", nil
}

func (s *stubFinder) FindImage(query string) (domain.SearchMatch, error) {
	if s.matchErr != nil {
		return domain.SearchMatch{}, s.matchErr
	}
	return s.match, nil
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	return mm.(Model), cmd
}

func TestBusyGuardTransitions(t *testing.T) {
	m := New(&stubFinder{}, "images")
	m.selected = "/tmp/a.png"

	// idle -> busy on save
	saveKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}
	m, cmd := update(t, m, saveKey)
	if !m.busy {
		t.Fatal("expected busy after save")
	}
	if cmd == nil {
		t.Fatal("expected a store command")
	}

	// a second save while busy is ignored
	m, cmd = update(t, m, saveKey)
	if cmd != nil {
		t.Error("expected save to be ignored while busy")
	}

	// busy -> idle on success, selection cleared
	m, _ = update(t, m, storeResultMsg{caption: "a caption"})
	if m.busy {
		t.Error("expected idle after success")
	}
	if m.selected != "" {
		t.Error("expected selection cleared after success")
	}
}

func TestBusyGuardResetsOnFailure(t *testing.T) {
	m := New(&stubFinder{}, "images")
	m.busy = true

	// The guard must reset on failure too, or the session stays stuck.
	m, _ = update(t, m, storeResultMsg{err: errors.New("boom")})
	if m.busy {
		t.Error("expected idle after failure")
	}

	m.busy = true
	m, _ = update(t, m, storeResultMsg{err: fmt.Errorf("a.png: %w", imagestore.ErrAlreadyExists)})
	if m.busy {
		t.Error("expected idle after filename conflict")
	}
	if m.status == "" {
		t.Error("expected conflict surfaced in status")
	}
}

func TestTabSwitching(t *testing.T) {
	m := New(&stubFinder{}, "images")
	if m.active != tabStore {
		t.Fatal("expected store tab initially")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.active != tabSearch {
		t.Error("expected search tab after tab key")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.active != tabStore {
		t.Error("expected store tab after second tab key")
	}
}

func TestSearchShowsMatch(t *testing.T) {
	m := New(&stubFinder{match: domain.SearchMatch{FileName: "a.png", Score: 0.9}}, "images")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m.search.SetValue("bicycle")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.result == "" {
		t.Fatal("expected a rendered result")
	}
}

func TestSearchNoMatch(t *testing.T) {
	m := New(&stubFinder{matchErr: service.ErrNoMatch}, "images")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m.search.SetValue("cat")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.result != "" {
		t.Error("expected no rendered result")
	}
	if m.status == "" {
		t.Error("expected no-match surfaced in status")
	}
}
