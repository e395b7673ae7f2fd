package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/canister/pkg/integrations/canister"
)

func testPackages(n int) []canister.Package {
	pkgs := make([]canister.Package, n)
	for i := range pkgs {
		id := "com.example.tweak" + string(rune('a'+i))
		pkgs[i] = canister.Package{Identifier: id, Name: id, Author: "Jane", Maintainer: "Jane"}
	}
	return pkgs
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) (PackagePickerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m.(PackagePickerModel), cmd
}

func TestPickerNavigation(t *testing.T) {
	m := NewPackagePickerModel("tweak", testPackages(3))

	got, _ := press(m, "down", "down", "down")
	if got.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped at last row)", got.Cursor)
	}

	got, _ = press(got, "up", "k", "k")
	if got.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 (clamped at first row)", got.Cursor)
	}

	got, _ = press(got, "j")
	if got.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1 after j", got.Cursor)
	}
}

func TestPickerSelect(t *testing.T) {
	m := NewPackagePickerModel("tweak", testPackages(3))

	got, cmd := press(m, "down", "enter")
	if got.Selected == nil || got.Selected.Identifier != "com.example.tweakb" {
		t.Fatalf("Selected = %+v, want second package", got.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the picker")
	}
}

func TestPickerQuitWithoutSelection(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		got, cmd := press(NewPackagePickerModel("tweak", testPackages(2)), k)
		if got.Selected != nil {
			t.Errorf("%s: Selected = %+v, want nil", k, got.Selected)
		}
		if cmd == nil {
			t.Errorf("%s should quit the picker", k)
		}
	}
}

func TestPickerScrolls(t *testing.T) {
	m := NewPackagePickerModel("tweak", testPackages(10))
	m.Height = 3

	got, _ := press(m, "down", "down", "down", "down")
	if got.Offset != 2 {
		t.Errorf("Offset = %d, want 2", got.Offset)
	}

	view := got.View()
	if !strings.Contains(view, "com.example.tweake") || strings.Contains(view, "com.example.tweaka") {
		t.Errorf("View() should show the scrolled window:\n%s", view)
	}
	if !strings.Contains(view, "[5/10]") {
		t.Errorf("View() should show position [5/10]:\n%s", view)
	}
}

func TestPickerWindowSize(t *testing.T) {
	m := NewPackagePickerModel("tweak", testPackages(3))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(PackagePickerModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}
