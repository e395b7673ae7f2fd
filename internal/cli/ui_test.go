package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/canister/pkg/integrations/canister"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, ""},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{1289344, "1.2 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRepositoryLabel(t *testing.T) {
	tests := []struct {
		in   canister.PackageRepository
		want string
	}{
		{canister.PackageRepository{Name: "Chariz", Slug: "chariz"}, "Chariz"},
		{canister.PackageRepository{Slug: "chariz"}, "chariz"},
		{canister.PackageRepository{}, iconNone},
	}
	for _, tt := range tests {
		if got := repositoryLabel(tt.in); got != tt.want {
			t.Errorf("repositoryLabel(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrintRepositoryAliases(t *testing.T) {
	var buf bytes.Buffer
	printRepository(&buf, canister.Repository{Slug: "havoc", Name: "Havoc"})
	if strings.Contains(buf.String(), "Aliases") {
		t.Errorf("repository without aliases should not print an Aliases line:\n%s", buf.String())
	}

	buf.Reset()
	printRepository(&buf, canister.Repository{Slug: "chariz", Aliases: []string{"a", "b"}})
	if !strings.Contains(buf.String(), "a, b") {
		t.Errorf("aliases missing:\n%s", buf.String())
	}
}

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		status string
		icon   string
	}{
		{"Safe", iconSuccess},
		{"Unsafe", iconError},
		{"Unknown", iconWarning},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printStatus(&buf, canister.RepositoryStatus{URL: "https://repo.example.com/", Status: tt.status})
		if !strings.Contains(buf.String(), tt.icon) || !strings.Contains(buf.String(), tt.status) {
			t.Errorf("printStatus(%s) = %q", tt.status, buf.String())
		}
	}
}
