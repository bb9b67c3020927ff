package cmd

import (
	"strings"
	"testing"
)

func TestFormatFlag(t *testing.T) {
	tests := []struct {
		name     string
		contains []string
		absent   string
	}{
		{"threads", []string{"-t, --threads int", "(default 5)"}, ""},
		{"timeout", []string{"--timeout duration", "(default 10s)"}, ""},
		{"yes", []string{"-y, --yes"}, "(default"},
		{"proxy", []string{"    --proxy string"}, "(default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rootCmd.Flags().Lookup(tt.name)
			if f == nil {
				t.Fatalf("flag %q not registered", tt.name)
			}
			got := formatFlag(f)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatFlag(%s) = %q, missing %q", tt.name, got, want)
				}
			}
			if tt.absent != "" && strings.Contains(got, tt.absent) {
				t.Errorf("formatFlag(%s) = %q, unexpected %q", tt.name, got, tt.absent)
			}
		})
	}
}

func TestHelpGroupsReferenceRealFlags(t *testing.T) {
	for _, g := range helpGroups {
		for _, name := range g.flags {
			if rootCmd.Flags().Lookup(name) == nil {
				t.Errorf("help group %s lists unknown flag %q", g.title, name)
			}
		}
	}
}

func TestHelpBannerVersion(t *testing.T) {
	if !strings.Contains(helpBanner("1.2.0"), "v1.2.0") {
		t.Error("expected v-prefixed version")
	}
	if !strings.Contains(helpBanner("dev"), "dev") {
		t.Error("expected dev version")
	}
}
