package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/store"
)

func resultInfos(now time.Time) []store.ResultInfo {
	return []store.ResultInfo{
		{ID: "exp1", CreatedAt: now.AddDate(0, 0, -10)}, // 10 days old
		{ID: "exp2", CreatedAt: now.AddDate(0, 0, -5)},  // 5 days old
		{ID: "exp3", CreatedAt: now.AddDate(0, 0, -1)},  // 1 day old
		{ID: "exp4", CreatedAt: now.AddDate(0, 0, -30)}, // 30 days old
	}
}

func infoIDs(infos []store.ResultInfo) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.ID
	}
	return out
}

func TestSelectResultsForDeletion_ByAge(t *testing.T) {
	now := time.Now()
	toDelete := selectResultsForDeletion(resultInfos(now), 0, 7, now)

	got := strings.Join(infoIDs(toDelete), ",")
	if got != "exp4,exp1" {
		t.Errorf("Expected exp4,exp1 (oldest first), got %s", got)
	}
}

func TestSelectResultsForDeletion_ByCount(t *testing.T) {
	now := time.Now()
	toDelete := selectResultsForDeletion(resultInfos(now), 2, 0, now)

	got := strings.Join(infoIDs(toDelete), ",")
	if got != "exp4,exp1" {
		t.Errorf("Expected the two oldest results, got %s", got)
	}
}

func TestSelectResultsForDeletion_Combined(t *testing.T) {
	now := time.Now()

	// Keep the newest 3 but drop anything older than 7 days.
	toDelete := selectResultsForDeletion(resultInfos(now), 3, 7, now)

	got := strings.Join(infoIDs(toDelete), ",")
	if got != "exp4,exp1" {
		t.Errorf("Expected exp4,exp1, got %s", got)
	}
}

func TestSelectResultsForDeletion_NothingToDelete(t *testing.T) {
	now := time.Now()

	if got := selectResultsForDeletion(resultInfos(now), 10, 0, now); len(got) != 0 {
		t.Errorf("Expected nothing to delete, got %v", infoIDs(got))
	}
	if got := selectResultsForDeletion(nil, 1, 1, now); len(got) != 0 {
		t.Errorf("Expected nothing to delete from an empty store, got %v", infoIDs(got))
	}
}

func TestSelectResultsForDeletion_KeepsInput(t *testing.T) {
	now := time.Now()
	infos := resultInfos(now)
	selectResultsForDeletion(infos, 1, 0, now)

	if infos[0].ID != "exp1" {
		t.Error("Input slice should not be reordered")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"yes\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(tt.input), &out, "Proceed? "); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if out.String() != "Proceed? " {
			t.Errorf("Prompt not written: %q", out.String())
		}
	}
}

func TestPrintResults(t *testing.T) {
	infos := []store.ResultInfo{{
		ID:          "0123456789abcdef",
		Name:        "smoke",
		Family:      "bbob",
		CreatedAt:   time.Now().Add(-time.Hour),
		Problems:    3,
		Runs:        15,
		Evaluations: 15000,
		EAHVolume:   0.25,
		Size:        2048,
	}}

	var buf bytes.Buffer
	printResults(&buf, infos)
	out := buf.String()

	for _, want := range []string{"0123456789ab...", "smoke", "1 hour ago", "15,000", "0.2500", "2.0 kB", "Total results: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}
