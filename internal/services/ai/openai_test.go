package ai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dayplanhq/dayplan/internal/models"
)

func TestParsePlanResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantErr   bool
		wantTasks int
		check     func(t *testing.T, plan *Plan)
	}{
		{
			name:      "valid json",
			content:   `{"tasks":[{"title":"Draft outline","priority":"high","category":"work","duration_minutes":30}],"insight":"Start small."}`,
			wantTasks: 1,
			check: func(t *testing.T, plan *Plan) {
				if plan.Tasks[0].Title != "Draft outline" {
					t.Errorf("title = %q, want %q", plan.Tasks[0].Title, "Draft outline")
				}
				if plan.Tasks[0].Priority != models.PriorityHigh {
					t.Errorf("priority = %q, want high", plan.Tasks[0].Priority)
				}
				if plan.Insight != "Start small." {
					t.Errorf("insight = %q", plan.Insight)
				}
			},
		},
		{
			name:      "json wrapped in prose",
			content:   "Here is your plan:\n```json\n{\"tasks\":[{\"title\":\"Go for a run\",\"priority\":\"medium\"}]}\n```\nGood luck!",
			wantTasks: 1,
		},
		{
			name:      "invalid priority normalized to medium",
			content:   `{"tasks":[{"title":"Read","priority":"urgent"}]}`,
			wantTasks: 1,
			check: func(t *testing.T, plan *Plan) {
				if plan.Tasks[0].Priority != models.PriorityMedium {
					t.Errorf("priority = %q, want medium", plan.Tasks[0].Priority)
				}
			},
		},
		{
			name:      "negative duration zeroed",
			content:   `{"tasks":[{"title":"Stretch","priority":"low","duration_minutes":-5}]}`,
			wantTasks: 1,
			check: func(t *testing.T, plan *Plan) {
				if plan.Tasks[0].DurationMinutes != 0 {
					t.Errorf("duration = %d, want 0", plan.Tasks[0].DurationMinutes)
				}
			},
		},
		{
			name:    "empty task list rejected",
			content: `{"tasks":[],"insight":"Nothing to do."}`,
			wantErr: true,
		},
		{
			name:    "not json at all",
			content: "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "empty content",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan, err := parsePlanResponse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePlanResponse() error = %v", err)
			}
			if len(plan.Tasks) != tt.wantTasks {
				t.Fatalf("got %d tasks, want %d", len(plan.Tasks), tt.wantTasks)
			}
			if tt.check != nil {
				tt.check(t, plan)
			}
		})
	}
}

func TestParsePlanResponseCapsTasks(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`{"tasks":[`)
	for i := 0; i < MaxSuggestedTasks+5; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"title":"task %d","priority":"low"}`, i)
	}
	b.WriteString(`]}`)

	plan, err := parsePlanResponse(b.String())
	if err != nil {
		t.Fatalf("parsePlanResponse() error = %v", err)
	}
	if len(plan.Tasks) != MaxSuggestedTasks {
		t.Errorf("got %d tasks, want cap of %d", len(plan.Tasks), MaxSuggestedTasks)
	}
}

func TestSanitizePrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		fullLog bool
		want    string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "strips control characters",
			input: "plan my\x00 week\x1b[31m",
			want:  "plan my week[31m",
		},
		{
			name:  "preview truncated",
			input: strings.Repeat("a", MaxPreviewLength+50),
			want:  strings.Repeat("a", MaxPreviewLength) + "...",
		},
		{
			name:    "full log keeps long content",
			input:   strings.Repeat("b", MaxPreviewLength+50),
			fullLog: true,
			want:    strings.Repeat("b", MaxPreviewLength+50),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizePrompt(tt.input, tt.fullLog); got != tt.want {
				t.Errorf("SanitizePrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeAPIKey(t *testing.T) {
	t.Parallel()

	if got := SanitizeAPIKey(""); got != "" {
		t.Errorf("empty key: got %q", got)
	}
	if got := SanitizeAPIKey("short"); got != RedactedValue {
		t.Errorf("short key: got %q", got)
	}
	got := SanitizeAPIKey("sk-1234567890abcdef")
	if !strings.HasPrefix(got, "sk-1") || !strings.HasSuffix(got, "cdef") || !strings.Contains(got, RedactedValue) {
		t.Errorf("long key: got %q", got)
	}
}
