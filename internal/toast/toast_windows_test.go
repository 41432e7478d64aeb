//go:build windows

package toast

import (
	"strings"
	"testing"
)

func TestShowScriptContainsTitle(t *testing.T) {
	s := showScript("Time for your dose!", "Take Aspirin - 100mg")
	if !strings.Contains(s, "Time for your dose!") {
		t.Errorf("script should contain title:\n%s", s)
	}
}

func TestShowScriptContainsMessage(t *testing.T) {
	s := showScript("Alert", "Take Aspirin - 100mg")
	if !strings.Contains(s, "Take Aspirin - 100mg") {
		t.Errorf("script should contain message:\n%s", s)
	}
}

func TestShowScriptEscapesQuotes(t *testing.T) {
	s := showScript("it's time", "done")
	if !strings.Contains(s, "it&apos;s time") {
		t.Errorf("script should XML-escape title quotes:\n%s", s)
	}
}

func TestShowScriptEscapesXML(t *testing.T) {
	s := showScript("T", "<b>& more</b>")
	if !strings.Contains(s, "&lt;b&gt;&amp; more&lt;/b&gt;") {
		t.Errorf("script should escape XML:\n%s", s)
	}
}

func TestShowScriptUsesReminderScenario(t *testing.T) {
	s := showScript("T", "M")
	if !strings.Contains(s, `scenario="reminder"`) {
		t.Error("script should use the reminder scenario")
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`a"b`, "a&quot;b"},
		{"a'b", "a&apos;b"},
		{"a&b", "a&amp;b"},
	}
	for _, tt := range tests {
		if got := escapeXML(tt.in); got != tt.want {
			t.Errorf("escapeXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapePowerShell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"it's done", "it''s done"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := escapePowerShell(tt.in); got != tt.want {
			t.Errorf("escapePowerShell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
