package toast

import "testing"

func TestNotifierDisabled(t *testing.T) {
	if (Notifier{Enabled: false}).Permitted() {
		t.Error("disabled notifier must not be permitted")
	}
}

func TestNotifierFollowsAvailability(t *testing.T) {
	n := Notifier{Enabled: true}
	if n.Permitted() != Available() {
		t.Errorf("Permitted() = %v, Available() = %v", n.Permitted(), Available())
	}
}
