//go:build windows

package toast

import (
	"fmt"
	"os/exec"
	"strings"
)

const command = "powershell"

// escapeXML replaces XML-special characters so user content can be
// safely embedded inside XML text elements.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// escapePowerShell doubles single quotes for safe embedding inside
// PowerShell single-quoted strings.
func escapePowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// showScript returns the PowerShell script for displaying a Windows 10+
// toast notification using the ToastNotificationManager XML API. The
// reminder scenario keeps the toast on screen until dismissed.
func showScript(title, message string) string {
	t := escapePowerShell(escapeXML(title))
	m := escapePowerShell(escapeXML(message))

	return fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom, ContentType = WindowsRuntime] | Out-Null

$xml = New-Object Windows.Data.Xml.Dom.XmlDocument
$xml.LoadXml('<toast scenario="reminder"><visual><binding template="ToastGeneric"><text>%s</text><text>%s</text><text placement="attribution">via medtime</text></binding></visual><actions><action content="Dismiss" arguments="dismiss" activationType="system"/></actions></toast>')
$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}\WindowsPowerShell\v1.0\powershell.exe').Show($toast)
`, t, m)
}

// Show displays a Windows toast notification.
func Show(title, message string) error {
	cmd := exec.Command(command, "-NoProfile", "-Command", showScript(title, message))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("toast failed: %w\n%s", err, out)
	}
	return nil
}
