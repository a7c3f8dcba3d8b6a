package review

import (
	"fmt"
	"strings"
	"time"
)

const orderDateLayout = "Jan 2, 2006"

// OrderText renders the therapy settings order as plain text to be copied into other systems
func OrderText(patientName string, patientRows []PatientRow, settingsRows []SettingsRow, now time.Time) string {
	b := &strings.Builder{}
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(b, format, args...)
		b.WriteString("\n")
	}

	line("Tidepool Loop therapy settings order")
	line("Exported from Tidepool: %s", now.Format(orderDateLayout))
	line("")
	line("Patient Profile")
	line("Name: %s", patientName)
	for _, row := range patientRows {
		line("%s: %s", row.Label, row.Value)
	}

	for _, row := range settingsRows {
		line("")
		if len(row.Values) == 1 {
			line("%s: %s", row.Label, row.Values[0])
			continue
		}
		line("%s", row.Label)
		for _, value := range row.Values {
			line("%s", value)
		}
	}
	return b.String()
}
