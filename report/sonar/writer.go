package sonar

import (
	"encoding/json"
	"io"

	"github.com/securego/gosonar"
)

// WriteReport write a report in sonar format to the output writer
func WriteReport(w io.Writer, data *gosonar.ReportInfo) error {
	si, err := GenerateReport(data)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(si, "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
