package yaml

import (
	"io"

	"github.com/securego/gosonar"
	"gopkg.in/yaml.v3"
)

// WriteReport write a report in yaml format to the output writer
func WriteReport(w io.Writer, data *gosonar.ReportInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
