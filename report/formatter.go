// (c) Copyright 2016 Hewlett Packard Enterprise Development LP
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"io"

	"github.com/securego/gosonar"
	"github.com/securego/gosonar/report/csv"
	"github.com/securego/gosonar/report/html"
	"github.com/securego/gosonar/report/json"
	"github.com/securego/gosonar/report/junit"
	"github.com/securego/gosonar/report/sarif"
	"github.com/securego/gosonar/report/sonar"
	"github.com/securego/gosonar/report/table"
	"github.com/securego/gosonar/report/text"
	"github.com/securego/gosonar/report/yaml"
)

// Formats lists the accepted output formats
var Formats = []string{"text", "json", "yaml", "csv", "junit-xml", "html", "sonarqube", "sarif", "table"}

// CreateReport generates a report for the supplied SonarQube data given
// the specified format. The formats currently accepted are: json, yaml, csv,
// junit-xml, html, sonarqube, sarif, table and text. Unknown formats fall
// back to text.
func CreateReport(w io.Writer, format string, enableColor bool, data *gosonar.ReportInfo) error {
	var err error
	if data.Stats == nil {
		data.Stats = gosonar.NewMetrics(data.Issues)
	}
	switch format {
	case "json":
		err = json.WriteReport(w, data)
	case "yaml":
		err = yaml.WriteReport(w, data)
	case "csv":
		err = csv.WriteReport(w, data)
	case "junit-xml":
		err = junit.WriteReport(w, data)
	case "html":
		err = html.WriteReport(w, data)
	case "text":
		err = text.WriteReport(w, data, enableColor)
	case "sonarqube":
		err = sonar.WriteReport(w, data)
	case "sarif":
		err = sarif.WriteReport(w, data)
	case "table":
		err = table.WriteReport(w, data)
	default:
		err = text.WriteReport(w, data, enableColor)
	}
	return err
}
