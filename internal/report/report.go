package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"sigs.k8s.io/yaml"

	"github.com/hamed0406/serverchecker/internal/domain"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	headerFmt  = color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt  = color.New(color.FgYellow).SprintfFunc()
	onlineFmt  = color.New(color.FgGreen).SprintFunc()
	offlineFmt = color.New(color.FgRed).SprintFunc()
)

// Write renders rep to w in the given format.
func Write(w io.Writer, format string, rep domain.Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		b, err := yaml.Marshal(rep)
		if err != nil {
			return fmt.Errorf("report: yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatTable, "":
		return writeTable(w, rep)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

func writeTable(w io.Writer, rep domain.Report) error {
	tbl := table.New("Server", "Status", "Response Time", "Details").WithWriter(w)
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)
	for _, r := range rep.Results {
		status := onlineFmt(r.Status)
		if r.Status != domain.StatusOnline {
			status = offlineFmt(r.Status)
		}
		tbl.AddRow(r.Server, status, r.ResponseTime, r.Details)
	}
	tbl.Print()

	_, err := fmt.Fprintf(w, "\n%d online, %d offline on port %d (%.0f ms)\n",
		rep.Online, rep.Offline, rep.Port, rep.ElapsedMS)
	return err
}
