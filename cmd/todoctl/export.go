package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"todo/pkg/client"

	"github.com/jung-kurt/gofpdf"
)

// exportTasks 按格式导出任务列表：json / csv / pdf
func exportTasks(tasks []client.Task, format string, now time.Time) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil

	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"id", "task"})
		for _, t := range tasks {
			_ = w.Write([]string{strconv.FormatInt(t.ID, 10), t.Task})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case "pdf":
		pdf := gofpdf.New("P", "mm", "A4", "")
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		pdf.SetTitle("Tasks", true)
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "Tasks")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		pdf.Cell(0, 6, fmt.Sprintf("%d task(s), exported %s", len(tasks), now.Format(time.RFC3339)))
		pdf.Ln(10)

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(20, 7, "ID", "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, "Task", "1", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, t := range tasks {
			pdf.CellFormat(20, 7, strconv.FormatInt(t.ID, 10), "1", 0, "L", false, 0, "")
			pdf.MultiCell(0, 7, tr(t.Task), "1", "L", false)
		}

		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("unknown export format %q", format)
}
