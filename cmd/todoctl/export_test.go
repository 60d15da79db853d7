package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"todo/pkg/client"
)

var exportFixture = []client.Task{{ID: 1, Task: "buy milk"}, {ID: 3, Task: "call \"mom\", later"}}

func TestExportJSON(t *testing.T) {
	data, err := exportTasks(exportFixture, "json", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	var got []client.Task
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != exportFixture[1] {
		t.Errorf("json export = %+v", got)
	}
}

func TestExportCSV(t *testing.T) {
	data, err := exportTasks(exportFixture, "CSV", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	want := "id,task\n1,buy milk\n3,\"call \"\"mom\"\", later\"\n"
	if string(data) != want {
		t.Errorf("csv export = %q, want %q", data, want)
	}
}

func TestExportPDF(t *testing.T) {
	data, err := exportTasks(append(exportFixture, client.Task{ID: 4, Task: "café"}), "pdf", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("pdf export starts with %q", data[:8])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := exportTasks(nil, "xml", time.Now()); err == nil {
		t.Error("expected error for unknown format")
	}
}
