package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/elevate/internal/api"
)

func sampleTasks() []api.Task {
	now := time.Now().UTC()
	due := now.Add(24 * time.Hour)

	return []api.Task{
		{
			ID:          "t1",
			Title:       "Write report",
			Description: "quarterly numbers",
			IsCompleted: true,
			Category:    api.CategoryWork,
			DueDate:     &due,
			CreatedAt:   now.Add(-2 * time.Hour),
			UpdatedAt:   now,
		},
		{
			ID:        "t2",
			Title:     "Buy groceries",
			Category:  api.CategoryShopping,
			CreatedAt: now.Add(-1 * time.Hour),
			UpdatedAt: now,
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	tasks := sampleTasks()
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(tasks, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"ID", "Title", "Description", "Category", "Completed", "Due", "Created", "Updated"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "t1" {
		t.Fatalf("ID = %q, want t1", row[0])
	}
	if row[1] != "Write report" {
		t.Fatalf("Title = %q", row[1])
	}
	if row[3] != "Work" {
		t.Fatalf("Category = %q, want Work", row[3])
	}
	if row[4] != "yes" {
		t.Fatalf("Completed = %q, want yes", row[4])
	}
	if row[5] == "" {
		t.Fatal("due date should not be empty for t1")
	}

	// Undated task keeps the Due column empty
	if records[2][5] != "" {
		t.Fatalf("undated task should have empty Due, got %q", records[2][5])
	}
	if records[2][4] != "no" {
		t.Fatalf("open task Completed = %q, want no", records[2][4])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	now := time.Now()
	tasks := []api.Task{
		{
			ID:          "t1",
			Title:       `Task with "quotes" and, commas`,
			Description: "line1\nline2",
			Category:    api.CategoryPersonal,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(tasks, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Task with "quotes" and, commas` {
		t.Fatalf("title mangled: %q", records[1][1])
	}
	if records[1][2] != "line1\nline2" {
		t.Fatalf("description mangled: %q", records[1][2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	tasks := sampleTasks()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(tasks, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(result.Tasks))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	first := result.Tasks[0]
	if first.ID != "t1" || first.Title != "Write report" {
		t.Fatalf("unexpected first task: %+v", first)
	}
	if !first.Completed {
		t.Fatal("t1 should be completed")
	}
	if first.Category != "Work" {
		t.Fatalf("Category = %q, want Work", first.Category)
	}
	if first.DueDate == "" {
		t.Fatal("t1 should have a due date")
	}

	// Undated task omits due_date
	if result.Tasks[1].DueDate != "" {
		t.Fatalf("undated task should have empty due_date, got %q", result.Tasks[1].DueDate)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Tasks != nil {
		t.Fatal("tasks should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamps(t *testing.T) {
	tasks := sampleTasks()
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON(tasks, path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	for _, task := range result.Tasks {
		if _, err := time.Parse(time.RFC3339, task.CreatedAt); err != nil {
			t.Fatalf("created_at is not valid RFC3339: %q", task.CreatedAt)
		}
	}
}
