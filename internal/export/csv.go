package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/elevate/internal/api"
)

func ToCSV(tasks []api.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Description", "Category", "Completed", "Due", "Created", "Updated"}); err != nil {
		return err
	}

	for _, t := range tasks {
		dueStr := ""
		if t.DueDate != nil {
			dueStr = t.DueDate.Local().Format(time.RFC3339)
		}
		completed := "no"
		if t.IsCompleted {
			completed = "yes"
		}

		row := []string{
			t.ID,
			t.Title,
			t.Description,
			string(t.Category),
			completed,
			dueStr,
			t.CreatedAt.Local().Format(time.RFC3339),
			t.UpdatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
