package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/daybook-app/daybook/internal/models"
)

func (a *App) list(ctx context.Context) {
	entries := a.latest()
	if len(entries) == 0 {
		fmt.Println("No entries yet. Try 'add'.")
		return
	}
	for _, e := range entries {
		extra := ""
		if e.Location != nil {
			extra = " @ " + e.Location.Name
		}
		if n := len(e.MediaFiles); n > 0 {
			extra += fmt.Sprintf(" (%d attachment(s))", n)
		}
		fmt.Printf("%4d  %s  %s%s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.Title, extra)
	}
}

func (a *App) show(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("Usage: show <id>")
		return
	}

	entry, err := a.collection.Get(id)
	if err != nil {
		fmt.Println("not found:", id)
		return
	}

	fmt.Printf("#%d %s\n", entry.ID, entry.Title)
	fmt.Println("created:", entry.CreatedAt.Format("2006-01-02 15:04"))
	if entry.Mood != "" {
		fmt.Println("mood:", entry.Mood)
	}
	if entry.Location != nil {
		fmt.Println("location:", entry.Location.Name)
	}
	if entry.Content != "" {
		fmt.Println()
		fmt.Println(entry.Content)
	}
	for _, m := range entry.MediaFiles {
		fmt.Printf("  [%d] %s %s\n", m.ID, m.FileType, m.FileURL)
	}
}

func (a *App) add(ctx context.Context) {
	title := a.prompt("Title: ")
	content := a.prompt("Content: ")
	mood := a.prompt(fmt.Sprintf("Mood (%s): ", strings.Join(models.Moods, "/")))
	locationName := a.prompt("Location (blank to skip): ")

	draft := &models.Entry{Title: title, Content: content, Mood: mood}
	if locationName != "" {
		draft.Location = &models.Location{Name: locationName}
	}

	if err := a.writer.Create(ctx, draft); err != nil {
		fmt.Println("save failed:", err)
		return
	}
	fmt.Printf("Saved entry #%d\n", draft.ID)
}

func (a *App) edit(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("Usage: edit <id>")
		return
	}

	entry, err := a.collection.Get(id)
	if err != nil {
		fmt.Println("not found:", id)
		return
	}

	entry.Title = a.promptDefault("Title", entry.Title)
	entry.Content = a.promptDefault("Content", entry.Content)
	entry.Mood = a.promptDefault("Mood", entry.Mood)

	current := ""
	if entry.Location != nil {
		current = entry.Location.Name
	}
	if name := a.promptDefault("Location", current); name != "" {
		entry.Location = &models.Location{Name: name}
	}

	if err := a.writer.Update(ctx, &entry); err != nil {
		fmt.Println("update failed:", err)
		return
	}
	fmt.Println("Updated.")
}

func (a *App) delete(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("Usage: delete <id>")
		return
	}

	if a.prompt("Delete entry and all attachments? (y/N): ") != "y" {
		return
	}

	if err := a.writer.Delete(ctx, id); err != nil {
		fmt.Println("delete failed:", err)
		return
	}
	fmt.Println("Deleted.")
}
