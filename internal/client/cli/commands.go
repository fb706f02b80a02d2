package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
)

const dueLayout = "2006-01-02"

// report prints err in a form fit for the terminal and returns it.
func (a *App) report(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotLoggedIn):
		fmt.Fprintln(a.out, "You are not logged in.")
	case errors.Is(err, client.ErrUnauthorized) && errors.As(err, &apiErr) && apiErr.Category != "InvalidCredentials":
		fmt.Fprintln(a.out, "Your session has expired, please log in again.")
	case errors.As(err, &apiErr) && apiErr.Message != "":
		fmt.Fprintln(a.out, "Error:", apiErr.Message)
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server is not reachable, try again later.")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// idArg returns the task id given on the command line or asks for one.
func (a *App) idArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.ask("Task ID")
}

func (a *App) Register(ctx context.Context) error {
	name, err := a.ask("Name")
	if err != nil {
		return err
	}
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.Register(ctx, name, email, password)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Registered %s. You can now log in.\n", u.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Logged in as %s, session valid until %s.\n", s.User.Name, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u, err := a.authService.Whoami(ctx)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s <%s>, id %s, member since %s\n", u.Name, u.Email, u.ID, u.CreatedAt.Format(dueLayout))
	return nil
}

func formatDue(t *client.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDate.UTC().Format(dueLayout)
}

func (a *App) List(ctx context.Context) error {
	tasks, err := a.taskService.List(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks yet. Use 'add' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tSTATUS\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Priority, t.Status, formatDue(&t))
	}
	return w.Flush()
}

func (a *App) printTask(t *client.Task) {
	fmt.Fprintf(a.out, "ID:          %s\n", t.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", strings.ReplaceAll(t.Description, "\n", "\n             "))
	}
	fmt.Fprintf(a.out, "Priority:    %s\n", t.Priority)
	fmt.Fprintf(a.out, "Status:      %s\n", t.Status)
	fmt.Fprintf(a.out, "Due:         %s\n", formatDue(t))
	fmt.Fprintf(a.out, "Created:     %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	t, err := a.taskService.Get(ctx, id)
	if err != nil {
		return a.report(err)
	}
	a.printTask(t)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (a *App) Add(ctx context.Context) error {
	title, err := a.ask("Title")
	if err != nil {
		return err
	}
	desc, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	due, err := a.ask("Due date (YYYY-MM-DD, empty for none)")
	if err != nil {
		return err
	}
	priority, err := a.ask("Priority (low/medium/high, empty for medium)")
	if err != nil {
		return err
	}

	t, err := a.taskService.Create(ctx, client.TaskInput{
		Title:       &title,
		Description: optional(desc),
		DueDate:     optional(due),
		Priority:    optional(priority),
	})
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Task %s created.\n", t.ID)
	return nil
}

// Edit asks for each field in turn; empty answers leave the field as is
// and "-" clears the due date.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	cur, err := a.taskService.Get(ctx, id)
	if err != nil {
		return a.report(err)
	}

	var in client.TaskInput
	if in.Title, err = GetOptional(a.reader, "Title", cur.Title, a.out); err != nil {
		return err
	}
	if in.Description, err = GetOptional(a.reader, "Description", "", a.out); err != nil {
		return err
	}
	if in.DueDate, err = GetOptional(a.reader, "Due date ('-' to clear)", formatDue(cur), a.out); err != nil {
		return err
	}
	if in.DueDate != nil && *in.DueDate == "-" {
		empty := ""
		in.DueDate = &empty
	}
	if in.Priority, err = GetOptional(a.reader, "Priority", cur.Priority, a.out); err != nil {
		return err
	}
	if in.Status, err = GetOptional(a.reader, "Status", cur.Status, a.out); err != nil {
		return err
	}

	t, err := a.taskService.Update(ctx, cur.ID, in)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Task %s updated.\n", t.ID)
	return nil
}

func (a *App) Done(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	t, err := a.taskService.Complete(ctx, id)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Task %s marked as completed.\n", t.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	if err := a.taskService.Delete(ctx, id); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Task %s deleted.\n", id)
	return nil
}
